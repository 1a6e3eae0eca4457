package mqttv5

import "fmt"

// PINGREQ and PINGRESP are always exactly these two bytes.
var (
	pingReqBytes  = [2]byte{byte(PacketPINGREQ) << 4, 0x00}
	pingRespBytes = [2]byte{byte(PacketPINGRESP) << 4, 0x00}
)

// GetPingReqSize returns the fixed 2-byte size of a PINGREQ packet.
func GetPingReqSize() int { return 2 }

// SerializePingReq writes the 2-byte PINGREQ packet into buf.
func SerializePingReq(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, ErrNoMemory
	}
	buf[0], buf[1] = pingReqBytes[0], pingReqBytes[1]
	return 2, nil
}

// DeserializePingReq validates that pi carries a well-formed PINGREQ.
func DeserializePingReq(pi PacketInfo) error {
	if pi.Type != PacketPINGREQ {
		return fmt.Errorf("%w: expected PINGREQ", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return err
	}
	if err := pi.header().validateFlags(); err != nil {
		return err
	}
	if pi.RemainingLength != 0 {
		return fmt.Errorf("%w: pingreq carries a non-empty remaining length", ErrMalformedPacket)
	}
	return nil
}

// GetPingRespSize returns the fixed 2-byte size of a PINGRESP packet.
func GetPingRespSize() int { return 2 }

// SerializePingResp writes the 2-byte PINGRESP packet into buf.
func SerializePingResp(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, ErrNoMemory
	}
	buf[0], buf[1] = pingRespBytes[0], pingRespBytes[1]
	return 2, nil
}

// DeserializePingResp validates that pi carries a well-formed
// PINGRESP.
func DeserializePingResp(pi PacketInfo) error {
	if pi.Type != PacketPINGRESP {
		return fmt.Errorf("%w: expected PINGRESP", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return err
	}
	if err := pi.header().validateFlags(); err != nil {
		return err
	}
	if pi.RemainingLength != 0 {
		return fmt.Errorf("%w: pingresp carries a non-empty remaining length", ErrMalformedPacket)
	}
	return nil
}
