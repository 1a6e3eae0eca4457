//nolint:dupl // MQTT v5.0 requires separate packet types with the same structure
package mqttv5

import "fmt"

// reasonOnlyRemaining computes the Remaining Length of a packet shaped
// like DISCONNECT or AUTH: an optional reason code plus properties,
// with no packet identifier. Remaining length 0 collapses to "Success,
// no properties".
func reasonOnlyRemaining(reason ReasonCode, props []byte) int {
	if reason == ReasonSuccess && len(props) == 0 {
		return 0
	}
	return 1 + varintSize(uint32(len(props))) + len(props)
}

func getReasonOnlySize(reason ReasonCode, props []byte) int {
	remaining := reasonOnlyRemaining(reason, props)
	return 1 + varintSize(uint32(remaining)) + remaining
}

func serializeReasonOnly(buf []byte, packetType PacketType, reason ReasonCode, validReason func(ReasonCode) bool, props []byte) (int, error) {
	if !validReason(reason) {
		return 0, fmt.Errorf("%w: reason code 0x%02x is not valid for %s", ErrBadParameter, byte(reason), packetType)
	}
	remaining := reasonOnlyRemaining(reason, props)
	size := 1 + varintSize(uint32(remaining)) + remaining
	if len(buf) < size {
		return 0, ErrNoMemory
	}

	header := FixedHeader{Type: packetType, Flags: 0x00, RemainingLength: uint32(remaining)}
	n := header.Put(buf)
	if remaining > 0 {
		buf[n] = byte(reason)
		n++
		n += putVarint(buf[n:], uint32(len(props)))
		n += copy(buf[n:], props)
	}
	return n, nil
}

func deserializeReasonOnly(pi PacketInfo, packetType PacketType, validReason func(ReasonCode) bool) (ReasonCode, *PropertyReader, error) {
	if pi.Type != packetType {
		return 0, nil, fmt.Errorf("%w: expected %s", ErrBadParameter, packetType)
	}
	if err := pi.checkRemaining(); err != nil {
		return 0, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return 0, nil, err
	}

	buf := pi.Remaining
	if len(buf) == 0 {
		return ReasonSuccess, NewPropertyReader(nil, packetType), nil
	}

	reason := ReasonCode(buf[0])
	if !validReason(reason) {
		return 0, nil, fmt.Errorf("%w: reason code 0x%02x is not valid for %s", ErrMalformedPacket, byte(reason), packetType)
	}
	if len(buf) == 1 {
		return reason, NewPropertyReader(nil, packetType), nil
	}

	propLen, n, err := getVarint(buf[1:])
	if err != nil {
		return 0, nil, err
	}
	pos := 1 + n
	if pos+int(propLen) > len(buf) {
		return 0, nil, fmt.Errorf("%w: %s property block runs past buffer", ErrMalformedPacket, packetType)
	}
	propBuf := buf[pos : pos+int(propLen)]
	pos += int(propLen)

	if err := checkTrailing(pos, len(buf)); err != nil {
		return 0, nil, err
	}
	if _, err := parsePropertyBlock(propBuf, packetType, nil); err != nil {
		return 0, nil, err
	}

	return reason, NewPropertyReader(propBuf, packetType), nil
}

// GetDisconnectSize returns the total encoded size of a DISCONNECT
// packet.
func GetDisconnectSize(reason ReasonCode, props []byte) int {
	return getReasonOnlySize(reason, props)
}

// SerializeDisconnect writes a DISCONNECT packet into buf.
func SerializeDisconnect(buf []byte, reason ReasonCode, props []byte) (int, error) {
	return serializeReasonOnly(buf, PacketDISCONNECT, reason, ReasonCode.ValidForDISCONNECT, props)
}

// DeserializeDisconnect parses a DISCONNECT packet's remaining data.
func DeserializeDisconnect(pi PacketInfo) (ReasonCode, *PropertyReader, error) {
	return deserializeReasonOnly(pi, PacketDISCONNECT, ReasonCode.ValidForDISCONNECT)
}
