package mqttv5

import "fmt"

// PacketInfo describes one fully-framed incoming control packet: the
// type/flags byte, the already-decoded Remaining Length, and a
// borrowed view of the remaining-data bytes that follow the fixed
// header. Deserialize* functions never see anything but this record -
// they never touch a transport or a growable buffer.
type PacketInfo struct {
	Type            PacketType
	Flags           byte
	RemainingLength uint32
	Remaining       []byte // len(Remaining) == RemainingLength
	HeaderLength    int    // bytes occupied by the fixed header itself
}

// header reconstructs the FixedHeader carried by this PacketInfo, for
// flag validation shared with the framing scanner.
func (pi PacketInfo) header() FixedHeader {
	return FixedHeader{Type: pi.Type, Flags: pi.Flags, RemainingLength: pi.RemainingLength}
}

// checkRemaining fails with ErrMalformedPacket unless len(pi.Remaining)
// equals pi.RemainingLength exactly - the codec never tolerates a
// caller handing over a mismatched slice.
func (pi PacketInfo) checkRemaining() error {
	if len(pi.Remaining) != int(pi.RemainingLength) {
		return fmt.Errorf("packet info remaining length %d does not match slice length %d: %w",
			pi.RemainingLength, len(pi.Remaining), ErrMalformedPacket)
	}
	return nil
}

// checkTrailing fails unless the parse cursor consumed exactly the
// whole remaining-data buffer. A well-formed packet never has bytes
// left over after every field, and none of this codec's parsers
// attempt to resynchronize on a trailing-byte violation.
func checkTrailing(consumed, total int) error {
	if consumed != total {
		return fmt.Errorf("packet has %d trailing byte(s) after parsing: %w", total-consumed, ErrMalformedPacket)
	}
	return nil
}
