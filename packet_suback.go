package mqttv5

import "fmt"

// reasonListInfo is the shared shape of SUBACK and UNSUBACK: a
// non-zero packet id, a properties block, and a payload of one reason
// code per subscription/filter in the originating request.
type reasonListInfo struct {
	PacketID    uint16
	ReasonCodes []ReasonCode
}

func (r reasonListInfo) validate(packetType PacketType, validReason func(ReasonCode) bool) error {
	if r.PacketID == 0 {
		return fmt.Errorf("%w: packet identifier must be non-zero", ErrBadParameter)
	}
	if len(r.ReasonCodes) == 0 {
		return fmt.Errorf("%w: %s requires at least one reason code", ErrBadParameter, packetType)
	}
	for _, rc := range r.ReasonCodes {
		if !validReason(rc) {
			return fmt.Errorf("%w: reason code 0x%02x is not valid for %s", ErrBadParameter, byte(rc), packetType)
		}
	}
	return nil
}

func reasonListRemaining(info reasonListInfo, props []byte) int {
	return 2 + varintSize(uint32(len(props))) + len(props) + len(info.ReasonCodes)
}

func getReasonListSize(info reasonListInfo, props []byte, packetType PacketType, validReason func(ReasonCode) bool) (int, error) {
	if err := info.validate(packetType, validReason); err != nil {
		return 0, err
	}
	remaining := reasonListRemaining(info, props)
	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: %s remaining length exceeds wire limit", ErrBadParameter, packetType)
	}
	return 1 + varintSize(uint32(remaining)) + remaining, nil
}

func serializeReasonList(buf []byte, packetType PacketType, info reasonListInfo, props []byte, validReason func(ReasonCode) bool) (int, error) {
	size, err := getReasonListSize(info, props, packetType, validReason)
	if err != nil {
		return 0, err
	}
	if len(buf) < size {
		return 0, ErrNoMemory
	}

	remaining := reasonListRemaining(info, props)
	header := FixedHeader{Type: packetType, Flags: 0x00, RemainingLength: uint32(remaining)}
	n := header.Put(buf)
	putUint16(buf[n:], info.PacketID)
	n += 2
	n += putVarint(buf[n:], uint32(len(props)))
	n += copy(buf[n:], props)
	for _, rc := range info.ReasonCodes {
		buf[n] = byte(rc)
		n++
	}
	return n, nil
}

func deserializeReasonList(pi PacketInfo, packetType PacketType, validReason func(ReasonCode) bool) (reasonListInfo, *PropertyReader, error) {
	if pi.Type != packetType {
		return reasonListInfo{}, nil, fmt.Errorf("%w: expected %s", ErrBadParameter, packetType)
	}
	if err := pi.checkRemaining(); err != nil {
		return reasonListInfo{}, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return reasonListInfo{}, nil, err
	}

	buf := pi.Remaining
	if len(buf) < 2 {
		return reasonListInfo{}, nil, fmt.Errorf("%w: %s truncated before packet id", ErrMalformedPacket, packetType)
	}
	info := reasonListInfo{PacketID: getUint16(buf)}
	if info.PacketID == 0 {
		return reasonListInfo{}, nil, fmt.Errorf("%w: %s packet id must be non-zero", ErrMalformedPacket, packetType)
	}

	propLen, n, err := getVarint(buf[2:])
	if err != nil {
		return reasonListInfo{}, nil, err
	}
	pos := 2 + n
	if pos+int(propLen) > len(buf) {
		return reasonListInfo{}, nil, fmt.Errorf("%w: %s property block runs past buffer", ErrMalformedPacket, packetType)
	}
	propBuf := buf[pos : pos+int(propLen)]
	pos += int(propLen)

	if _, err := parsePropertyBlock(propBuf, packetType, nil); err != nil {
		return reasonListInfo{}, nil, err
	}

	for ; pos < len(buf); pos++ {
		rc := ReasonCode(buf[pos])
		if !validReason(rc) {
			return reasonListInfo{}, nil, fmt.Errorf("%w: reason code 0x%02x is not valid for %s", ErrMalformedPacket, byte(rc), packetType)
		}
		info.ReasonCodes = append(info.ReasonCodes, rc)
	}
	if len(info.ReasonCodes) == 0 {
		return reasonListInfo{}, nil, fmt.Errorf("%w: %s carries no reason codes", ErrMalformedPacket, packetType)
	}

	return info, NewPropertyReader(propBuf, packetType), nil
}

// SubAckInfo is a SUBACK packet: packet id plus one granted-QoS or
// failure reason code per SUBSCRIBE filter, in request order.
type SubAckInfo struct {
	PacketID    uint16
	ReasonCodes []ReasonCode
}

// GetSubAckSize returns the total encoded size of a SUBACK packet.
func GetSubAckSize(info SubAckInfo, props []byte) (int, error) {
	return getReasonListSize(reasonListInfo(info), props, PacketSUBACK, ReasonCode.ValidForSUBACK)
}

// SerializeSubAck writes a SUBACK packet into buf.
func SerializeSubAck(buf []byte, info SubAckInfo, props []byte) (int, error) {
	return serializeReasonList(buf, PacketSUBACK, reasonListInfo(info), props, ReasonCode.ValidForSUBACK)
}

// DeserializeSubAck parses a SUBACK packet's remaining data.
func DeserializeSubAck(pi PacketInfo) (SubAckInfo, *PropertyReader, error) {
	info, reader, err := deserializeReasonList(pi, PacketSUBACK, ReasonCode.ValidForSUBACK)
	return SubAckInfo(info), reader, err
}
