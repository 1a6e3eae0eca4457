package mqttv5

import "fmt"

// GetConnAckSize returns the total encoded size of a CONNACK packet
// carrying the given pre-built property block.
func GetConnAckSize(props []byte) (int, error) {
	remaining := 1 + 1 + varintSize(uint32(len(props))) + len(props)
	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: connack remaining length exceeds wire limit", ErrBadParameter)
	}
	return 1 + varintSize(uint32(remaining)) + remaining, nil
}

// SerializeConnAck writes a CONNACK packet into buf.
func SerializeConnAck(buf []byte, sessionPresent bool, reason ReasonCode, props []byte) (int, error) {
	if !reason.ValidForCONNACK() {
		return 0, fmt.Errorf("%w: reason code 0x%02x is not valid for connack", ErrBadParameter, byte(reason))
	}
	if reason != ReasonSuccess && sessionPresent {
		return 0, fmt.Errorf("%w: session present must be false with a non-success reason", ErrBadParameter)
	}

	size, err := GetConnAckSize(props)
	if err != nil {
		return 0, err
	}
	if len(buf) < size {
		return 0, ErrNoMemory
	}

	remaining := uint32(1 + 1 + varintSize(uint32(len(props))) + len(props))
	header := FixedHeader{Type: PacketCONNACK, Flags: 0x00, RemainingLength: remaining}
	n := header.Put(buf)

	var flags byte
	if sessionPresent {
		flags = 0x01
	}
	buf[n] = flags
	n++
	buf[n] = byte(reason)
	n++
	n += putVarint(buf[n:], uint32(len(props)))
	n += copy(buf[n:], props)

	return n, nil
}

// DeserializeConnAck parses a CONNACK packet's remaining data,
// returning the session-present flag, reason code, the merged
// ConnectionProperties (defaults applied for anything the server
// omitted), and the raw property reader for callers who want to
// inspect User Properties or anything else not folded into
// ConnectionProperties. A well-formed CONNACK whose reason code is
// 0x80 or above is returned in full together with ErrServerRefused.
//
// responseInfoRequested must reflect whether the originating CONNECT
// asked for Response Information (spec.md §4.4); a CONNACK carrying
// that property when it wasn't requested is malformed.
func DeserializeConnAck(pi PacketInfo, responseInfoRequested bool) (ConnAckResult, *PropertyReader, error) {
	if pi.Type != PacketCONNACK {
		return ConnAckResult{}, nil, fmt.Errorf("%w: expected CONNACK", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return ConnAckResult{}, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return ConnAckResult{}, nil, err
	}
	if pi.RemainingLength < 2 {
		return ConnAckResult{}, nil, fmt.Errorf("%w: connack shorter than minimum 2 bytes", ErrMalformedPacket)
	}

	buf := pi.Remaining
	if buf[0]&0xFE != 0 {
		return ConnAckResult{}, nil, fmt.Errorf("%w: connack acknowledge flags reserved bits set", ErrMalformedPacket)
	}
	sessionPresent := buf[0]&0x01 != 0

	reason := ReasonCode(buf[1])
	if !reason.ValidForCONNACK() {
		return ConnAckResult{}, nil, fmt.Errorf("%w: reason code 0x%02x is not valid for connack", ErrMalformedPacket, byte(reason))
	}
	if sessionPresent && reason != ReasonSuccess {
		return ConnAckResult{}, nil, fmt.Errorf("%w: session present set with non-success reason", ErrMalformedPacket)
	}

	propLen, n, err := getVarint(buf[2:])
	if err != nil {
		return ConnAckResult{}, nil, err
	}
	pos := 2 + n
	if pos+int(propLen) > len(buf) {
		return ConnAckResult{}, nil, fmt.Errorf("%w: connack property block runs past buffer", ErrMalformedPacket)
	}
	propBuf := buf[pos : pos+int(propLen)]
	pos += int(propLen)

	if err := checkTrailing(pos, len(buf)); err != nil {
		return ConnAckResult{}, nil, err
	}

	props := NewConnectionProperties()
	sawResponseInfo := false
	_, err = parsePropertyBlock(propBuf, PacketCONNACK, func(id PropertyID, value any) error {
		if id == PropResponseInformation {
			sawResponseInfo = true
		}
		applyConnAckProperty(&props, id, value)
		return nil
	})
	if err != nil {
		return ConnAckResult{}, nil, err
	}
	if sawResponseInfo && !responseInfoRequested {
		return ConnAckResult{}, nil, fmt.Errorf("%w: response information present without request", ErrMalformedPacket)
	}
	if props.ReceiveMaximum == 0 {
		return ConnAckResult{}, nil, fmt.Errorf("%w: receive maximum must be non-zero", ErrMalformedPacket)
	}
	if props.MaximumPacketSize == 0 {
		return ConnAckResult{}, nil, fmt.Errorf("%w: maximum packet size must be non-zero", ErrMalformedPacket)
	}

	result := ConnAckResult{SessionPresent: sessionPresent, ReasonCode: reason, Properties: props}
	if reason.IsError() {
		return result, NewPropertyReader(propBuf, PacketCONNACK),
			fmt.Errorf("%w: connack reason code 0x%02x", ErrServerRefused, byte(reason))
	}
	return result, NewPropertyReader(propBuf, PacketCONNACK), nil
}
