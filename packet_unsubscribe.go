package mqttv5

import "fmt"

// UnsubscribeInfo holds an UNSUBSCRIBE packet's packet id and topic
// filter list.
type UnsubscribeInfo struct {
	PacketID     uint16
	TopicFilters []string
}

func (u UnsubscribeInfo) validate() error {
	if u.PacketID == 0 {
		return fmt.Errorf("%w: packet identifier must be non-zero", ErrBadParameter)
	}
	if len(u.TopicFilters) == 0 {
		return fmt.Errorf("%w: unsubscribe requires at least one topic filter", ErrBadParameter)
	}
	for _, tf := range u.TopicFilters {
		if tf == "" {
			return fmt.Errorf("%w: topic filter is empty", ErrBadParameter)
		}
	}
	return nil
}

func unsubscribeRemaining(info UnsubscribeInfo, props []byte) (int, error) {
	if err := info.validate(); err != nil {
		return 0, err
	}
	remaining := 2 + varintSize(uint32(len(props))) + len(props)
	for _, tf := range info.TopicFilters {
		remaining += 2 + len(tf)
	}
	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: unsubscribe remaining length exceeds wire limit", ErrBadParameter)
	}
	return remaining, nil
}

// GetUnsubscribeSize returns the total encoded size of an UNSUBSCRIBE
// packet.
func GetUnsubscribeSize(info UnsubscribeInfo, props []byte) (int, error) {
	remaining, err := unsubscribeRemaining(info, props)
	if err != nil {
		return 0, err
	}
	return 1 + varintSize(uint32(remaining)) + remaining, nil
}

// SerializeUnsubscribe writes an UNSUBSCRIBE packet into buf.
func SerializeUnsubscribe(buf []byte, info UnsubscribeInfo, props []byte) (int, error) {
	remaining, err := unsubscribeRemaining(info, props)
	if err != nil {
		return 0, err
	}
	size := 1 + varintSize(uint32(remaining)) + remaining
	if len(buf) < size {
		return 0, ErrNoMemory
	}

	header := FixedHeader{Type: PacketUNSUBSCRIBE, Flags: reservedLowNibble, RemainingLength: uint32(remaining)}
	n := header.Put(buf)
	putUint16(buf[n:], info.PacketID)
	n += 2
	n += putVarint(buf[n:], uint32(len(props)))
	n += copy(buf[n:], props)
	for _, tf := range info.TopicFilters {
		n += putString(buf[n:], tf)
	}
	return n, nil
}

// DeserializeUnsubscribe parses an UNSUBSCRIBE packet's remaining
// data.
func DeserializeUnsubscribe(pi PacketInfo) (UnsubscribeInfo, *PropertyReader, error) {
	if pi.Type != PacketUNSUBSCRIBE {
		return UnsubscribeInfo{}, nil, fmt.Errorf("%w: expected UNSUBSCRIBE", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return UnsubscribeInfo{}, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return UnsubscribeInfo{}, nil, err
	}

	buf := pi.Remaining
	if len(buf) < 2 {
		return UnsubscribeInfo{}, nil, fmt.Errorf("%w: unsubscribe truncated before packet id", ErrMalformedPacket)
	}
	info := UnsubscribeInfo{PacketID: getUint16(buf)}
	if info.PacketID == 0 {
		return UnsubscribeInfo{}, nil, fmt.Errorf("%w: unsubscribe packet id must be non-zero", ErrMalformedPacket)
	}

	propLen, n, err := getVarint(buf[2:])
	if err != nil {
		return UnsubscribeInfo{}, nil, err
	}
	pos := 2 + n
	if pos+int(propLen) > len(buf) {
		return UnsubscribeInfo{}, nil, fmt.Errorf("%w: unsubscribe property block runs past buffer", ErrMalformedPacket)
	}
	propBuf := buf[pos : pos+int(propLen)]
	pos += int(propLen)

	if _, err := parsePropertyBlock(propBuf, PacketUNSUBSCRIBE, nil); err != nil {
		return UnsubscribeInfo{}, nil, err
	}

	for pos < len(buf) {
		filter, n, err := getString(buf[pos:])
		if err != nil {
			return UnsubscribeInfo{}, nil, err
		}
		if filter == "" {
			return UnsubscribeInfo{}, nil, fmt.Errorf("%w: unsubscribe topic filter is empty", ErrMalformedPacket)
		}
		pos += n
		info.TopicFilters = append(info.TopicFilters, filter)
	}
	if len(info.TopicFilters) == 0 {
		return UnsubscribeInfo{}, nil, fmt.Errorf("%w: unsubscribe carries no topic filters", ErrMalformedPacket)
	}

	return info, NewPropertyReader(propBuf, PacketUNSUBSCRIBE), nil
}
