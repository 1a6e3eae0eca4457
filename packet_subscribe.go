package mqttv5

import "fmt"

// SubscriptionOptions is the per-filter options byte of a SUBSCRIBE
// entry: requested QoS, no-local, retain-as-published, and retain
// handling.
type SubscriptionOptions struct {
	TopicFilter     string
	QoS             QoS
	NoLocal         bool
	RetainAsPublish bool
	RetainHandling  byte // 0, 1, or 2
}

func (s SubscriptionOptions) encode() byte {
	b := byte(s.QoS) & 0x03
	if s.NoLocal {
		b |= 0x04
	}
	if s.RetainAsPublish {
		b |= 0x08
	}
	b |= (s.RetainHandling & 0x03) << 4
	return b
}

func (s SubscriptionOptions) validate() error {
	if s.TopicFilter == "" {
		return fmt.Errorf("%w: topic filter is empty", ErrBadParameter)
	}
	if !s.QoS.Valid() {
		return fmt.Errorf("%w: subscribe qos must be 0, 1, or 2", ErrBadParameter)
	}
	if s.RetainHandling > 2 {
		return fmt.Errorf("%w: retain handling must be 0, 1, or 2", ErrBadParameter)
	}
	return nil
}

// SubscribeInfo holds a SUBSCRIBE packet's packet id and topic filter
// list. The property block (most notably Subscription Identifier) is
// built separately with PropertyBuilder.
type SubscribeInfo struct {
	PacketID uint16
	Filters  []SubscriptionOptions
}

func (s SubscribeInfo) validate() error {
	if s.PacketID == 0 {
		return fmt.Errorf("%w: packet identifier must be non-zero", ErrBadParameter)
	}
	if len(s.Filters) == 0 {
		return fmt.Errorf("%w: subscribe requires at least one topic filter", ErrBadParameter)
	}
	for _, f := range s.Filters {
		if err := f.validate(); err != nil {
			return err
		}
	}
	return nil
}

func subscribeRemaining(info SubscribeInfo, props []byte) (int, error) {
	if err := info.validate(); err != nil {
		return 0, err
	}
	remaining := 2 + varintSize(uint32(len(props))) + len(props)
	for _, f := range info.Filters {
		remaining += 2 + len(f.TopicFilter) + 1
	}
	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: subscribe remaining length exceeds wire limit", ErrBadParameter)
	}
	return remaining, nil
}

// GetSubscribeSize returns the total encoded size of a SUBSCRIBE
// packet.
func GetSubscribeSize(info SubscribeInfo, props []byte) (int, error) {
	remaining, err := subscribeRemaining(info, props)
	if err != nil {
		return 0, err
	}
	return 1 + varintSize(uint32(remaining)) + remaining, nil
}

// SerializeSubscribe writes a SUBSCRIBE packet into buf.
func SerializeSubscribe(buf []byte, info SubscribeInfo, props []byte) (int, error) {
	remaining, err := subscribeRemaining(info, props)
	if err != nil {
		return 0, err
	}
	size := 1 + varintSize(uint32(remaining)) + remaining
	if len(buf) < size {
		return 0, ErrNoMemory
	}

	header := FixedHeader{Type: PacketSUBSCRIBE, Flags: reservedLowNibble, RemainingLength: uint32(remaining)}
	n := header.Put(buf)
	putUint16(buf[n:], info.PacketID)
	n += 2
	n += putVarint(buf[n:], uint32(len(props)))
	n += copy(buf[n:], props)

	for _, f := range info.Filters {
		n += putString(buf[n:], f.TopicFilter)
		buf[n] = f.encode()
		n++
	}
	return n, nil
}

// DeserializeSubscribe parses a SUBSCRIBE packet's remaining data.
func DeserializeSubscribe(pi PacketInfo) (SubscribeInfo, *PropertyReader, error) {
	if pi.Type != PacketSUBSCRIBE {
		return SubscribeInfo{}, nil, fmt.Errorf("%w: expected SUBSCRIBE", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return SubscribeInfo{}, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return SubscribeInfo{}, nil, err
	}

	buf := pi.Remaining
	if len(buf) < 2 {
		return SubscribeInfo{}, nil, fmt.Errorf("%w: subscribe truncated before packet id", ErrMalformedPacket)
	}
	info := SubscribeInfo{PacketID: getUint16(buf)}
	if info.PacketID == 0 {
		return SubscribeInfo{}, nil, fmt.Errorf("%w: subscribe packet id must be non-zero", ErrMalformedPacket)
	}

	propLen, n, err := getVarint(buf[2:])
	if err != nil {
		return SubscribeInfo{}, nil, err
	}
	pos := 2 + n
	if pos+int(propLen) > len(buf) {
		return SubscribeInfo{}, nil, fmt.Errorf("%w: subscribe property block runs past buffer", ErrMalformedPacket)
	}
	propBuf := buf[pos : pos+int(propLen)]
	pos += int(propLen)

	if _, err := parsePropertyBlock(propBuf, PacketSUBSCRIBE, nil); err != nil {
		return SubscribeInfo{}, nil, err
	}

	for pos < len(buf) {
		filter, n, err := getString(buf[pos:])
		if err != nil {
			return SubscribeInfo{}, nil, err
		}
		pos += n
		if pos >= len(buf) {
			return SubscribeInfo{}, nil, fmt.Errorf("%w: subscribe truncated before options byte", ErrMalformedPacket)
		}
		options := buf[pos]
		pos++

		if options&0xC0 != 0 {
			return SubscribeInfo{}, nil, fmt.Errorf("%w: subscribe options reserved bits set", ErrMalformedPacket)
		}
		sub := SubscriptionOptions{
			TopicFilter:     filter,
			QoS:             QoS(options & 0x03),
			NoLocal:         options&0x04 != 0,
			RetainAsPublish: options&0x08 != 0,
			RetainHandling:  (options >> 4) & 0x03,
		}
		if err := sub.validate(); err != nil {
			return SubscribeInfo{}, nil, fmt.Errorf("%s: %w", err.Error(), ErrMalformedPacket)
		}
		info.Filters = append(info.Filters, sub)
	}

	if len(info.Filters) == 0 {
		return SubscribeInfo{}, nil, fmt.Errorf("%w: subscribe carries no topic filters", ErrMalformedPacket)
	}

	return info, NewPropertyReader(propBuf, PacketSUBSCRIBE), nil
}
