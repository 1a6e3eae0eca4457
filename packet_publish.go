package mqttv5

import "fmt"

// PublishInfo holds every PUBLISH field except the payload and
// property block, which callers supply separately so the payload can
// be transmitted straight from its own buffer without a copy through
// this codec.
type PublishInfo struct {
	Topic    string
	QoS      QoS
	Retain   bool
	DUP      bool
	PacketID uint16
}

func (p PublishInfo) flags() byte {
	var flags byte
	if p.DUP {
		flags |= publishFlagDup
	}
	flags |= byte(p.QoS) << 1
	if p.Retain {
		flags |= publishFlagRetain
	}
	return flags
}

func (p PublishInfo) validate() error {
	if !p.QoS.Valid() {
		return fmt.Errorf("%w: publish qos must be 0, 1, or 2", ErrBadParameter)
	}
	if p.QoS == AtMostOnce && p.DUP {
		return fmt.Errorf("%w: dup must be false at qos 0", ErrBadParameter)
	}
	if p.QoS > AtMostOnce && p.PacketID == 0 {
		return fmt.Errorf("%w: packet identifier required for qos > 0", ErrBadParameter)
	}
	if p.Topic == "" {
		return fmt.Errorf("%w: topic name is empty", ErrBadParameter)
	}
	if len(p.Topic) > maxUint16 {
		return fmt.Errorf("%w: topic name exceeds 65535 bytes", ErrBadParameter)
	}
	return nil
}

func publishVariableHeaderSize(info PublishInfo, props []byte) int {
	size := 2 + len(info.Topic)
	if info.QoS > AtMostOnce {
		size += 2
	}
	size += varintSize(uint32(len(props))) + len(props)
	return size
}

// GetPublishSize returns the total encoded size of a PUBLISH packet
// carrying payload of length payloadLen and the pre-built property
// block props.
func GetPublishSize(info PublishInfo, props []byte, payloadLen int) (int, error) {
	if err := info.validate(); err != nil {
		return 0, err
	}
	remaining := publishVariableHeaderSize(info, props) + payloadLen
	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: publish remaining length exceeds wire limit", ErrBadParameter)
	}
	return 1 + varintSize(uint32(remaining)) + remaining, nil
}

// SerializePublishHeader writes everything up to and including the
// properties block and packet id - the topic, packet id, and
// properties - but omits the payload, so the caller may append the
// payload to the wire from its own buffer. payloadLen must be the
// actual payload length that will follow, since it contributes to the
// Remaining Length written into the fixed header. Returns the number
// of bytes written (the header length, not including the payload).
func SerializePublishHeader(buf []byte, info PublishInfo, props []byte, payloadLen int) (int, error) {
	if err := info.validate(); err != nil {
		return 0, err
	}
	remaining := publishVariableHeaderSize(info, props) + payloadLen
	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: publish remaining length exceeds wire limit", ErrBadParameter)
	}
	headerLen := 1 + varintSize(uint32(remaining)) + (remaining - payloadLen)
	if len(buf) < headerLen {
		return 0, ErrNoMemory
	}

	header := FixedHeader{Type: PacketPUBLISH, Flags: info.flags(), RemainingLength: uint32(remaining)}
	n := header.Put(buf)

	n += putString(buf[n:], info.Topic)
	if info.QoS > AtMostOnce {
		putUint16(buf[n:], info.PacketID)
		n += 2
	}
	n += putVarint(buf[n:], uint32(len(props)))
	n += copy(buf[n:], props)

	return n, nil
}

// SerializePublish writes a complete PUBLISH packet, payload
// included, into buf.
func SerializePublish(buf []byte, info PublishInfo, props []byte, payload []byte) (int, error) {
	size, err := GetPublishSize(info, props, len(payload))
	if err != nil {
		return 0, err
	}
	if len(buf) < size {
		return 0, ErrNoMemory
	}
	n, err := SerializePublishHeader(buf, info, props, len(payload))
	if err != nil {
		return 0, err
	}
	n += copy(buf[n:], payload)
	return n, nil
}

// FlipDup returns info with the DUP flag toggled, for retransmit paths
// that resend a previously-serialized PUBLISH without changing its
// packet id or payload.
func (p PublishInfo) FlipDup() PublishInfo {
	p.DUP = !p.DUP
	return p
}

// DeserializePublish parses a PUBLISH packet's remaining data. Payload
// is a borrowed slice into pi.Remaining - the caller must not retain it
// past the lifetime of the buffer backing pi.
func DeserializePublish(pi PacketInfo) (PublishInfo, []byte, *PropertyReader, error) {
	if pi.Type != PacketPUBLISH {
		return PublishInfo{}, nil, nil, fmt.Errorf("%w: expected PUBLISH", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return PublishInfo{}, nil, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return PublishInfo{}, nil, nil, err
	}

	var info PublishInfo
	info.DUP = pi.Flags&publishFlagDup != 0
	info.QoS = QoS((pi.Flags >> 1) & 0x03)
	info.Retain = pi.Flags&publishFlagRetain != 0

	if info.QoS == AtMostOnce && pi.RemainingLength < 3 {
		return PublishInfo{}, nil, nil, fmt.Errorf("%w: qos 0 publish shorter than minimum", ErrMalformedPacket)
	}

	buf := pi.Remaining
	topic, n, err := getString(buf)
	if err != nil {
		return PublishInfo{}, nil, nil, err
	}
	info.Topic = topic
	pos := n

	if info.QoS > AtMostOnce {
		if pos+2 > len(buf) {
			return PublishInfo{}, nil, nil, fmt.Errorf("%w: publish truncated before packet id", ErrMalformedPacket)
		}
		info.PacketID = getUint16(buf[pos:])
		pos += 2
		if info.PacketID == 0 {
			return PublishInfo{}, nil, nil, fmt.Errorf("%w: publish packet id must be non-zero at qos > 0", ErrMalformedPacket)
		}
	}

	propLen, n, err := getVarint(buf[pos:])
	if err != nil {
		return PublishInfo{}, nil, nil, err
	}
	pos += n
	if pos+int(propLen) > len(buf) {
		return PublishInfo{}, nil, nil, fmt.Errorf("%w: publish property block runs past buffer", ErrMalformedPacket)
	}
	propBuf := buf[pos : pos+int(propLen)]
	pos += int(propLen)

	if _, err := parsePropertyBlock(propBuf, PacketPUBLISH, nil); err != nil {
		return PublishInfo{}, nil, nil, err
	}

	payload := buf[pos:]
	return info, payload, NewPropertyReader(propBuf, PacketPUBLISH), nil
}
