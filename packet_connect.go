package mqttv5

import "fmt"

// ConnectInfo holds every CONNECT field except the property blocks,
// which the caller builds separately with PropertyBuilder and passes
// in as already-encoded bytes. This mirrors the MQTT wire layout: the
// property block is logically just a byte span glued onto the rest of
// the variable header.
type ConnectInfo struct {
	ClientID   string
	CleanStart bool
	KeepAlive  uint16

	Username string
	HasUser  bool
	Password []byte
	HasPass  bool

	WillFlag    bool
	WillQoS     QoS
	WillRetain  bool
	WillTopic   string
	WillPayload []byte
}

func (c ConnectInfo) connectFlags() byte {
	var flags byte
	if c.CleanStart {
		flags |= connectFlagCleanStart
	}
	if c.WillFlag {
		flags |= connectFlagWillFlag
		flags |= byte(c.WillQoS) << 3
		if c.WillRetain {
			flags |= connectFlagWillRetain
		}
	}
	if c.HasPass {
		flags |= connectFlagPassword
	}
	if c.HasUser {
		flags |= connectFlagUsername
	}
	return flags
}

func (c ConnectInfo) validate() error {
	if len(c.ClientID) > maxUint16 {
		return fmt.Errorf("%w: client identifier exceeds 65535 bytes", ErrBadParameter)
	}
	if c.WillFlag {
		if !c.WillQoS.Valid() {
			return fmt.Errorf("%w: will qos must be 0, 1, or 2", ErrBadParameter)
		}
		if len(c.WillPayload) > maxUint16 {
			return fmt.Errorf("%w: will payload exceeds 65535 bytes", ErrBadParameter)
		}
	} else if c.WillQoS != 0 || c.WillRetain {
		return fmt.Errorf("%w: will qos/retain set without will flag", ErrBadParameter)
	}
	if c.HasPass && len(c.Password) > maxUint16 {
		return fmt.Errorf("%w: password exceeds 65535 bytes", ErrBadParameter)
	}
	return nil
}

// connectRemaining computes the Remaining Length of a CONNECT packet.
func connectRemaining(info ConnectInfo, props, willProps []byte) (int, error) {
	if err := info.validate(); err != nil {
		return 0, err
	}

	remaining := 2 + len(protocolName) + 1 + 1 + 2 // protocol name + level + flags + keepalive
	remaining += varintSize(uint32(len(props))) + len(props)
	remaining += 2 + len(info.ClientID)

	if info.WillFlag {
		remaining += varintSize(uint32(len(willProps))) + len(willProps)
		remaining += 2 + len(info.WillTopic)
		remaining += 2 + len(info.WillPayload)
	}
	if info.HasUser {
		remaining += 2 + len(info.Username)
	}
	if info.HasPass {
		remaining += 2 + len(info.Password)
	}

	if remaining > maxVarint {
		return 0, fmt.Errorf("%w: connect remaining length exceeds wire limit", ErrBadParameter)
	}
	return remaining, nil
}

// GetConnectSize returns the total encoded size of a CONNECT packet:
// fixed header plus variable header plus payload. props and willProps
// are the pre-built property blocks (without their own length
// prefix); pass nil for an empty block.
func GetConnectSize(info ConnectInfo, props, willProps []byte) (int, error) {
	remaining, err := connectRemaining(info, props, willProps)
	if err != nil {
		return 0, err
	}
	total := 1 + varintSize(uint32(remaining)) + remaining
	if total > maxTotalPacketSize {
		return 0, fmt.Errorf("%w: connect packet exceeds wire limit", ErrBadParameter)
	}
	return total, nil
}

// SerializeConnect writes a CONNECT packet into buf. Call
// GetConnectSize with the same arguments first to size buf.
func SerializeConnect(buf []byte, info ConnectInfo, props, willProps []byte) (int, error) {
	remaining, err := connectRemaining(info, props, willProps)
	if err != nil {
		return 0, err
	}
	size := 1 + varintSize(uint32(remaining)) + remaining
	if len(buf) < size {
		return 0, ErrNoMemory
	}

	header := FixedHeader{Type: PacketCONNECT, Flags: 0x00, RemainingLength: uint32(remaining)}
	n := header.Put(buf)

	n += putString(buf[n:], protocolName)
	buf[n] = protocolVersion
	n++
	buf[n] = info.connectFlags()
	n++
	putUint16(buf[n:], info.KeepAlive)
	n += 2

	n += putVarint(buf[n:], uint32(len(props)))
	n += copy(buf[n:], props)

	n += putString(buf[n:], info.ClientID)

	if info.WillFlag {
		n += putVarint(buf[n:], uint32(len(willProps)))
		n += copy(buf[n:], willProps)
		n += putString(buf[n:], info.WillTopic)
		n += putBinary(buf[n:], info.WillPayload)
	}
	if info.HasUser {
		n += putString(buf[n:], info.Username)
	}
	if info.HasPass {
		n += putBinary(buf[n:], info.Password)
	}

	return n, nil
}

// DeserializeConnect parses a CONNECT packet's remaining data. It
// returns the decoded fields, the property-block reader, and (when
// WillFlag is set) the will-property-block reader.
func DeserializeConnect(pi PacketInfo) (ConnectInfo, *PropertyReader, *PropertyReader, error) {
	if pi.Type != PacketCONNECT {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: expected CONNECT", ErrBadParameter)
	}
	if err := pi.checkRemaining(); err != nil {
		return ConnectInfo{}, nil, nil, err
	}
	if err := pi.header().validateFlags(); err != nil {
		return ConnectInfo{}, nil, nil, err
	}

	buf := pi.Remaining
	name, n, err := getString(buf)
	if err != nil {
		return ConnectInfo{}, nil, nil, err
	}
	if name != protocolName {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: unexpected protocol name %q", ErrMalformedPacket, name)
	}
	pos := n

	if pos >= len(buf) {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: connect truncated before protocol level", ErrMalformedPacket)
	}
	if buf[pos] != protocolVersion {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: unsupported protocol level %d", ErrMalformedPacket, buf[pos])
	}
	pos++

	if pos >= len(buf) {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: connect truncated before flags", ErrMalformedPacket)
	}
	flags := buf[pos]
	pos++
	if flags&0x01 != 0 {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: connect flags reserved bit set", ErrMalformedPacket)
	}

	var info ConnectInfo
	info.CleanStart = flags&connectFlagCleanStart != 0
	info.WillFlag = flags&connectFlagWillFlag != 0
	info.WillQoS = QoS((flags >> 3) & 0x03)
	info.WillRetain = flags&connectFlagWillRetain != 0
	info.HasPass = flags&connectFlagPassword != 0
	info.HasUser = flags&connectFlagUsername != 0

	if !info.WillFlag && (info.WillQoS != 0 || info.WillRetain) {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: will qos/retain set without will flag", ErrMalformedPacket)
	}
	if info.WillFlag && !info.WillQoS.Valid() {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: will qos reserved value 3", ErrMalformedPacket)
	}

	if pos+2 > len(buf) {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: connect truncated before keep alive", ErrMalformedPacket)
	}
	info.KeepAlive = getUint16(buf[pos:])
	pos += 2

	propLen, n, err := getVarint(buf[pos:])
	if err != nil {
		return ConnectInfo{}, nil, nil, err
	}
	pos += n
	if pos+int(propLen) > len(buf) {
		return ConnectInfo{}, nil, nil, fmt.Errorf("%w: connect property block runs past buffer", ErrMalformedPacket)
	}
	propBlock := buf[pos : pos+int(propLen)]
	if _, err := parsePropertyBlock(propBlock, PacketCONNECT, nil); err != nil {
		return ConnectInfo{}, nil, nil, err
	}
	connReader := NewPropertyReader(propBlock, PacketCONNECT)
	pos += int(propLen)

	info.ClientID, n, err = getString(buf[pos:])
	if err != nil {
		return ConnectInfo{}, nil, nil, err
	}
	pos += n

	var willReader *PropertyReader
	if info.WillFlag {
		willPropLen, n, err := getVarint(buf[pos:])
		if err != nil {
			return ConnectInfo{}, nil, nil, err
		}
		pos += n
		if pos+int(willPropLen) > len(buf) {
			return ConnectInfo{}, nil, nil, fmt.Errorf("%w: will property block runs past buffer", ErrMalformedPacket)
		}
		willReader = NewPropertyReader(buf[pos:pos+int(willPropLen)], packetWill)
		if _, err := parsePropertyBlock(buf[pos:pos+int(willPropLen)], packetWill, nil); err != nil {
			return ConnectInfo{}, nil, nil, err
		}
		pos += int(willPropLen)

		info.WillTopic, n, err = getString(buf[pos:])
		if err != nil {
			return ConnectInfo{}, nil, nil, err
		}
		pos += n

		info.WillPayload, n, err = getBinary(buf[pos:])
		if err != nil {
			return ConnectInfo{}, nil, nil, err
		}
		pos += n
	}

	if info.HasUser {
		info.Username, n, err = getString(buf[pos:])
		if err != nil {
			return ConnectInfo{}, nil, nil, err
		}
		pos += n
	}

	if info.HasPass {
		info.Password, n, err = getBinary(buf[pos:])
		if err != nil {
			return ConnectInfo{}, nil, nil, err
		}
		pos += n
	}

	if err := checkTrailing(pos, len(buf)); err != nil {
		return ConnectInfo{}, nil, nil, err
	}

	return info, connReader, willReader, nil
}
