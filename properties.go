package mqttv5

import "fmt"

// PropertyID is an MQTT v5.0 property identifier (spec.md §4.2). All
// currently defined identifiers are below 0x80, so they always encode
// as a single-byte Variable Byte Integer.
type PropertyID byte

const (
	PropPayloadFormatIndicator      PropertyID = 0x01
	PropMessageExpiryInterval       PropertyID = 0x02
	PropContentType                 PropertyID = 0x03
	PropResponseTopic               PropertyID = 0x08
	PropCorrelationData             PropertyID = 0x09
	PropSubscriptionIdentifier      PropertyID = 0x0B
	PropSessionExpiryInterval       PropertyID = 0x11
	PropAssignedClientIdentifier    PropertyID = 0x12
	PropServerKeepAlive             PropertyID = 0x13
	PropAuthenticationMethod        PropertyID = 0x15
	PropAuthenticationData          PropertyID = 0x16
	PropRequestProblemInformation   PropertyID = 0x17
	PropWillDelayInterval           PropertyID = 0x18
	PropRequestResponseInformation  PropertyID = 0x19
	PropResponseInformation         PropertyID = 0x1A
	PropServerReference             PropertyID = 0x1C
	PropReasonString                PropertyID = 0x1F
	PropReceiveMaximum              PropertyID = 0x21
	PropTopicAliasMaximum           PropertyID = 0x22
	PropTopicAlias                  PropertyID = 0x23
	PropMaximumQoS                  PropertyID = 0x24
	PropRetainAvailable             PropertyID = 0x25
	PropUserProperty                PropertyID = 0x26
	PropMaximumPacketSize           PropertyID = 0x27
	PropWildcardSubAvailable        PropertyID = 0x28
	PropSubscriptionIDAvailable     PropertyID = 0x29
	PropSharedSubAvailable          PropertyID = 0x2A
)

// wireType is the MQTT v5.0 property value encoding.
type wireType int

const (
	wireByte wireType = iota
	wireU16
	wireU32
	wireVarint
	wireUTF8
	wireBinary
	wireStringPair
)

// HintNone tells a PropertyBuilder AddX call to skip the
// per-packet-type allow-list check, for callers that have already
// established the context is valid. PropertyReader does not use it:
// decoding always checks against the reader's owner packet type.
const HintNone PacketType = 0xFF

// packetWill is a pseudo packet type used only for allow-list masking:
// the properties that may appear inside a Will properties block, which
// is not itself a control packet.
const packetWill PacketType = 0

// propertyEntry is one row of the central identifier -> (wire type,
// slot bit, allowed packet types, range rule) table that both
// PropertyBuilder and PropertyReader consult. This is the single
// source of truth the design notes call for in place of duplicated
// per-property switches.
type propertyEntry struct {
	id        PropertyID
	name      string
	kind      wireType
	slot      uint // 0 for User Property, which is exempt from duplicate detection
	allowMask uint32
	validate  func(v any) error
}

func (e *propertyEntry) allowed(t PacketType) bool {
	return e.allowMask&(1<<uint(t)) != 0
}

func mask(types ...PacketType) uint32 {
	var m uint32
	for _, t := range types {
		m |= 1 << uint(t)
	}
	return m
}

func noValidation(any) error { return nil }

func mustBool01(v any) error {
	b := v.(byte)
	if b > 1 {
		return fmt.Errorf("%w: value must be 0 or 1, got %d", ErrBadParameter, b)
	}
	return nil
}

func mustNonZeroU16(v any) error {
	if v.(uint16) == 0 {
		return fmt.Errorf("%w: value must be non-zero", ErrBadParameter)
	}
	return nil
}

func mustNonZeroU32(v any) error {
	if v.(uint32) == 0 {
		return fmt.Errorf("%w: value must be non-zero", ErrBadParameter)
	}
	return nil
}

func mustNonZeroVarint(v any) error {
	n := v.(uint32)
	if n == 0 {
		return fmt.Errorf("%w: value must be non-zero", ErrBadParameter)
	}
	if n > maxVarint {
		return fmt.Errorf("%w: value exceeds variable byte integer range", ErrBadParameter)
	}
	return nil
}

// propertyTable is the central per-identifier rule set (spec.md §4.2).
var propertyTable = map[PropertyID]*propertyEntry{
	PropPayloadFormatIndicator: {
		id: PropPayloadFormatIndicator, name: "Payload Format Indicator", kind: wireByte, slot: 11,
		allowMask: mask(PacketPUBLISH, packetWill), validate: mustBool01,
	},
	PropMessageExpiryInterval: {
		id: PropMessageExpiryInterval, name: "Message Expiry Interval", kind: wireU32, slot: 12,
		allowMask: mask(PacketPUBLISH, packetWill), validate: noValidation,
	},
	PropContentType: {
		id: PropContentType, name: "Content Type", kind: wireUTF8, slot: 16,
		allowMask: mask(PacketPUBLISH, packetWill), validate: noValidation,
	},
	PropResponseTopic: {
		id: PropResponseTopic, name: "Response Topic", kind: wireUTF8, slot: 14,
		allowMask: mask(PacketPUBLISH, packetWill), validate: noValidation,
	},
	PropCorrelationData: {
		id: PropCorrelationData, name: "Correlation Data", kind: wireBinary, slot: 15,
		allowMask: mask(PacketPUBLISH, packetWill), validate: noValidation,
	},
	PropSubscriptionIdentifier: {
		id: PropSubscriptionIdentifier, name: "Subscription Identifier", kind: wireVarint, slot: 1,
		allowMask: mask(PacketPUBLISH, PacketSUBSCRIBE), validate: mustNonZeroVarint,
	},
	PropSessionExpiryInterval: {
		id: PropSessionExpiryInterval, name: "Session Expiry Interval", kind: wireU32, slot: 2,
		allowMask: mask(PacketCONNECT, PacketCONNACK, PacketDISCONNECT), validate: noValidation,
	},
	PropAssignedClientIdentifier: {
		id: PropAssignedClientIdentifier, name: "Assigned Client Identifier", kind: wireUTF8, slot: 19,
		allowMask: mask(PacketCONNACK), validate: noValidation,
	},
	PropServerKeepAlive: {
		id: PropServerKeepAlive, name: "Server Keep Alive", kind: wireU16, slot: 20,
		allowMask: mask(PacketCONNACK), validate: noValidation,
	},
	PropAuthenticationMethod: {
		id: PropAuthenticationMethod, name: "Authentication Method", kind: wireUTF8, slot: 9,
		allowMask: mask(PacketCONNECT, PacketCONNACK, PacketAUTH), validate: noValidation,
	},
	PropAuthenticationData: {
		id: PropAuthenticationData, name: "Authentication Data", kind: wireBinary, slot: 10,
		allowMask: mask(PacketCONNECT, PacketCONNACK, PacketAUTH), validate: noValidation,
	},
	PropRequestProblemInformation: {
		id: PropRequestProblemInformation, name: "Request Problem Information", kind: wireByte, slot: 7,
		allowMask: mask(PacketCONNECT), validate: mustBool01,
	},
	PropWillDelayInterval: {
		id: PropWillDelayInterval, name: "Will Delay Interval", kind: wireU32, slot: 18,
		allowMask: mask(packetWill), validate: noValidation,
	},
	PropRequestResponseInformation: {
		id: PropRequestResponseInformation, name: "Request Response Information", kind: wireByte, slot: 6,
		allowMask: mask(PacketCONNECT), validate: mustBool01,
	},
	PropResponseInformation: {
		id: PropResponseInformation, name: "Response Information", kind: wireUTF8, slot: 21,
		allowMask: mask(PacketCONNACK), validate: noValidation,
	},
	PropServerReference: {
		id: PropServerReference, name: "Server Reference", kind: wireUTF8, slot: 22,
		allowMask: mask(PacketCONNACK, PacketDISCONNECT), validate: noValidation,
	},
	PropReasonString: {
		id: PropReasonString, name: "Reason String", kind: wireUTF8, slot: 17,
		allowMask: mask(PacketCONNACK, PacketPUBACK, PacketPUBREC, PacketPUBREL, PacketPUBCOMP,
			PacketSUBACK, PacketUNSUBACK, PacketDISCONNECT, PacketAUTH),
		validate: noValidation,
	},
	PropReceiveMaximum: {
		id: PropReceiveMaximum, name: "Receive Maximum", kind: wireU16, slot: 3,
		allowMask: mask(PacketCONNECT, PacketCONNACK), validate: mustNonZeroU16,
	},
	PropTopicAliasMaximum: {
		id: PropTopicAliasMaximum, name: "Topic Alias Maximum", kind: wireU16, slot: 5,
		allowMask: mask(PacketCONNECT, PacketCONNACK), validate: noValidation,
	},
	PropTopicAlias: {
		id: PropTopicAlias, name: "Topic Alias", kind: wireU16, slot: 13,
		allowMask: mask(PacketPUBLISH), validate: mustNonZeroU16,
	},
	PropMaximumQoS: {
		id: PropMaximumQoS, name: "Maximum QoS", kind: wireByte, slot: 23,
		allowMask: mask(PacketCONNACK), validate: mustBool01,
	},
	PropRetainAvailable: {
		id: PropRetainAvailable, name: "Retain Available", kind: wireByte, slot: 24,
		allowMask: mask(PacketCONNACK), validate: mustBool01,
	},
	PropUserProperty: {
		id: PropUserProperty, name: "User Property", kind: wireStringPair, slot: 0,
		allowMask: mask(PacketCONNECT, PacketCONNACK, PacketPUBLISH, PacketPUBACK, PacketPUBREC,
			PacketPUBREL, PacketPUBCOMP, PacketSUBSCRIBE, PacketSUBACK, PacketUNSUBSCRIBE,
			PacketUNSUBACK, PacketDISCONNECT, PacketAUTH, packetWill),
		validate: noValidation,
	},
	PropMaximumPacketSize: {
		id: PropMaximumPacketSize, name: "Maximum Packet Size", kind: wireU32, slot: 4,
		allowMask: mask(PacketCONNECT, PacketCONNACK), validate: mustNonZeroU32,
	},
	PropWildcardSubAvailable: {
		id: PropWildcardSubAvailable, name: "Wildcard Subscription Available", kind: wireByte, slot: 25,
		allowMask: mask(PacketCONNACK), validate: mustBool01,
	},
	PropSubscriptionIDAvailable: {
		id: PropSubscriptionIDAvailable, name: "Subscription Identifier Available", kind: wireByte, slot: 26,
		allowMask: mask(PacketCONNACK), validate: mustBool01,
	},
	PropSharedSubAvailable: {
		id: PropSharedSubAvailable, name: "Shared Subscription Available", kind: wireByte, slot: 27,
		allowMask: mask(PacketCONNACK), validate: mustBool01,
	},
}

// sizeOfValue returns the encoded size of a property value, not
// including the identifier byte.
func sizeOfValue(kind wireType, v any) int {
	switch kind {
	case wireByte:
		return 1
	case wireU16:
		return 2
	case wireU32:
		return 4
	case wireVarint:
		return varintSize(v.(uint32))
	case wireUTF8:
		return 2 + len(v.(string))
	case wireBinary:
		return 2 + len(v.([]byte))
	case wireStringPair:
		sp := v.(StringPair)
		return 2 + len(sp.Key) + 2 + len(sp.Value)
	default:
		return 0
	}
}

// encodeValue writes v into buf per kind and returns the bytes written.
func encodeValue(kind wireType, buf []byte, v any) (int, error) {
	switch kind {
	case wireByte:
		buf[0] = v.(byte)
		return 1, nil
	case wireU16:
		putUint16(buf, v.(uint16))
		return 2, nil
	case wireU32:
		putUint32(buf, v.(uint32))
		return 4, nil
	case wireVarint:
		return putVarint(buf, v.(uint32)), nil
	case wireUTF8:
		return putString(buf, v.(string)), nil
	case wireBinary:
		return putBinary(buf, v.([]byte)), nil
	case wireStringPair:
		sp := v.(StringPair)
		n := putString(buf, sp.Key)
		n += putString(buf[n:], sp.Value)
		return n, nil
	default:
		return 0, fmt.Errorf("%w: unknown property wire type", ErrBadParameter)
	}
}

// decodeValue reads a value of the given kind from the start of buf and
// returns it boxed in any, plus the number of bytes consumed.
func decodeValue(kind wireType, buf []byte) (any, int, error) {
	switch kind {
	case wireByte:
		if len(buf) < 1 {
			return nil, 0, fmt.Errorf("property value runs past buffer end: %w", ErrMalformedPacket)
		}
		return buf[0], 1, nil
	case wireU16:
		if len(buf) < 2 {
			return nil, 0, fmt.Errorf("property value runs past buffer end: %w", ErrMalformedPacket)
		}
		return getUint16(buf), 2, nil
	case wireU32:
		if len(buf) < 4 {
			return nil, 0, fmt.Errorf("property value runs past buffer end: %w", ErrMalformedPacket)
		}
		return getUint32(buf), 4, nil
	case wireVarint:
		return getVarint(buf)
	case wireUTF8:
		return getString(buf)
	case wireBinary:
		return getBinary(buf)
	case wireStringPair:
		key, n1, err := getString(buf)
		if err != nil {
			return nil, 0, err
		}
		val, n2, err := getString(buf[n1:])
		if err != nil {
			return nil, 0, err
		}
		return StringPair{Key: key, Value: val}, n1 + n2, nil
	default:
		return nil, 0, fmt.Errorf("unknown property wire type: %w", ErrMalformedPacket)
	}
}
