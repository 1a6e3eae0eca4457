package mqttv5

import "fmt"

// PropertyBuilder is an append-only, typed, validated writer for an
// MQTT v5.0 property block. It owns a caller-supplied byte region and
// tracks which properties have already been written in a 32-bit
// fieldSet bitset, giving O(1) duplicate detection without an
// allocation. The block-length VBI prefix is not part of the builder's
// output; callers add it when embedding the block into a packet.
type PropertyBuilder struct {
	buf           []byte
	pos           int
	fieldSet      uint32
	hasAuthMethod bool
}

// NewPropertyBuilder wraps buf as the backing store for a new builder.
// len(buf) bounds how many properties can be appended before AddX
// starts returning ErrNoMemory; capacity beyond len(buf) is not used.
func NewPropertyBuilder(buf []byte) *PropertyBuilder {
	return &PropertyBuilder{buf: buf}
}

// Len returns the number of bytes written so far — the value to use as
// the property block's Remaining Length contribution.
func (b *PropertyBuilder) Len() int { return b.pos }

// Bytes returns the encoded property pairs written so far, without the
// block-length prefix.
func (b *PropertyBuilder) Bytes() []byte { return b.buf[:b.pos] }

// Reset clears the builder for reuse over the same backing buffer.
func (b *PropertyBuilder) Reset() {
	b.pos = 0
	b.fieldSet = 0
	b.hasAuthMethod = false
}

// Has reports whether the property has already been appended. User
// Property is never "has" since it is never duplicate-checked.
func (b *PropertyBuilder) Has(id PropertyID) bool {
	entry, ok := propertyTable[id]
	if !ok || id == PropUserProperty {
		return false
	}
	return testBit(b.fieldSet, entry.slot)
}

// addProperty is the single entry point every AddX wrapper funnels
// through: it validates the allow-list hint, duplicate slot, the
// Authentication Data/Method ordering rule, and the per-property value
// range, then encodes identifier + value into the backing buffer.
func (b *PropertyBuilder) addProperty(id PropertyID, value any, hint PacketType) error {
	entry := propertyTable[id]

	if hint != HintNone && !entry.allowed(hint) {
		return fmt.Errorf("%w: %s is not allowed in %s", ErrBadParameter, entry.name, hint)
	}

	if id == PropAuthenticationData && !b.hasAuthMethod {
		return fmt.Errorf("%w: authentication data requires authentication method to be added first", ErrBadParameter)
	}

	if id != PropUserProperty && testBit(b.fieldSet, entry.slot) {
		return fmt.Errorf("%w: %s already added", ErrBadParameter, entry.name)
	}

	if err := entry.validate(value); err != nil {
		return err
	}

	need := 1 + sizeOfValue(entry.kind, value)
	if b.pos+need > len(b.buf) {
		return ErrNoMemory
	}

	b.buf[b.pos] = byte(id)
	n, err := encodeValue(entry.kind, b.buf[b.pos+1:], value)
	if err != nil {
		return err
	}
	b.pos += 1 + n

	if id == PropUserProperty {
		return nil
	}
	b.fieldSet = setBit(b.fieldSet, entry.slot)
	if id == PropAuthenticationMethod {
		b.hasAuthMethod = true
	}
	return nil
}

// Typed append operations, one per MQTT v5.0 property. hint, when not
// HintNone, is checked against the property's allow-list so a caller
// building (say) a PUBLISH can't accidentally add a CONNACK-only
// property.

func (b *PropertyBuilder) AddPayloadFormatIndicator(v byte, hint PacketType) error {
	return b.addProperty(PropPayloadFormatIndicator, v, hint)
}

func (b *PropertyBuilder) AddMessageExpiryInterval(v uint32, hint PacketType) error {
	return b.addProperty(PropMessageExpiryInterval, v, hint)
}

func (b *PropertyBuilder) AddContentType(v string, hint PacketType) error {
	return b.addProperty(PropContentType, v, hint)
}

func (b *PropertyBuilder) AddResponseTopic(v string, hint PacketType) error {
	return b.addProperty(PropResponseTopic, v, hint)
}

func (b *PropertyBuilder) AddCorrelationData(v []byte, hint PacketType) error {
	return b.addProperty(PropCorrelationData, v, hint)
}

func (b *PropertyBuilder) AddSubscriptionIdentifier(v uint32, hint PacketType) error {
	return b.addProperty(PropSubscriptionIdentifier, v, hint)
}

func (b *PropertyBuilder) AddSessionExpiryInterval(v uint32, hint PacketType) error {
	return b.addProperty(PropSessionExpiryInterval, v, hint)
}

func (b *PropertyBuilder) AddAssignedClientIdentifier(v string, hint PacketType) error {
	return b.addProperty(PropAssignedClientIdentifier, v, hint)
}

func (b *PropertyBuilder) AddServerKeepAlive(v uint16, hint PacketType) error {
	return b.addProperty(PropServerKeepAlive, v, hint)
}

func (b *PropertyBuilder) AddAuthenticationMethod(v string, hint PacketType) error {
	return b.addProperty(PropAuthenticationMethod, v, hint)
}

func (b *PropertyBuilder) AddAuthenticationData(v []byte, hint PacketType) error {
	return b.addProperty(PropAuthenticationData, v, hint)
}

func (b *PropertyBuilder) AddRequestProblemInformation(v byte, hint PacketType) error {
	return b.addProperty(PropRequestProblemInformation, v, hint)
}

func (b *PropertyBuilder) AddWillDelayInterval(v uint32, hint PacketType) error {
	return b.addProperty(PropWillDelayInterval, v, hint)
}

func (b *PropertyBuilder) AddRequestResponseInformation(v byte, hint PacketType) error {
	return b.addProperty(PropRequestResponseInformation, v, hint)
}

func (b *PropertyBuilder) AddResponseInformation(v string, hint PacketType) error {
	return b.addProperty(PropResponseInformation, v, hint)
}

func (b *PropertyBuilder) AddServerReference(v string, hint PacketType) error {
	return b.addProperty(PropServerReference, v, hint)
}

func (b *PropertyBuilder) AddReasonString(v string, hint PacketType) error {
	return b.addProperty(PropReasonString, v, hint)
}

func (b *PropertyBuilder) AddReceiveMaximum(v uint16, hint PacketType) error {
	return b.addProperty(PropReceiveMaximum, v, hint)
}

func (b *PropertyBuilder) AddTopicAliasMaximum(v uint16, hint PacketType) error {
	return b.addProperty(PropTopicAliasMaximum, v, hint)
}

func (b *PropertyBuilder) AddTopicAlias(v uint16, hint PacketType) error {
	return b.addProperty(PropTopicAlias, v, hint)
}

func (b *PropertyBuilder) AddMaximumQoS(v byte, hint PacketType) error {
	return b.addProperty(PropMaximumQoS, v, hint)
}

func (b *PropertyBuilder) AddRetainAvailable(v byte, hint PacketType) error {
	return b.addProperty(PropRetainAvailable, v, hint)
}

// AddUserProperty is the only property that may be added more than
// once; the slot bitset is never consulted for it.
func (b *PropertyBuilder) AddUserProperty(v StringPair, hint PacketType) error {
	return b.addProperty(PropUserProperty, v, hint)
}

func (b *PropertyBuilder) AddMaximumPacketSize(v uint32, hint PacketType) error {
	return b.addProperty(PropMaximumPacketSize, v, hint)
}

func (b *PropertyBuilder) AddWildcardSubAvailable(v byte, hint PacketType) error {
	return b.addProperty(PropWildcardSubAvailable, v, hint)
}

func (b *PropertyBuilder) AddSubscriptionIDAvailable(v byte, hint PacketType) error {
	return b.addProperty(PropSubscriptionIDAvailable, v, hint)
}

func (b *PropertyBuilder) AddSharedSubAvailable(v byte, hint PacketType) error {
	return b.addProperty(PropSharedSubAvailable, v, hint)
}
