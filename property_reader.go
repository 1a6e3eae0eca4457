package mqttv5

import "fmt"

// PropertyReader is a cursor-based iterator over an already-framed
// property block. It validates each identifier against the owning
// packet type's allow-list and enforces the same duplicate rule the
// builder enforces on the way out, using the same 28-slot bitset.
type PropertyReader struct {
	buf        []byte
	pos        int
	fieldSet   uint32
	packetType PacketType
	userProps  []StringPair
}

// NewPropertyReader wraps buf - the property block's bytes, not
// including its own length prefix - for reading in the context of
// owner, the control packet type the block was found in. Pass
// packetWill when reading a Will properties block.
func NewPropertyReader(buf []byte, owner PacketType) *PropertyReader {
	return &PropertyReader{buf: buf, packetType: owner}
}

// Len reports how many bytes remain unread.
func (r *PropertyReader) Len() int { return len(r.buf) - r.pos }

// Done reports whether every property in the block has been consumed.
func (r *PropertyReader) Done() bool { return r.pos >= len(r.buf) }

// UserProperties returns every User Property pair encountered so far.
// Because User Property is exempt from duplicate checking, callers
// that want all occurrences should drain the reader with GetNext and
// consult this afterward, rather than calling a typed getter.
func (r *PropertyReader) UserProperties() []StringPair { return r.userProps }

// PeekNextIdentifier reports the identifier of the next property
// without advancing the cursor, or ErrEndOfProperties if the block is
// exhausted. Callers use this to dispatch into a typed Get before
// committing to consume it.
func (r *PropertyReader) PeekNextIdentifier() (PropertyID, error) {
	if r.Done() {
		return 0, ErrEndOfProperties
	}
	idVal, n, err := getVarint(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	if idVal > 0xFF {
		return 0, fmt.Errorf("%w: property identifier out of range", ErrMalformedPacket)
	}
	_ = n
	return PropertyID(idVal), nil
}

// beginProperty advances past the identifier varint for the next
// property, looks up its table entry, and runs the allow-list and
// duplicate checks shared by every typed getter.
func (r *PropertyReader) beginProperty() (*propertyEntry, error) {
	if r.Done() {
		return nil, ErrEndOfProperties
	}
	idVal, n, err := getVarint(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	entry, ok := propertyTable[PropertyID(idVal)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown property identifier 0x%02x", ErrMalformedPacket, idVal)
	}
	if !entry.allowed(r.packetType) {
		return nil, fmt.Errorf("%w: %s is not allowed in %s", ErrMalformedPacket, entry.name, r.packetType)
	}
	if entry.id != PropUserProperty {
		if testBit(r.fieldSet, entry.slot) {
			return nil, fmt.Errorf("%w: %s appears more than once", ErrMalformedPacket, entry.name)
		}
		r.fieldSet = setBit(r.fieldSet, entry.slot)
	}
	r.pos += n
	return entry, nil
}

// beginPropertyExpecting is beginProperty plus a check that the
// identifier read matches want, for typed getters that are only
// meaningful for one specific property.
func (r *PropertyReader) beginPropertyExpecting(want PropertyID) (*propertyEntry, error) {
	gotID, err := r.PeekNextIdentifier()
	if err != nil {
		return nil, err
	}
	if gotID != want {
		return nil, fmt.Errorf("%w: expected property 0x%02x, found 0x%02x", ErrBadParameter, want, gotID)
	}
	return r.beginProperty()
}

// GetNext reads and returns the next property's identifier and
// decoded value as a generic pair, advancing the cursor. Deserializers
// use this to drive a switch over every property that may legally
// appear in a given packet type, accumulating User Property pairs as
// they go.
func (r *PropertyReader) GetNext() (PropertyID, any, error) {
	entry, err := r.beginProperty()
	if err != nil {
		return 0, nil, err
	}
	value, n, err := decodeValue(entry.kind, r.buf[r.pos:])
	if err != nil {
		return 0, nil, err
	}
	if err := decodeValidate(entry, value); err != nil {
		return 0, nil, err
	}
	r.pos += n
	if entry.id == PropUserProperty {
		r.userProps = append(r.userProps, value.(StringPair))
	}
	return entry.id, value, nil
}

// decodeValidate runs a property's range rule against a value decoded
// off the wire, translating the builder-side BadParameter failure into
// a MalformedPacket - the same range rule, but on a peer violation
// rather than a caller bug (spec.md §8 invariant 7).
func decodeValidate(entry *propertyEntry, value any) error {
	if err := entry.validate(value); err != nil {
		return fmt.Errorf("%s: %w", entry.name, ErrMalformedPacket)
	}
	return nil
}

// getTyped reads the next property, requires it to be id, type-asserts
// its decoded value to T, and advances the cursor. Every typed GetX
// wrapper below is this one function specialized by call site.
func getTyped[T any](r *PropertyReader, id PropertyID) (T, error) {
	var zero T
	entry, err := r.beginPropertyExpecting(id)
	if err != nil {
		return zero, err
	}
	value, n, err := decodeValue(entry.kind, r.buf[r.pos:])
	if err != nil {
		return zero, err
	}
	if err := decodeValidate(entry, value); err != nil {
		return zero, err
	}
	r.pos += n
	return value.(T), nil
}

func (r *PropertyReader) GetPayloadFormatIndicator() (byte, error) {
	return getTyped[byte](r, PropPayloadFormatIndicator)
}

func (r *PropertyReader) GetMessageExpiryInterval() (uint32, error) {
	return getTyped[uint32](r, PropMessageExpiryInterval)
}

func (r *PropertyReader) GetContentType() (string, error) {
	return getTyped[string](r, PropContentType)
}

func (r *PropertyReader) GetResponseTopic() (string, error) {
	return getTyped[string](r, PropResponseTopic)
}

func (r *PropertyReader) GetCorrelationData() ([]byte, error) {
	return getTyped[[]byte](r, PropCorrelationData)
}

func (r *PropertyReader) GetSubscriptionIdentifier() (uint32, error) {
	return getTyped[uint32](r, PropSubscriptionIdentifier)
}

func (r *PropertyReader) GetSessionExpiryInterval() (uint32, error) {
	return getTyped[uint32](r, PropSessionExpiryInterval)
}

func (r *PropertyReader) GetAssignedClientIdentifier() (string, error) {
	return getTyped[string](r, PropAssignedClientIdentifier)
}

func (r *PropertyReader) GetServerKeepAlive() (uint16, error) {
	return getTyped[uint16](r, PropServerKeepAlive)
}

func (r *PropertyReader) GetAuthenticationMethod() (string, error) {
	return getTyped[string](r, PropAuthenticationMethod)
}

func (r *PropertyReader) GetAuthenticationData() ([]byte, error) {
	return getTyped[[]byte](r, PropAuthenticationData)
}

func (r *PropertyReader) GetRequestProblemInformation() (byte, error) {
	return getTyped[byte](r, PropRequestProblemInformation)
}

func (r *PropertyReader) GetWillDelayInterval() (uint32, error) {
	return getTyped[uint32](r, PropWillDelayInterval)
}

func (r *PropertyReader) GetRequestResponseInformation() (byte, error) {
	return getTyped[byte](r, PropRequestResponseInformation)
}

func (r *PropertyReader) GetResponseInformation() (string, error) {
	return getTyped[string](r, PropResponseInformation)
}

func (r *PropertyReader) GetServerReference() (string, error) {
	return getTyped[string](r, PropServerReference)
}

func (r *PropertyReader) GetReasonString() (string, error) {
	return getTyped[string](r, PropReasonString)
}

func (r *PropertyReader) GetReceiveMaximum() (uint16, error) {
	return getTyped[uint16](r, PropReceiveMaximum)
}

func (r *PropertyReader) GetTopicAliasMaximum() (uint16, error) {
	return getTyped[uint16](r, PropTopicAliasMaximum)
}

func (r *PropertyReader) GetTopicAlias() (uint16, error) {
	return getTyped[uint16](r, PropTopicAlias)
}

func (r *PropertyReader) GetMaximumQoS() (byte, error) {
	return getTyped[byte](r, PropMaximumQoS)
}

func (r *PropertyReader) GetRetainAvailable() (byte, error) {
	return getTyped[byte](r, PropRetainAvailable)
}

func (r *PropertyReader) GetMaximumPacketSize() (uint32, error) {
	return getTyped[uint32](r, PropMaximumPacketSize)
}

func (r *PropertyReader) GetWildcardSubAvailable() (byte, error) {
	return getTyped[byte](r, PropWildcardSubAvailable)
}

func (r *PropertyReader) GetSubscriptionIDAvailable() (byte, error) {
	return getTyped[byte](r, PropSubscriptionIDAvailable)
}

func (r *PropertyReader) GetSharedSubAvailable() (byte, error) {
	return getTyped[byte](r, PropSharedSubAvailable)
}

// parsePropertyBlock drains every property in buf through GetNext,
// invoking visit for each one, and returns the reader so callers can
// pull UserProperties() afterward. visit returning a non-nil error
// aborts the parse immediately.
func parsePropertyBlock(buf []byte, owner PacketType, visit func(id PropertyID, value any) error) (*PropertyReader, error) {
	r := NewPropertyReader(buf, owner)
	for !r.Done() {
		id, value, err := r.GetNext()
		if err != nil {
			return nil, err
		}
		if visit != nil {
			if err := visit(id, value); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
