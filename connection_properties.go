package mqttv5

// ConnectionProperties holds the negotiated session-level settings
// parsed out of a CONNECT/CONNACK exchange. Every field starts at its
// MQTT v5.0 default; applyConnAckProperty overwrites only the fields
// the peer actually sent, leaving the rest at default exactly as the
// protocol requires for an omitted property.
type ConnectionProperties struct {
	SessionExpiryInterval   uint32
	ReceiveMaximum          uint16
	MaximumPacketSize       uint32
	ServerMaxQoS            byte
	RetainAvailable         bool
	TopicAliasMaximum       uint16
	ServerTopicAliasMax     uint16
	WildcardSubAvailable    bool
	SubscriptionIDAvailable bool
	SharedSubAvailable      bool
	ServerKeepAlive         uint16
	RequestResponseInfo     bool
	RequestProblemInfo      bool

	AssignedClientIdentifier string
	ResponseInformation      string
	ServerReference          string
	ReasonString             string
	UserProperties           []StringPair
}

// NewConnectionProperties returns a ConnectionProperties populated with
// the MQTT v5.0 defaults that apply whenever a CONNACK omits the
// corresponding property (spec.md §6).
func NewConnectionProperties() ConnectionProperties {
	return ConnectionProperties{
		ReceiveMaximum:          maxUint16,
		MaximumPacketSize:       maxTotalPacketSize,
		ServerMaxQoS:            byte(ExactlyOnce),
		RetainAvailable:         true,
		WildcardSubAvailable:    true,
		SubscriptionIDAvailable: true,
		SharedSubAvailable:      true,
		SessionExpiryInterval:   0,
		TopicAliasMaximum:       0,
		ServerTopicAliasMax:     0,
		ServerKeepAlive:         maxUint16,
		RequestResponseInfo:     false,
		RequestProblemInfo:      true,
	}
}

// ConnAckResult is the fully-parsed outcome of a CONNACK packet: the
// session-present flag, reason code, and the resulting connection
// properties (defaults already merged with whatever the server sent).
type ConnAckResult struct {
	SessionPresent bool
	ReasonCode     ReasonCode
	Properties     ConnectionProperties
}

// applyConnAckProperty folds one decoded CONNACK property into props,
// overwriting only the field the property identifies. It is invoked
// once per property by DeserializeConnAck's parsePropertyBlock visitor.
func applyConnAckProperty(props *ConnectionProperties, id PropertyID, value any) {
	switch id {
	case PropSessionExpiryInterval:
		props.SessionExpiryInterval = value.(uint32)
	case PropReceiveMaximum:
		props.ReceiveMaximum = value.(uint16)
	case PropMaximumQoS:
		props.ServerMaxQoS = value.(byte)
	case PropRetainAvailable:
		props.RetainAvailable = value.(byte) != 0
	case PropMaximumPacketSize:
		props.MaximumPacketSize = value.(uint32)
	case PropAssignedClientIdentifier:
		props.AssignedClientIdentifier = value.(string)
	case PropTopicAliasMaximum:
		props.ServerTopicAliasMax = value.(uint16)
	case PropReasonString:
		props.ReasonString = value.(string)
	case PropWildcardSubAvailable:
		props.WildcardSubAvailable = value.(byte) != 0
	case PropSubscriptionIDAvailable:
		props.SubscriptionIDAvailable = value.(byte) != 0
	case PropSharedSubAvailable:
		props.SharedSubAvailable = value.(byte) != 0
	case PropServerKeepAlive:
		props.ServerKeepAlive = value.(uint16)
	case PropResponseInformation:
		props.ResponseInformation = value.(string)
	case PropServerReference:
		props.ServerReference = value.(string)
	case PropUserProperty:
		props.UserProperties = append(props.UserProperties, value.(StringPair))
	}
}
