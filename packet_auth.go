package mqttv5

// AUTH is not present in the retrieved packet sources (only its test
// file was retrieved), so this is built from scratch, symmetric to
// DISCONNECT: a reason code plus a properties block, no packet
// identifier, no payload. Allowed properties are Authentication
// Method, Authentication Data, Reason String, and User Property.

// GetAuthSize returns the total encoded size of an AUTH packet.
func GetAuthSize(reason ReasonCode, props []byte) int {
	return getReasonOnlySize(reason, props)
}

// SerializeAuth writes an AUTH packet into buf.
func SerializeAuth(buf []byte, reason ReasonCode, props []byte) (int, error) {
	return serializeReasonOnly(buf, PacketAUTH, reason, ReasonCode.ValidForAUTH, props)
}

// DeserializeAuth parses an AUTH packet's remaining data.
func DeserializeAuth(pi PacketInfo) (ReasonCode, *PropertyReader, error) {
	return deserializeReasonOnly(pi, PacketAUTH, ReasonCode.ValidForAUTH)
}
