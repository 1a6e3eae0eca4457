//nolint:dupl // MQTT v5.0 requires separate packet types with the same structure
package mqttv5

// GetPubCompSize returns the total encoded size of a PUBCOMP packet.
func GetPubCompSize(info AckInfo, props []byte) (int, error) {
	return getAckSize(info, props)
}

// SerializePubComp writes a PUBCOMP packet into buf.
func SerializePubComp(buf []byte, info AckInfo, props []byte) (int, error) {
	return serializeAck(buf, PacketPUBCOMP, 0x00, info, ReasonCode.ValidForPUBCOMP, props)
}

// DeserializePubComp parses a PUBCOMP packet's remaining data.
func DeserializePubComp(pi PacketInfo) (AckInfo, *PropertyReader, error) {
	return deserializeAck(pi, PacketPUBCOMP, ReasonCode.ValidForPUBCOMP)
}
