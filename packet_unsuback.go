package mqttv5

// UnsubAckInfo is an UNSUBACK packet: packet id plus one reason code
// per UNSUBSCRIBE topic filter, in request order. Not present in the
// retrieved packet sources, so this mirrors SubAckInfo's shape - the
// two packets are symmetric on the wire, differing only in their
// reason-code table.
type UnsubAckInfo struct {
	PacketID    uint16
	ReasonCodes []ReasonCode
}

// GetUnsubAckSize returns the total encoded size of an UNSUBACK
// packet.
func GetUnsubAckSize(info UnsubAckInfo, props []byte) (int, error) {
	return getReasonListSize(reasonListInfo(info), props, PacketUNSUBACK, ReasonCode.ValidForUNSUBACK)
}

// SerializeUnsubAck writes an UNSUBACK packet into buf.
func SerializeUnsubAck(buf []byte, info UnsubAckInfo, props []byte) (int, error) {
	return serializeReasonList(buf, PacketUNSUBACK, reasonListInfo(info), props, ReasonCode.ValidForUNSUBACK)
}

// DeserializeUnsubAck parses an UNSUBACK packet's remaining data.
func DeserializeUnsubAck(pi PacketInfo) (UnsubAckInfo, *PropertyReader, error) {
	info, reader, err := deserializeReasonList(pi, PacketUNSUBACK, ReasonCode.ValidForUNSUBACK)
	return UnsubAckInfo(info), reader, err
}
