// Package mqttv5 implements the wire-format codec for the MQTT Version
// 5.0 OASIS Standard:
// https://docs.oasis-open.org/mqtt/mqtt/v5.0/mqtt-v5.0.html
//
// The package is a pure encode/decode library: it turns in-memory
// packet structs into bytes and bytes back into packet structs. It
// does not open sockets, does not run a client or broker state
// machine, and does not schedule I/O. Callers own the transport and
// drive the codec by calling GetXSize to learn how many bytes a
// packet needs, SerializeX to write it into a caller-supplied buffer,
// and DeserializeX to parse a received one back out.
//
// # Packet types
//
// Every MQTT v5.0 control packet type has a matching trio of
// functions following the GetXSize/SerializeX/DeserializeX pattern,
// for example:
//
//	size, err := mqttv5.GetPublishSize(info, props, len(payload))
//	buf := make([]byte, size)
//	n, err := mqttv5.SerializePublish(buf, info, props, payload)
//
//	info, payload, props, err := mqttv5.DeserializePublish(pi)
//
// DeserializeX functions take a PacketInfo, which carries the decoded
// fixed header plus the remaining bytes of one complete packet.
// ReadIncomingHeader and ScanBufferedHeader (see below) produce the
// fixed header half of that; callers are responsible for supplying
// the remaining bytes once they know how many to read.
//
// # Properties
//
// MQTT v5.0's property mechanism is exposed through PropertyBuilder,
// which accumulates a property block while enforcing per-packet-type
// allow-lists, duplicate rejection, and value-range validation, and
// PropertyReader, a cursor over a decoded property block with the
// same rules enforced on the way in:
//
//	pb := mqttv5.NewPropertyBuilder(make([]byte, 64))
//	pb.AddSessionExpiryInterval(30, mqttv5.PacketCONNECT)
//	pb.AddUserProperty(mqttv5.StringPair{Key: "build", Value: "42"}, mqttv5.PacketCONNECT)
//
//	pr := mqttv5.NewPropertyReader(propBytes, mqttv5.PacketCONNACK)
//	for !pr.Done() {
//	    id, value, err := pr.GetNext()
//	    ...
//	}
//
// # Incoming framing
//
// ReadIncomingHeader and ScanBufferedHeader implement the two framing
// styles a transport loop needs on the receive side: pull mode, where
// the caller supplies a RecvFunc the codec calls as it needs bytes,
// and buffered mode, where the caller owns a growing buffer and polls
// ScanBufferedHeader as more bytes land. Both return a decoded
// IncomingHeader (type, flags, Remaining Length) without touching the
// packet body.
//
// # Errors
//
// All functions report failures through the sentinel errors in
// status.go (ErrBadParameter, ErrNoMemory, ErrMalformedPacket, and so
// on), checkable with errors.Is. ErrBadParameter marks a caller
// mistake; ErrMalformedPacket marks bad data from the wire.
package mqttv5
