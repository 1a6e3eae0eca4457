package mqttv5

import "errors"

// Sentinel errors returned at the codec boundary. Every codec operation
// reports failure this way; there is no panic path and nothing is
// retried internally. Callers branch on these with errors.Is.
//
// The partition follows the origin of the failure:
//   - caller bugs (ErrBadParameter, ErrNoMemory) leave the codec reusable
//   - peer/wire errors (ErrMalformedPacket, ErrServerRefused) poison the
//     connection; the codec makes no attempt to resynchronize
//   - transport errors (ErrSendFailed, ErrRecvFailed) are surfaced
//     verbatim from the caller's recv callback
//   - progress indicators (ErrNoDataAvailable, ErrNeedMoreBytes) are not
//     errors in the usual sense; the caller retries after more I/O
var (
	// ErrBadParameter is returned for a NULL/empty-where-disallowed
	// argument, an out-of-range property value, or a call that violates
	// a per-packet-type rule (duplicate property, disallowed property,
	// missing Authentication Method before Authentication Data, ...).
	ErrBadParameter = errors.New("mqtt5: bad parameter")

	// ErrNoMemory is returned when a caller-supplied buffer (a fixed byte
	// region or a PropertyBuilder's backing array) is too small for the
	// operation.
	ErrNoMemory = errors.New("mqtt5: buffer too small")

	// ErrSendFailed is surfaced verbatim from a transport send attempt
	// made by the caller; the codec itself never calls send.
	ErrSendFailed = errors.New("mqtt5: send failed")

	// ErrRecvFailed is surfaced verbatim from a negative return of the
	// caller's recv callback.
	ErrRecvFailed = errors.New("mqtt5: recv failed")

	// ErrMalformedPacket means the peer violated the MQTT 5.0 wire
	// format: a bad Variable Byte Integer, an unknown or duplicated
	// property, a length field that overruns the buffer, trailing bytes
	// after a fully parsed block, or any value out of its defined range.
	ErrMalformedPacket = errors.New("mqtt5: malformed packet")

	// ErrServerRefused is returned by DeserializeConnAck when the CONNACK
	// reason code is >= 0x80 — the peer is well-formed but declined the
	// connection. SUBACK/UNSUBACK failure codes are reported per filter
	// in the parsed result, not through this error.
	ErrServerRefused = errors.New("mqtt5: server refused")

	// ErrNoDataAvailable is returned by the pull-mode header reader when
	// the first recv call returns zero bytes (no error, nothing to read
	// yet). Not a failure; the caller retries later.
	ErrNoDataAvailable = errors.New("mqtt5: no data available")

	// ErrNeedMoreBytes is returned by the buffered-mode header scanner
	// when fewer bytes are present than the full fixed header requires.
	// Not a failure; the caller retries as more bytes arrive.
	ErrNeedMoreBytes = errors.New("mqtt5: need more bytes")

	// ErrEndOfProperties is returned by PropertyReader once the cursor
	// has consumed the entire property block; it signals clean iterator
	// termination, not corruption.
	ErrEndOfProperties = errors.New("mqtt5: end of properties")
)
