package mqttv5

import (
	"context"
	"fmt"
)

// RecvFunc is the transport receive callback the pull-mode header
// reader drives. A positive return is the number of bytes placed into
// buf[:n] (n <= len(buf)); zero means no data available right now;
// negative means the transport failed.
type RecvFunc func(ctx context.Context, buf []byte, n int) (int, error)

// IncomingHeader is the result of scanning a fixed header off the
// wire: the packet type, flags, decoded Remaining Length, and how many
// bytes the header itself occupied.
type IncomingHeader struct {
	Type            PacketType
	Flags           byte
	RemainingLength uint32
	HeaderLength    int
}

// validIncomingTypes is the set of control packet types a client-role
// caller may legally receive (spec.md §4.5). PUBREL is included but
// additionally requires the reserved 0x02 low nibble, checked
// separately.
var validIncomingTypes = map[PacketType]bool{
	PacketCONNACK:    true,
	PacketPUBLISH:    true,
	PacketPUBACK:     true,
	PacketPUBREC:     true,
	PacketPUBREL:     true,
	PacketPUBCOMP:    true,
	PacketSUBACK:     true,
	PacketUNSUBACK:   true,
	PacketPINGRESP:   true,
	PacketDISCONNECT: true,
	PacketAUTH:       true,
}

func classifyIncomingFirstByte(b byte) (PacketType, byte, error) {
	typ := PacketType(b >> 4)
	flags := b & 0x0F
	if !validIncomingTypes[typ] {
		return 0, 0, fmt.Errorf("%w: unexpected incoming packet type 0x%x", ErrMalformedPacket, typ)
	}
	if typ == PacketPUBREL && flags != reservedLowNibble {
		return 0, 0, fmt.Errorf("%w: pubrel requires reserved flags 0x02, got 0x%02x", ErrMalformedPacket, flags)
	}
	return typ, flags, nil
}

// ReadIncomingHeader reads one fixed header - the type/flags byte plus
// the Variable Byte Integer Remaining Length - from recv. It blocks
// only to the extent recv itself blocks. Returns ErrNoDataAvailable if
// the very first read returns zero bytes (no partial header yet).
func ReadIncomingHeader(ctx context.Context, recv RecvFunc) (IncomingHeader, error) {
	var first [1]byte
	n, err := recv(ctx, first[:], 1)
	if err != nil {
		return IncomingHeader{}, fmt.Errorf("%w: %v", ErrRecvFailed, err)
	}
	if n == 0 {
		return IncomingHeader{}, ErrNoDataAvailable
	}
	if n < 0 {
		return IncomingHeader{}, ErrRecvFailed
	}

	typ, flags, err := classifyIncomingFirstByte(first[0])
	if err != nil {
		return IncomingHeader{}, err
	}

	var vbi [4]byte
	got := 0
	for {
		if got >= 4 {
			return IncomingHeader{}, fmt.Errorf("%w: variable byte integer exceeds 4 bytes", ErrMalformedPacket)
		}
		n, err := recv(ctx, vbi[got:got+1], 1)
		if err != nil {
			return IncomingHeader{}, fmt.Errorf("%w: %v", ErrRecvFailed, err)
		}
		if n == 0 {
			return IncomingHeader{}, ErrNoDataAvailable
		}
		if n < 0 {
			return IncomingHeader{}, ErrRecvFailed
		}
		got++
		if vbi[got-1]&varintContinueBit == 0 {
			break
		}
	}

	remaining, consumed, err := getVarint(vbi[:got])
	if err != nil {
		return IncomingHeader{}, err
	}
	if consumed != got {
		return IncomingHeader{}, fmt.Errorf("%w: variable byte integer trailing bytes", ErrMalformedPacket)
	}

	return IncomingHeader{Type: typ, Flags: flags, RemainingLength: remaining, HeaderLength: 1 + got}, nil
}

// ScanBufferedHeader scans a fixed header out of buf[:writeIndex],
// a caller-maintained buffer that fills as bytes arrive. It returns
// ErrNeedMoreBytes when writeIndex doesn't yet cover a full header,
// and is idempotent: calling it again with a larger writeIndex over
// the same bytes returns the same IncomingHeader once enough bytes are
// present.
func ScanBufferedHeader(buf []byte, writeIndex int) (IncomingHeader, error) {
	if writeIndex < 1 {
		return IncomingHeader{}, ErrNeedMoreBytes
	}

	typ, flags, err := classifyIncomingFirstByte(buf[0])
	if err != nil {
		return IncomingHeader{}, err
	}

	available := writeIndex - 1
	need := 1
	for i := 0; i < 4; i++ {
		if i >= available {
			return IncomingHeader{}, ErrNeedMoreBytes
		}
		if buf[1+i]&varintContinueBit == 0 {
			need = i + 1
			break
		}
		if i == 3 {
			return IncomingHeader{}, fmt.Errorf("%w: variable byte integer exceeds 4 bytes", ErrMalformedPacket)
		}
	}

	remaining, consumed, err := getVarint(buf[1 : 1+need])
	if err != nil {
		return IncomingHeader{}, err
	}
	if consumed != need {
		return IncomingHeader{}, fmt.Errorf("%w: variable byte integer trailing bytes", ErrMalformedPacket)
	}

	return IncomingHeader{Type: typ, Flags: flags, RemainingLength: remaining, HeaderLength: 1 + need}, nil
}
