package mqttv5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingReqGoldenVector(t *testing.T) {
	buf := make([]byte, GetPingReqSize())
	n, err := SerializePingReq(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xC0, 0x00}, buf)

	pi := PacketInfo{Type: PacketPINGREQ, RemainingLength: 0, Remaining: nil}
	assert.NoError(t, DeserializePingReq(pi))
}

func TestPingRespGoldenVector(t *testing.T) {
	buf := make([]byte, GetPingRespSize())
	n, err := SerializePingResp(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xD0, 0x00}, buf)

	pi := PacketInfo{Type: PacketPINGRESP, RemainingLength: 0, Remaining: nil}
	assert.NoError(t, DeserializePingResp(pi))
}

func TestPingReqRejectsNonEmptyRemaining(t *testing.T) {
	pi := PacketInfo{Type: PacketPINGREQ, RemainingLength: 1, Remaining: []byte{0x00}}
	err := DeserializePingReq(pi)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestPingRespRejectsNonEmptyRemaining(t *testing.T) {
	pi := PacketInfo{Type: PacketPINGRESP, RemainingLength: 1, Remaining: []byte{0x00}}
	err := DeserializePingResp(pi)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestPingReqRejectsWrongPacketType(t *testing.T) {
	err := DeserializePingReq(PacketInfo{Type: PacketPINGRESP})
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestPingRespRejectsWrongPacketType(t *testing.T) {
	err := DeserializePingResp(PacketInfo{Type: PacketPINGREQ})
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestPingReqBufferTooSmall(t *testing.T) {
	_, err := SerializePingReq(make([]byte, 1))
	assert.ErrorIs(t, err, ErrNoMemory)
}
