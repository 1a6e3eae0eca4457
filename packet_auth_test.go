package mqttv5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMinimalGoldenVector(t *testing.T) {
	size := GetAuthSize(ReasonSuccess, nil)
	buf := make([]byte, size)
	n, err := SerializeAuth(buf, ReasonSuccess, nil)
	require.NoError(t, err)
	assert.Equal(t, size, n)
	assert.Equal(t, []byte{0xF0, 0x00}, buf)

	pi := PacketInfo{Type: PacketAUTH, RemainingLength: 0, Remaining: nil}
	reason, reader, err := DeserializeAuth(pi)
	require.NoError(t, err)
	assert.Equal(t, ReasonSuccess, reason)
	assert.True(t, reader.Done())
}

func TestAuthRoundTripWithMethodAndData(t *testing.T) {
	pb := NewPropertyBuilder(make([]byte, 64))
	require.NoError(t, pb.AddAuthenticationMethod("SCRAM-SHA-1", PacketAUTH))
	require.NoError(t, pb.AddAuthenticationData([]byte{0x01, 0x02, 0x03}, PacketAUTH))

	size := GetAuthSize(ReasonContinueAuth, pb.Bytes())
	buf := make([]byte, size)
	n, err := SerializeAuth(buf, ReasonContinueAuth, pb.Bytes())
	require.NoError(t, err)
	assert.Equal(t, size, n)

	remaining, consumed, err := getVarint(buf[1:])
	require.NoError(t, err)
	hSize := 1 + consumed
	pi := PacketInfo{Type: PacketAUTH, RemainingLength: remaining, Remaining: buf[hSize:]}

	reason, reader, err := DeserializeAuth(pi)
	require.NoError(t, err)
	assert.Equal(t, ReasonContinueAuth, reason)

	method, err := reader.GetAuthenticationMethod()
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-1", method)

	data, err := reader.GetAuthenticationData()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, data)
}

func TestAuthRejectsReasonNotValidForAuth(t *testing.T) {
	_, err := SerializeAuth(make([]byte, 16), ReasonNotAuthorized, nil)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestAuthAllowsReAuth(t *testing.T) {
	size := GetAuthSize(ReasonReAuth, nil)
	buf := make([]byte, size)
	_, err := SerializeAuth(buf, ReasonReAuth, nil)
	require.NoError(t, err)
}

func TestAuthBufferTooSmall(t *testing.T) {
	size := GetAuthSize(ReasonContinueAuth, nil)
	_, err := SerializeAuth(make([]byte, size-1), ReasonContinueAuth, nil)
	assert.ErrorIs(t, err, ErrNoMemory)
}
