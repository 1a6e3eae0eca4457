package mqttv5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeConnectTrivialGoldenVector(t *testing.T) {
	info := ConnectInfo{
		ClientID:   "a",
		CleanStart: true,
		KeepAlive:  60,
	}
	size, err := GetConnectSize(info, nil, nil)
	require.NoError(t, err)

	buf := make([]byte, size)
	n, err := SerializeConnect(buf, info, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, size, n)

	want := []byte{
		0x10, 0x0E,
		0x00, 0x04, 'M', 'Q', 'T', 'T',
		0x05,
		0x02,
		0x00, 0x3C,
		0x00,
		0x00, 0x01, 'a',
	}
	assert.Equal(t, want, buf)
}

func TestConnectRoundTripWithWillAndCredentials(t *testing.T) {
	pb := NewPropertyBuilder(make([]byte, 32))
	require.NoError(t, pb.AddSessionExpiryInterval(30, PacketCONNECT))

	willPB := NewPropertyBuilder(make([]byte, 32))
	require.NoError(t, willPB.AddWillDelayInterval(5, packetWill))

	info := ConnectInfo{
		ClientID:    "client-1",
		CleanStart:  true,
		KeepAlive:   30,
		Username:    "user",
		HasUser:     true,
		Password:    []byte("secret"),
		HasPass:     true,
		WillFlag:    true,
		WillQoS:     AtLeastOnce,
		WillRetain:  true,
		WillTopic:   "will/topic",
		WillPayload: []byte("bye"),
	}

	size, err := GetConnectSize(info, pb.Bytes(), willPB.Bytes())
	require.NoError(t, err)
	buf := make([]byte, size)
	n, err := SerializeConnect(buf, info, pb.Bytes(), willPB.Bytes())
	require.NoError(t, err)
	assert.Equal(t, size, n)

	remaining, consumed, err := getVarint(buf[1:])
	require.NoError(t, err)
	hSize := 1 + consumed
	pi := PacketInfo{Type: PacketCONNECT, Flags: 0x00, RemainingLength: remaining, Remaining: buf[hSize:]}
	got, connReader, willReader, err := DeserializeConnect(pi)
	require.NoError(t, err)

	assert.Equal(t, info.ClientID, got.ClientID)
	assert.Equal(t, info.CleanStart, got.CleanStart)
	assert.Equal(t, info.KeepAlive, got.KeepAlive)
	assert.Equal(t, info.Username, got.Username)
	assert.Equal(t, info.Password, got.Password)
	assert.Equal(t, info.WillTopic, got.WillTopic)
	assert.Equal(t, info.WillPayload, got.WillPayload)
	assert.Equal(t, info.WillQoS, got.WillQoS)
	assert.True(t, got.WillRetain)

	sei, err := connReader.GetSessionExpiryInterval()
	require.NoError(t, err)
	assert.Equal(t, uint32(30), sei)

	wdi, err := willReader.GetWillDelayInterval()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), wdi)
}

func TestConnectValidationRejectsWillFieldsWithoutWillFlag(t *testing.T) {
	info := ConnectInfo{ClientID: "x", WillRetain: true}
	_, err := GetConnectSize(info, nil, nil)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestConnectDeserializeRejectsBadProtocolName(t *testing.T) {
	buf := []byte{0x00, 0x03, 'M', 'Q', 'X'}
	pi := PacketInfo{Type: PacketCONNECT, RemainingLength: uint32(len(buf)), Remaining: buf}
	_, _, _, err := DeserializeConnect(pi)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestConnectDeserializeRejectsWrongPacketType(t *testing.T) {
	_, _, _, err := DeserializeConnect(PacketInfo{Type: PacketPUBLISH})
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestConnectBufferTooSmall(t *testing.T) {
	info := ConnectInfo{ClientID: "a", KeepAlive: 60}
	size, err := GetConnectSize(info, nil, nil)
	require.NoError(t, err)
	buf := make([]byte, size-1)
	_, err = SerializeConnect(buf, info, nil, nil)
	assert.ErrorIs(t, err, ErrNoMemory)
}
