package mqttv5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubAckShortFormGoldenVector(t *testing.T) {
	buf := []byte{0x40, 0x02, 0x01, 0x02}
	pi := PacketInfo{Type: PacketPUBACK, RemainingLength: 2, Remaining: buf[2:]}

	info, reader, err := DeserializePubAck(pi)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), info.PacketID)
	assert.Equal(t, ReasonSuccess, info.ReasonCode)
	assert.True(t, reader.Done())
}

func TestAckFamilyRoundTrip(t *testing.T) {
	type ackCase struct {
		name       string
		getSize    func(AckInfo, []byte) (int, error)
		serialize  func([]byte, AckInfo, []byte) (int, error)
		deserialize func(PacketInfo) (AckInfo, *PropertyReader, error)
	}
	cases := []ackCase{
		{"puback", GetPubAckSize, SerializePubAck, DeserializePubAck},
		{"pubrec", GetPubRecSize, SerializePubRec, DeserializePubRec},
		{"pubrel", GetPubRelSize, SerializePubRel, DeserializePubRel},
		{"pubcomp", GetPubCompSize, SerializePubComp, DeserializePubComp},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := AckInfo{PacketID: 99, ReasonCode: ReasonSuccess}
			size, err := c.getSize(info, nil)
			require.NoError(t, err)
			buf := make([]byte, size)
			n, err := c.serialize(buf, info, nil)
			require.NoError(t, err)
			require.Equal(t, size, n)
			assert.Equal(t, 4, size, "success with no properties collapses to the short form")

			typ := PacketType(buf[0] >> 4)
			pi := PacketInfo{Type: typ, Flags: buf[0] & 0x0F, RemainingLength: uint32(size - 2), Remaining: buf[2:]}
			got, _, err := c.deserialize(pi)
			require.NoError(t, err)
			assert.Equal(t, info, got)
		})
	}
}

func TestPubRelCarriesReservedFlags(t *testing.T) {
	info := AckInfo{PacketID: 1, ReasonCode: ReasonSuccess}
	buf := make([]byte, 4)
	_, err := SerializePubRel(buf, info, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(reservedLowNibble), buf[0]&0x0F)
}

func TestAckRejectsZeroPacketID(t *testing.T) {
	info := AckInfo{PacketID: 0, ReasonCode: ReasonSuccess}
	_, err := GetPubAckSize(info, nil)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestAckRejectsInvalidReasonForType(t *testing.T) {
	info := AckInfo{PacketID: 1, ReasonCode: ReasonPacketIDInUse}
	_, err := SerializePubRel(make([]byte, 8), info, nil)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestAckWithPropertiesExpandsBeyondShortForm(t *testing.T) {
	pb := NewPropertyBuilder(make([]byte, 32))
	require.NoError(t, pb.AddReasonString("no matching subscribers", PacketPUBACK))

	info := AckInfo{PacketID: 5, ReasonCode: ReasonNoMatchingSubscribers}
	size, err := GetPubAckSize(info, pb.Bytes())
	require.NoError(t, err)
	assert.Greater(t, size, 4)

	buf := make([]byte, size)
	n, err := SerializePubAck(buf, info, pb.Bytes())
	require.NoError(t, err)
	require.Equal(t, size, n)

	pi := PacketInfo{Type: PacketPUBACK, RemainingLength: uint32(size - 2), Remaining: buf[2:]}
	got, reader, err := DeserializePubAck(pi)
	require.NoError(t, err)
	assert.Equal(t, info, got)
	rs, err := reader.GetReasonString()
	require.NoError(t, err)
	assert.Equal(t, "no matching subscribers", rs)
}

func TestAckBufferTooSmall(t *testing.T) {
	info := AckInfo{PacketID: 1, ReasonCode: ReasonSuccess}
	_, err := SerializePubAck(make([]byte, 3), info, nil)
	assert.ErrorIs(t, err, ErrNoMemory)
}
