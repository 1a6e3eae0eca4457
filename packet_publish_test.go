package mqttv5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishQoS0GoldenVector(t *testing.T) {
	info := PublishInfo{Topic: "t", QoS: AtMostOnce}
	payload := []byte("hi")

	size, err := GetPublishSize(info, nil, len(payload))
	require.NoError(t, err)
	buf := make([]byte, size)
	n, err := SerializePublish(buf, info, nil, payload)
	require.NoError(t, err)
	assert.Equal(t, size, n)

	want := []byte{0x30, 0x06, 0x00, 0x01, 't', 0x00, 'h', 'i'}
	assert.Equal(t, want, buf)
}

func TestPublishRoundTripAllQoS(t *testing.T) {
	tests := []struct {
		name string
		info PublishInfo
	}{
		{"qos0", PublishInfo{Topic: "a/b", QoS: AtMostOnce}},
		{"qos1", PublishInfo{Topic: "a/b", QoS: AtLeastOnce, PacketID: 42}},
		{"qos2 dup retain", PublishInfo{Topic: "a/b", QoS: ExactlyOnce, PacketID: 7, DUP: true, Retain: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := []byte("payload-data")
			size, err := GetPublishSize(tt.info, nil, len(payload))
			require.NoError(t, err)
			buf := make([]byte, size)
			n, err := SerializePublish(buf, tt.info, nil, payload)
			require.NoError(t, err)
			require.Equal(t, size, n)

			remaining, consumed, err := getVarint(buf[1:])
			require.NoError(t, err)
			hSize := 1 + consumed
			pi := PacketInfo{Type: PacketPUBLISH, Flags: buf[0] & 0x0F, RemainingLength: remaining, Remaining: buf[hSize:]}

			got, gotPayload, _, err := DeserializePublish(pi)
			require.NoError(t, err)
			assert.Equal(t, tt.info.Topic, got.Topic)
			assert.Equal(t, tt.info.QoS, got.QoS)
			assert.Equal(t, tt.info.DUP, got.DUP)
			assert.Equal(t, tt.info.Retain, got.Retain)
			if tt.info.QoS > AtMostOnce {
				assert.Equal(t, tt.info.PacketID, got.PacketID)
			}
			assert.True(t, bytes.Equal(payload, gotPayload))
		})
	}
}

func TestPublishFlipDup(t *testing.T) {
	info := PublishInfo{Topic: "t", QoS: AtLeastOnce, PacketID: 1}
	flipped := info.FlipDup()
	assert.True(t, flipped.DUP)
	assert.False(t, flipped.FlipDup().DUP)
}

func TestPublishValidationRejectsQoS0Dup(t *testing.T) {
	info := PublishInfo{Topic: "t", QoS: AtMostOnce, DUP: true}
	_, err := GetPublishSize(info, nil, 0)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestPublishValidationRequiresPacketIDAboveQoS0(t *testing.T) {
	info := PublishInfo{Topic: "t", QoS: AtLeastOnce}
	_, err := GetPublishSize(info, nil, 0)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestPublishValidationRejectsEmptyTopic(t *testing.T) {
	info := PublishInfo{Topic: "", QoS: AtMostOnce}
	_, err := GetPublishSize(info, nil, 0)
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestPublishHeaderThenPayloadZeroCopy(t *testing.T) {
	info := PublishInfo{Topic: "topic", QoS: AtMostOnce}
	payload := []byte("streamed-payload")

	size, err := GetPublishSize(info, nil, len(payload))
	require.NoError(t, err)

	headerBuf := make([]byte, size-len(payload))
	n, err := SerializePublishHeader(headerBuf, info, nil, len(payload))
	require.NoError(t, err)
	assert.Equal(t, len(headerBuf), n)

	full := append(append([]byte{}, headerBuf...), payload...)
	assert.Equal(t, size, len(full))
}

func TestPublishDeserializeRejectsQoS3(t *testing.T) {
	pi := PacketInfo{Type: PacketPUBLISH, Flags: 0x06, RemainingLength: 3, Remaining: []byte{0x00, 0x01, 't'}}
	_, _, _, err := DeserializePublish(pi)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestPublishBufferTooSmall(t *testing.T) {
	info := PublishInfo{Topic: "t", QoS: AtMostOnce}
	size, err := GetPublishSize(info, nil, 2)
	require.NoError(t, err)
	_, err = SerializePublish(make([]byte, size-1), info, nil, []byte("hi"))
	assert.ErrorIs(t, err, ErrNoMemory)
}
