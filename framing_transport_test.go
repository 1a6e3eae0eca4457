package mqttv5

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

// TestScanBufferedHeaderOverRealSocketSlowProducer exercises the
// buffered-mode scanner against a real loopback socket rather than an
// in-memory byte slice, feeding the header one byte at a time to
// confirm ErrNeedMoreBytes holds until the producer catches up.
func TestScanBufferedHeaderOverRealSocketSlowProducer(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, aerr := ln.Accept()
		assert.NoError(t, aerr)
		accepted <- c
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	defer server.Close()

	want := []byte{0x30, 0x80, 0x01}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, b := range want {
			_, werr := client.Write([]byte{b})
			assert.NoError(t, werr)
			time.Sleep(time.Millisecond)
		}
	}()

	buf := make([]byte, 16)
	writeIndex := 0
	var hdr IncomingHeader
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, rerr := server.Read(buf[writeIndex:])
		require.NoError(t, rerr)
		writeIndex += n

		h, serr := ScanBufferedHeader(buf, writeIndex)
		if serr == ErrNeedMoreBytes {
			continue
		}
		require.NoError(t, serr)
		hdr = h
		break
	}

	<-done
	assert.Equal(t, PacketPUBLISH, hdr.Type)
	assert.Equal(t, uint32(128), hdr.RemainingLength)
	assert.Equal(t, 3, hdr.HeaderLength)
}
