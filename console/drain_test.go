package console

import (
	uerrors "console-toolkit/util/errors"
	"console-toolkit/util/mocks"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitDrainErr(sock *Socket, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := sock.DrainErr(); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func TestDrainFatalError(t *testing.T) {
	require := require.New(t)
	c1, c2 := mocks.Conn()
	sock, err := New(c1, fastConfig())
	require.Nil(err)

	_, err = c2.Write([]byte("bye"))
	require.Nil(err)
	require.Nil(c2.Close())

	// A peer hangup is fatal to the drain routine, not a timeout.
	require.Equal(io.EOF, waitDrainErr(sock, time.Second))

	// Bytes drained before the failure stay available.
	p, err := sock.Recv(3)
	require.Nil(err)
	require.Equal([]byte("bye"), p)

	// After the failure the buffer stops growing and Recv times out.
	sock.SetTimeout(50 * time.Millisecond)
	_, err = sock.Recv(1)
	require.Equal(uerrors.ErrTimeout, err)

	require.Nil(sock.Close())
}

func TestDrainLogFidelity(t *testing.T) {
	require := require.New(t)
	logPath := filepath.Join(t.TempDir(), "console.log")

	c1, c2 := mocks.Conn()
	cfg := fastConfig()
	cfg.LogPath = logPath
	sock, err := New(c1, cfg)
	require.Nil(err)

	expected := make([]byte, 0, 259)
	for i := 0; i < 256; i++ {
		expected = append(expected, byte(i))
	}
	expected = append(expected, 0xE2, 0x80, 0xA6)

	_, err = c2.Write(expected[:100])
	require.Nil(err)
	_, err = c2.Write(expected[100:])
	require.Nil(err)

	p, err := sock.Recv(len(expected))
	require.Nil(err)
	require.Equal(expected, p)

	require.Nil(sock.Close())

	data, err := ioutil.ReadFile(logPath)
	require.Nil(err)
	require.Equal(expected, data)
}

func TestDrainStopsOnClose(t *testing.T) {
	require := require.New(t)
	c1, c2 := mocks.Conn()
	sock, err := New(c1, fastConfig())
	require.Nil(err)

	start := time.Now()
	require.Nil(sock.Close())
	// Close joins the drain routine within one read deadline, give or
	// take an idle sleep.
	require.True(time.Since(start) < time.Second)

	// The peer now sees the socket closed.
	_, err = c2.Write([]byte("x"))
	require.NotNil(err)
}
