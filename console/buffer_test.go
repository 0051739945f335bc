package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	t.Run("fifo", func(t *testing.T) {
		require := require.New(t)
		var b byteBuffer
		b.append([]byte("hel"))
		b.append([]byte("lo\n"))
		require.Equal(6, b.len())

		p, ok := b.take(5)
		require.True(ok)
		require.Equal([]byte("hello"), p)

		p, ok = b.take(1)
		require.True(ok)
		require.Equal([]byte("\n"), p)
		require.Equal(0, b.len())
	})

	t.Run("not enough", func(t *testing.T) {
		require := require.New(t)
		var b byteBuffer
		b.append([]byte("abc"))

		p, ok := b.take(4)
		require.False(ok)
		require.Nil(p)
		// A failed take must leave the buffer untouched.
		require.Equal(3, b.len())
	})

	t.Run("index", func(t *testing.T) {
		require := require.New(t)
		var b byteBuffer
		b.append([]byte("login: "))
		require.Equal(-1, b.index([]byte("password")))
		require.Equal(0, b.index([]byte("login")))
		require.Equal(5, b.index([]byte(": ")))
	})

	t.Run("concurrent", func(t *testing.T) {
		require := require.New(t)
		var b byteBuffer
		expected := make([]byte, 4096)
		for i := range expected {
			expected[i] = byte(i)
		}

		go func() {
			for i := 0; i < len(expected); i += 256 {
				b.append(expected[i : i+256])
				time.Sleep(time.Microsecond)
			}
		}()

		got := make([]byte, 0, len(expected))
		deadline := time.Now().Add(5 * time.Second)
		for len(got) < len(expected) && time.Now().Before(deadline) {
			if p, ok := b.take(1); ok {
				got = append(got, p...)
			}
		}
		require.Equal(expected, got)
	})
}
