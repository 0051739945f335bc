package console

import "time"

const (
	defaultRecvTimeout    = 300 * time.Second
	defaultReadTimeout    = time.Second
	defaultIdleSleep      = 500 * time.Millisecond
	defaultPollInterval   = 100 * time.Millisecond
	defaultReadBufferSize = 4096

	minReadBufferSize = 512
)

type Config struct {
	// Disables the background drain routine. Without draining the socket
	// becomes a transparent wrapper and Recv reads the transport directly.
	NoDrain bool

	// Path to an optional mirror file. Every drained byte is appended to it
	// and flushed right away so an external tail sees output promptly.
	// Ignored when draining is disabled.
	LogPath string

	// How long Recv waits for the requested bytes to show up in the buffer.
	// Can be changed later through SetTimeout.
	RecvTimeout time.Duration

	// Deadline for each read the drain routine issues against the transport.
	// Keeps the routine responsive to Close. Must stay well below RecvTimeout.
	ReadTimeout time.Duration

	// Sleep after an idle drain read before trying the transport again.
	IdleSleep time.Duration

	// Interval at which Recv polls the buffer.
	PollInterval time.Duration

	// The size of the drain routine's scratch read buffer
	ReadBufferSize int
}

func DefaultConfig() Config {
	return Config{
		RecvTimeout:    defaultRecvTimeout,
		ReadTimeout:    defaultReadTimeout,
		IdleSleep:      defaultIdleSleep,
		PollInterval:   defaultPollInterval,
		ReadBufferSize: defaultReadBufferSize,
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.RecvTimeout <= 0 {
		cfg.RecvTimeout = defaultRecvTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = defaultIdleSleep
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ReadBufferSize < minReadBufferSize {
		cfg.ReadBufferSize = minReadBufferSize
	}
	return cfg
}
