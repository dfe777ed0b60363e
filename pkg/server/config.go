package server

import (
	"net/http"
	"time"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/pkg/protocol"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address.
	Addr string

	// RootTag is the tag of every mount's root node.
	RootTag string

	// History is the number of batches kept per mount.
	History int

	// SubscriberBuffer is the per-subscriber frame queue length.
	SubscriberBuffer int

	// ReleaseHandles drops a mount's handles after each render so the
	// handle table does not grow with the number of renders.
	ReleaseHandles bool

	// Limits bounds request bodies and decoded frames.
	Limits protocol.Limits

	// WriteTimeout bounds each WebSocket write.
	WriteTimeout time.Duration

	// PingInterval is how often idle subscribers are pinged.
	PingInterval time.Duration

	// ReadHeaderTimeout for the HTTP server.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// CheckOrigin validates WebSocket origins. Nil allows same-origin only.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:              config.DefaultAddr,
		RootTag:           config.DefaultRootTag,
		History:           config.DefaultHistory,
		SubscriberBuffer:  config.DefaultSubscriberBuffer,
		Limits:            protocol.DefaultLimits(),
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// ConfigFrom builds a server Config from the file configuration.
func ConfigFrom(c *config.Config) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Addr = c.Server.Addr
	cfg.RootTag = c.Server.RootTag
	cfg.History = c.Server.History
	cfg.SubscriberBuffer = c.Server.SubscriberBuffer
	cfg.ReleaseHandles = c.Server.ReleaseHandles
	cfg.Limits = c.Limits()

	timeout, err := c.ShutdownTimeout()
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = timeout
	return cfg, nil
}

// withDefaults fills zero fields.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	out := *c
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.RootTag == "" {
		out.RootTag = d.RootTag
	}
	if out.History <= 0 {
		out.History = d.History
	}
	if out.SubscriberBuffer <= 0 {
		out.SubscriberBuffer = d.SubscriberBuffer
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.PingInterval <= 0 {
		out.PingInterval = d.PingInterval
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.Limits.MaxPayload <= 0 {
		out.Limits.MaxPayload = protocol.DefaultMaxPayload
	}
	return &out
}
