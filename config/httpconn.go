/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads typed configuration sections for this module's
// components from a viper instance, the way the teacher's config
// package loads its own component tree - trimmed to a single,
// self-contained component rather than the full Init/Start/Reload/Stop
// registry, since nothing here needs hot-reload or CLI flag binding.
package config

import (
	"sync"

	libmap "github.com/go-viper/mapstructure/v2"
	libvpr "github.com/spf13/viper"

	"github/sabouaram/fibernet/certificates"
	"github/sabouaram/fibernet/duration"
	"github/sabouaram/fibernet/errors"
	"github/sabouaram/fibernet/httpconn"
	liblog "github/sabouaram/fibernet/logger"
)

// TimeoutConfig groups the durations a HttpConnConfig applies to every
// connection built from it.
type TimeoutConfig struct {
	// Dial bounds ClientPool.Get's net.Dial call. Zero means no bound.
	Dial duration.Duration `mapstructure:"dial" json:"dial" yaml:"dial" toml:"dial"`

	// Read and Write are carried onto ClientConnection/ServerConnection
	// for callers that enforce their own per-call deadlines; the pumps
	// themselves do not yet apply them to the underlying stream.
	Read  duration.Duration `mapstructure:"read" json:"read" yaml:"read" toml:"read"`
	Write duration.Duration `mapstructure:"write" json:"write" yaml:"write" toml:"write"`

	// Idle is enforced: a ClientPool closes and evicts a pooled
	// connection once it has had no outstanding request for this long.
	// Zero disables idle reaping.
	Idle duration.Duration `mapstructure:"idle" json:"idle" yaml:"idle" toml:"idle"`
}

// HttpConnConfig is the on-disk shape of an httpconn client/server
// pool's configuration, unmarshaled by viper from YAML, JSON, or TOML.
type HttpConnConfig struct {
	// Listen is the address a ServerPool built from this config binds
	// to. Empty means this section is client-only.
	Listen string `mapstructure:"listen" json:"listen" yaml:"listen" toml:"listen"`

	// TLS configures both the ClientPool's dial-time handshake and the
	// ServerPool's accept-time handshake. Nil serves/dials plain HTTP.
	TLS *certificates.Config `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`

	Timeout TimeoutConfig `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
}

// DefaultHttpConnConfig returns the zero-risk defaults ComponentHttpConn
// falls back to until Load succeeds.
func DefaultHttpConnConfig() HttpConnConfig {
	return HttpConnConfig{
		Timeout: TimeoutConfig{
			Dial:  duration.Seconds(10),
			Read:  duration.Seconds(30),
			Write: duration.Seconds(30),
			Idle:  duration.Seconds(90),
		},
	}
}

// ComponentHttpConn owns a loaded HttpConnConfig and builds the
// httpconn.ClientPool/httpconn.ServerPool it describes, the way a
// teacher config.Component builds the resource its section configures.
type ComponentHttpConn struct {
	mu     sync.Mutex
	cfg    HttpConnConfig
	loaded bool
	log    liblog.FuncLog
}

// NewComponentHttpConn returns a ComponentHttpConn seeded with
// DefaultHttpConnConfig. log is an optional structured-logging hook
// passed through to every pool and connection this component builds.
func NewComponentHttpConn(log ...liblog.FuncLog) *ComponentHttpConn {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}

	return &ComponentHttpConn{
		cfg: DefaultHttpConnConfig(),
		log: liblog.OrDiscard(l),
	}
}

// decodeHook composes the duration package's viper hook with viper's
// own defaults, so plain string/slice fields keep decoding normally
// alongside Duration fields.
func decodeHook() libvpr.DecoderConfigOption {
	return libvpr.DecodeHook(libmap.ComposeDecodeHookFunc(
		libmap.StringToTimeDurationHookFunc(),
		libmap.StringToSliceHookFunc(","),
		duration.ViperDecoderHook(),
	))
}

// Load unmarshals the section at key (e.g. "httpconn.upstream") out of
// v into this component's configuration, validating TLS if present.
func (c *ComponentHttpConn) Load(v *libvpr.Viper, key string) errors.Error {
	var cfg HttpConnConfig

	if err := v.UnmarshalKey(key, &cfg, decodeHook()); err != nil {
		return ErrorUnmarshal.Error(err)
	}

	if cfg.TLS != nil {
		if err := cfg.TLS.Validate(); err != nil {
			return ErrorValidation.Error(err)
		}
	}

	c.mu.Lock()
	c.cfg = cfg
	c.loaded = true
	c.mu.Unlock()

	return nil
}

// Config returns the component's current configuration.
func (c *ComponentHttpConn) Config() HttpConnConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// IsLoaded reports whether Load has succeeded at least once.
func (c *ComponentHttpConn) IsLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *ComponentHttpConn) tlsConfig(cfg HttpConnConfig) certificates.TLSConfig {
	if cfg.TLS == nil {
		return nil
	}
	return cfg.TLS.New()
}

// ClientPool builds an httpconn.ClientPool from this component's
// current configuration.
func (c *ComponentHttpConn) ClientPool() httpconn.ClientPool {
	cfg := c.Config()

	return httpconn.NewClientPool(httpconn.ClientPoolConfig{
		TLS:          c.tlsConfig(cfg),
		DialTimeout:  cfg.Timeout.Dial,
		ReadTimeout:  cfg.Timeout.Read,
		WriteTimeout: cfg.Timeout.Write,
		IdleTimeout:  cfg.Timeout.Idle,
	}, c.log)
}

// ServerPool builds an httpconn.ServerPool from this component's
// current configuration. Listen is the address callers should pass to
// ServerPool.Listen; it is not opened automatically.
func (c *ComponentHttpConn) ServerPool() httpconn.ServerPool {
	cfg := c.Config()

	return httpconn.NewServerPool(httpconn.ServerPoolConfig{
		TLS:          c.tlsConfig(cfg),
		ReadTimeout:  cfg.Timeout.Read,
		WriteTimeout: cfg.Timeout.Write,
		IdleTimeout:  cfg.Timeout.Idle,
	}, c.log)
}

// ListenAddress returns the configured Listen address, empty if this
// section is client-only.
func (c *ComponentHttpConn) ListenAddress() string {
	return c.Config().Listen
}
