// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package elastic

import (
	"errors"
	"time"
)

// Config holds connection settings for the Elasticsearch adapter.
type Config struct {
	// Addresses is the list of node URLs.
	// Example: ["http://localhost:9200"]
	Addresses []string

	// APIKey authenticates with an API key. Takes precedence over
	// Username/Password when set.
	APIKey string

	// Username and Password authenticate with basic auth.
	Username string
	Password string

	// Timeout bounds every individual call to the service.
	// Default: 30s. The bound is per call, not per request lifetime.
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAddresses sets the node URLs.
func WithAddresses(addresses ...string) ConfigOption {
	return func(c *Config) {
		c.Addresses = addresses
	}
}

// WithAPIKey sets API key authentication.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBasicAuth sets username/password authentication.
func WithBasicAuth(username, password string) ConfigOption {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithTimeout sets the per-call deadline.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config pointed at a local single-node service.
func DefaultConfig() *Config {
	return &Config{
		Addresses: []string{"http://localhost:9200"},
		Timeout:   30 * time.Second,
	}
}

// NewConfig creates a Config with defaults and applies the options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if len(c.Addresses) == 0 {
		return errors.New("elastic config: at least one address is required")
	}
	if c.Timeout <= 0 {
		return errors.New("elastic config: timeout must be positive")
	}
	return nil
}
