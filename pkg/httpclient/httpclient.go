/*
 * Copyright 2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package httpclient provides the resty client used for local daemon
// probes. The daemon listens on loopback, so the client carries retry
// and timeout settings but no TLS or auth surface.
package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stratastor/warren/internal/constants"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultRetryCount    = 3
	defaultRetryWaitTime = 2 * time.Second
	defaultRetryMaxWait  = 10 * time.Second
	userAgent            = "Warren-Agent"
)

// Client wraps resty.Client so callers hold one type for probes.
type Client struct {
	*resty.Client
	config ClientConfig
}

// ClientConfig holds the settings a probe client needs.
type ClientConfig struct {
	BaseURL          string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	UserAgent        string
}

// NewClientConfig returns a ClientConfig with probe defaults.
func NewClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:          defaultTimeout,
		RetryCount:       defaultRetryCount,
		RetryWaitTime:    defaultRetryWaitTime,
		RetryMaxWaitTime: defaultRetryMaxWait,
		UserAgent:        userAgent + "/" + constants.WarrenVersion,
	}
}

// NewClient builds a resty client from the configuration. Resty's own
// logging is silenced; probe outcomes are logged by the caller.
func NewClient(config ClientConfig) *Client {
	rc := resty.New()

	if config.Timeout > 0 {
		rc.SetTimeout(config.Timeout)
	}
	if config.RetryCount > 0 {
		rc.SetRetryCount(config.RetryCount)
	}
	if config.RetryWaitTime > 0 {
		rc.SetRetryWaitTime(config.RetryWaitTime)
	}
	if config.RetryMaxWaitTime > 0 {
		rc.SetRetryMaxWaitTime(config.RetryMaxWaitTime)
	}
	if config.UserAgent != "" {
		rc.SetHeader("User-Agent", config.UserAgent)
	}
	if config.BaseURL != "" {
		rc.SetBaseURL(config.BaseURL)
	}
	rc.SetLogger(quietLogger{})

	return &Client{Client: rc, config: config}
}

// quietLogger drops resty's internal log lines.
type quietLogger struct{}

func (quietLogger) Printf(format string, v ...interface{}) {}
func (quietLogger) Debugf(format string, v ...interface{}) {}
func (quietLogger) Warnf(format string, v ...interface{})  {}
func (quietLogger) Errorf(format string, v ...interface{}) {}
