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

package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientConfigDefaults(t *testing.T) {
	cfg := NewClientConfig()

	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultRetryCount, cfg.RetryCount)
	assert.Contains(t, cfg.UserAgent, "Warren-Agent/")
}

func TestNewClientAppliesConfig(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := NewClientConfig()
	cfg.BaseURL = srv.URL
	cfg.Timeout = 2 * time.Second
	client := NewClient(cfg)

	resp, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, cfg.UserAgent, gotAgent)
}
