// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail"
	"github.com/stratastor/warren/pkg/jail/locker"
	"github.com/stratastor/warren/pkg/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend serves the handler tests with a fixed pair of jails
type stubBackend struct{}

func (stubBackend) List(ctx context.Context) ([]jail.Jail, error) {
	return []jail.Jail{
		{ID: "web1", JID: "42", State: jail.StateRunning, Kind: jail.KindJail, Release: "13.2-RELEASE"},
		{ID: "db1", State: jail.StateStopped, Kind: jail.KindJail, Release: "12.4-RELEASE"},
	}, nil
}

func (s stubBackend) Lookup(ctx context.Context, ident string) (string, string, error) {
	jails, _ := s.List(ctx)
	for _, j := range jails {
		if j.ID == ident || (j.JID != "" && j.JID == ident) {
			return j.ID, "/mnt/tank/iocage/jails/" + j.ID + "/root", nil
		}
	}
	return "", "", errors.New(errors.JailNotFound, ident)
}

func (stubBackend) LoadConfig(ctx context.Context, ident string) (jail.JailConfig, error) {
	return jail.JailConfig{Release: "13.2-RELEASE", Kind: jail.KindJail}, nil
}

func (stubBackend) RunState(ctx context.Context, ident string) (jail.RunState, error) {
	return jail.StateStopped, nil
}

func (stubBackend) Create(ctx context.Context, cfg jail.CreateConfig) error { return nil }
func (stubBackend) Destroy(ctx context.Context, ident string) error         { return nil }
func (stubBackend) SetProperty(ctx context.Context, ident, key, value string) error {
	return nil
}
func (stubBackend) Rename(ctx context.Context, ident, newName string) error { return nil }
func (stubBackend) Start(ctx context.Context, ident string) error           { return nil }
func (stubBackend) Stop(ctx context.Context, ident string) error            { return nil }
func (stubBackend) Fetch(ctx context.Context, cfg jail.FetchConfig) error   { return nil }
func (stubBackend) ReleaseFetched(ctx context.Context, release string) (bool, error) {
	return true, nil
}
func (stubBackend) FetchUpdate(ctx context.Context, release, ident string) error { return nil }
func (stubBackend) Upgrade(ctx context.Context, ident, release string) error     { return nil }
func (stubBackend) Export(ctx context.Context, ident string) error               { return nil }
func (stubBackend) Import(ctx context.Context, ident string) error               { return nil }
func (stubBackend) Fstab(ctx context.Context, ident string, cfg jail.FstabConfig) ([]jail.FstabEntry, error) {
	return nil, nil
}
func (stubBackend) Exec(ctx context.Context, ident string, command []string, hostUser, jailUser string) ([]byte, error) {
	return []byte("ok"), nil
}
func (stubBackend) Clean(ctx context.Context, scope jail.CleanScope) error { return nil }
func (stubBackend) ListResource(ctx context.Context, cfg jail.ListResourceConfig) ([][]string, error) {
	return [][]string{{"13.2-RELEASE"}}, nil
}
func (stubBackend) EnsureDatasets(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := logger.NewTag(logger.Config{LogLevel: "error"}, "api-test")
	require.NoError(t, err)

	locks := locker.New(false)
	manager := jail.NewManager(stubBackend{}, locks, jobs.NewManager(locks, l), l,
		jail.FetchDefaults{})

	engine := gin.New()
	v1 := engine.Group("/api/v1/warren")
	NewJailHandler(manager).RegisterRoutes(v1)
	NewReleaseHandler(manager).RegisterRoutes(v1)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestListJails(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/warren/jails", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jails []jail.Jail `json:"jails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Jails, 2)
}

func TestQueryJailsFiltered(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/warren/jails/query", jail.QueryConfig{
		Filters: []jail.Filter{{Field: "state", Op: "=", Value: "running"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jails []jail.Jail `json:"jails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Jails, 1)
	assert.Equal(t, "web1", resp.Jails[0].ID)
}

func TestGetJailByJID(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/warren/jails/42", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var j jail.Jail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &j))
	assert.Equal(t, "web1", j.ID)
}

func TestGetJailNotFound(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/warren/jails/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJailRejectsBadIdent(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/warren/jails/-bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateJailRequiresSource(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/warren/jails",
		jail.CreateConfig{ID: "web9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateJailReturnsJobHandle(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/warren/jails",
		jail.CreateConfig{ID: "web9", Release: "13.2-RELEASE"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
}

func TestFstabReplaceWithoutIndex(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/warren/jails/web1/fstab",
		jail.FstabConfig{Action: jail.FstabReplace, Source: "/a", Destination: "/b"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartUnknownJail(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/warren/jails/nope/start", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFetchRequiresTarget(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/warren/releases/fetch",
		jail.FetchConfig{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReleases(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/warren/releases", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "13.2-RELEASE", resp.Rows[0][0])
}
