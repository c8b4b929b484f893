// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package peers

import (
	"testing"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "error"}, "peers-test")
	require.NoError(t, err)

	s, err := NewStore("", l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create(PeerInput{
		Name:              "backup-host",
		Description:       "nightly export target",
		SSHRemoteHostname: "backup.example.net",
		SSHRemoteUser:     "warren",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 22, p.SSHPort, "port defaults to 22")
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestGetUnknownPeer(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("no-such-id")
	require.Error(t, err)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.PeerNotFound))
}

func TestUpdatePeer(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create(PeerInput{
		Name:              "backup-host",
		SSHRemoteHostname: "backup.example.net",
		SSHPort:           2222,
	})
	require.NoError(t, err)

	updated, err := s.Update(p.ID, PeerInput{
		Name:              "backup-host-2",
		SSHRemoteHostname: "backup2.example.net",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "backup-host-2", updated.Name)
	assert.Equal(t, "backup2.example.net", updated.SSHRemoteHostname)
	assert.Equal(t, 2222, updated.SSHPort, "zero port input keeps the stored port")
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = s.Update("no-such-id", PeerInput{Name: "x", SSHRemoteHostname: "y"})
	assert.True(t, errors.IsWarrenErrorCode(err, errors.PeerNotFound))
}

func TestListSortsByName(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mike"} {
		_, err := s.Create(PeerInput{Name: name, SSHRemoteHostname: name + ".example.net"})
		require.NoError(t, err)
	}

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mike", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestDeletePeer(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create(PeerInput{Name: "gone", SSHRemoteHostname: "gone.example.net"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(p.ID))

	_, err = s.Get(p.ID)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.PeerNotFound))

	err = s.Delete(p.ID)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.PeerNotFound))
}
