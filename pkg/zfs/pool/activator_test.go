// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/zfs/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExecutor maps "cmd args..." invocations to canned results
type scriptedExecutor struct {
	mu    sync.Mutex
	calls []string
	fn    func(cmd string, args []string) ([]byte, error)
}

func (s *scriptedExecutor) Execute(
	ctx context.Context,
	opts command.CommandOptions,
	cmd string,
	args ...string,
) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cmd+" "+strings.Join(args, " "))
	s.mu.Unlock()
	return s.fn(cmd, args)
}

func newTestActivator(t *testing.T, exec *scriptedExecutor) *Activator {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "error"}, "pool-test")
	require.NoError(t, err)
	return NewActivator(NewManager(exec), l)
}

func TestActivateSweepsAllPools(t *testing.T) {
	exec := &scriptedExecutor{
		fn: func(cmd string, args []string) ([]byte, error) {
			if cmd == "zpool list" {
				return []byte("tank\nbackup\nscratch\n"), nil
			}
			return nil, nil
		},
	}
	a := newTestActivator(t, exec)

	require.NoError(t, a.Activate(context.Background(), "backup"))

	require.Len(t, exec.calls, 4) // one list, three sets
	assert.Contains(t, exec.calls[1], "org.freebsd.ioc:active=no tank")
	assert.Contains(t, exec.calls[2], "org.freebsd.ioc:active=yes backup")
	assert.Contains(t, exec.calls[3], "org.freebsd.ioc:active=no scratch")
}

func TestActivateUnknownPoolSweepsFirst(t *testing.T) {
	exec := &scriptedExecutor{
		fn: func(cmd string, args []string) ([]byte, error) {
			if cmd == "zpool list" {
				return []byte("tank\nbackup\n"), nil
			}
			return nil, nil
		},
	}
	a := newTestActivator(t, exec)

	err := a.Activate(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.PoolNotFound))

	// Both pools were still deactivated before the error
	require.Len(t, exec.calls, 3)
	assert.Contains(t, exec.calls[1], "org.freebsd.ioc:active=no tank")
	assert.Contains(t, exec.calls[2], "org.freebsd.ioc:active=no backup")
}

func TestActivateKeepsSweepingOnFailure(t *testing.T) {
	exec := &scriptedExecutor{
		fn: func(cmd string, args []string) ([]byte, error) {
			if cmd == "zpool list" {
				return []byte("tank\nbackup\nscratch\n"), nil
			}
			if cmd == "zfs set" && strings.Contains(strings.Join(args, " "), "tank") {
				return nil, errors.New(errors.PoolPropertyFailed, "io error")
			}
			return nil, nil
		},
	}
	a := newTestActivator(t, exec)

	err := a.Activate(context.Background(), "backup")
	require.Error(t, err)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.PoolActivateFailed))

	// The failing pool did not stop the sweep
	require.Len(t, exec.calls, 4)
	assert.Contains(t, exec.calls[3], "scratch")
}

func TestActivateIsIdempotent(t *testing.T) {
	exec := &scriptedExecutor{
		fn: func(cmd string, args []string) ([]byte, error) {
			if cmd == "zpool list" {
				return []byte("tank\n"), nil
			}
			return nil, nil
		},
	}
	a := newTestActivator(t, exec)

	require.NoError(t, a.Activate(context.Background(), "tank"))
	require.NoError(t, a.Activate(context.Background(), "tank"))

	// Each call re-applies the same property value
	setCalls := 0
	for _, c := range exec.calls {
		if strings.Contains(c, "org.freebsd.ioc:active=yes tank") {
			setCalls++
		}
	}
	assert.Equal(t, 2, setCalls)
}

func TestListReportsActivation(t *testing.T) {
	exec := &scriptedExecutor{
		fn: func(cmd string, args []string) ([]byte, error) {
			switch cmd {
			case "zpool list":
				return []byte("tank\nbackup\n"), nil
			case "zfs get":
				// args: -H -o value <property> <pool>
				if args[len(args)-1] == "tank" {
					return []byte("yes\n"), nil
				}
				return []byte("-\n"), nil
			}
			return nil, nil
		},
	}
	a := newTestActivator(t, exec)

	pools, err := a.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, Pool{Name: "tank", Active: true}, pools[0])
	assert.Equal(t, Pool{Name: "backup", Active: false}, pools[1])
}

func TestListNamesParsesOutput(t *testing.T) {
	exec := &scriptedExecutor{
		fn: func(cmd string, args []string) ([]byte, error) {
			return []byte("tank\n\nbackup\n"), nil
		},
	}
	m := NewManager(exec)

	names, err := m.ListNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tank", "backup"}, names)
}
