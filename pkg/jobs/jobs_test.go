// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail/locker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, reject bool) *Manager {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "error"}, "jobs-test")
	require.NoError(t, err)
	return NewManager(locker.New(reject), l)
}

func TestSubmitAndWaitSuccess(t *testing.T) {
	m := newTestManager(t, false)

	id, err := m.Submit(KindCreate, "web1", func(ctx context.Context) (interface{}, error) {
		return true, nil
	})
	require.NoError(t, err)

	job, err := m.Wait(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State)
	assert.Equal(t, true, job.Result)
	assert.Equal(t, KindCreate, job.Kind)
	assert.Equal(t, "web1", job.Target)
	require.NotNil(t, job.StartedAt)
	require.NotNil(t, job.FinishedAt)
}

func TestSubmitFailure(t *testing.T) {
	m := newTestManager(t, false)

	id, err := m.Submit(KindUpdate, "web1", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New(errors.JailUpdateFailed, "patch failed")
	})
	require.NoError(t, err)

	job, err := m.Wait(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, job.State)
	assert.Contains(t, job.Error, "patch failed")
}

func TestSameKeyJobsSerialize(t *testing.T) {
	m := newTestManager(t, false)

	running := make(chan struct{})
	proceed := make(chan struct{})

	first, err := m.Submit(KindUpdate, "web1", func(ctx context.Context) (interface{}, error) {
		close(running)
		<-proceed
		return true, nil
	})
	require.NoError(t, err)
	<-running

	second, err := m.Submit(KindUpdate, "web1", func(ctx context.Context) (interface{}, error) {
		return true, nil
	})
	require.NoError(t, err)

	// Second job must stay pending while the first holds the slot
	time.Sleep(50 * time.Millisecond)
	job, err := m.Get(second)
	require.NoError(t, err)
	assert.Equal(t, StatePending, job.State)

	close(proceed)

	job, err = m.Wait(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State)

	job, err = m.Get(first)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State)
}

func TestRejectModeFailsSecondJob(t *testing.T) {
	m := newTestManager(t, true)

	proceed := make(chan struct{})
	running := make(chan struct{})

	first, err := m.Submit(KindExport, "web1", func(ctx context.Context) (interface{}, error) {
		close(running)
		<-proceed
		return true, nil
	})
	require.NoError(t, err)
	<-running

	second, err := m.Submit(KindExport, "web1", func(ctx context.Context) (interface{}, error) {
		return true, nil
	})
	require.NoError(t, err)

	job, err := m.Wait(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, job.State)
	assert.Contains(t, job.Error, "already in flight")

	close(proceed)
	job, err = m.Wait(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State)
}

func TestCancelPendingJob(t *testing.T) {
	m := newTestManager(t, false)

	running := make(chan struct{})
	proceed := make(chan struct{})
	defer close(proceed)

	_, err := m.Submit(KindUpgrade, "web1", func(ctx context.Context) (interface{}, error) {
		close(running)
		<-proceed
		return true, nil
	})
	require.NoError(t, err)
	<-running

	pending, err := m.Submit(KindUpgrade, "web1", func(ctx context.Context) (interface{}, error) {
		t.Error("cancelled pending job body must not run")
		return nil, nil
	})
	require.NoError(t, err)

	require.NoError(t, m.Cancel(pending))

	job, err := m.Wait(context.Background(), pending)
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, job.State)
}

func TestCancelRunningJob(t *testing.T) {
	m := newTestManager(t, false)

	running := make(chan struct{})
	id, err := m.Submit(KindFetch, "13.2-RELEASE", func(ctx context.Context) (interface{}, error) {
		close(running)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)
	<-running

	require.NoError(t, m.Cancel(id))

	job, err := m.Wait(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, job.State)
}

func TestCancelFinishedJob(t *testing.T) {
	m := newTestManager(t, false)

	id, err := m.Submit(KindCreate, "web1", func(ctx context.Context) (interface{}, error) {
		return true, nil
	})
	require.NoError(t, err)

	_, err = m.Wait(context.Background(), id)
	require.NoError(t, err)

	err = m.Cancel(id)
	require.Error(t, err)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.JobNotCancellable))
}

func TestGetUnknownJob(t *testing.T) {
	m := newTestManager(t, false)

	_, err := m.Get("no-such-job")
	require.Error(t, err)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.JobNotFound))

	_, err = m.Wait(context.Background(), "no-such-job")
	require.Error(t, err)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.JobNotFound))
}

func TestPurgeDropsOnlyOldFinishedJobs(t *testing.T) {
	m := newTestManager(t, false)

	finished, err := m.Submit(KindCreate, "web1", func(ctx context.Context) (interface{}, error) {
		return true, nil
	})
	require.NoError(t, err)
	_, err = m.Wait(context.Background(), finished)
	require.NoError(t, err)

	running := make(chan struct{})
	proceed := make(chan struct{})
	live, err := m.Submit(KindCreate, "db1", func(ctx context.Context) (interface{}, error) {
		close(running)
		<-proceed
		return true, nil
	})
	require.NoError(t, err)
	<-running

	// Zero retention: every finished job is past the cutoff
	m.purge(0)

	_, err = m.Get(finished)
	assert.True(t, errors.IsWarrenErrorCode(err, errors.JobNotFound))

	_, err = m.Get(live)
	assert.NoError(t, err, "running jobs survive the purge")

	close(proceed)
	_, err = m.Wait(context.Background(), live)
	require.NoError(t, err)
}
