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

package jobs

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail/locker"
)

// Fn is a job body. The context is cancelled when the job is cancelled;
// bodies finish their current atomic step before honoring it.
type Fn func(ctx context.Context) (interface{}, error)

type record struct {
	job    Job
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager tracks background jobs. Submission never blocks the caller: the
// matching lock slot is acquired on the job's goroutine, so a second job
// for the same (kind, target) queues behind the first.
type Manager struct {
	mu        sync.RWMutex
	records   map[string]*record
	locks     *locker.Locker
	logger    logger.Logger
	scheduler gocron.Scheduler
}

func NewManager(locks *locker.Locker, l logger.Logger) *Manager {
	return &Manager{
		records: make(map[string]*record),
		locks:   locks,
		logger:  l,
	}
}

// Submit registers a job and returns its handle immediately. The body runs
// once the (kind, target) lock slot is granted.
func (m *Manager) Submit(kind, target string, fn Fn) (string, error) {
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	rec := &record{
		job: Job{
			ID:        id,
			Kind:      kind,
			Target:    target,
			State:     StatePending,
			CreatedAt: time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	m.records[id] = rec
	m.mu.Unlock()

	go m.run(ctx, rec, fn)

	m.logger.Info("Job submitted", "id", id, "kind", kind, "target", target)
	return id, nil
}

func (m *Manager) run(ctx context.Context, rec *record, fn Fn) {
	defer close(rec.done)
	defer rec.cancel()

	key := locker.Key{Op: rec.job.Kind, Target: rec.job.Target}
	release, err := m.locks.Acquire(ctx, key)
	if err != nil {
		// Cancelled while pending, or rejected by configuration.
		m.finish(rec, nil, err, ctx.Err() != nil)
		return
	}
	defer release()

	m.mu.Lock()
	if ctx.Err() != nil {
		m.mu.Unlock()
		m.finish(rec, nil, ctx.Err(), true)
		return
	}
	now := time.Now()
	rec.job.State = StateRunning
	rec.job.StartedAt = &now
	m.mu.Unlock()

	result, err := fn(ctx)
	cancelled := stderrors.Is(err, context.Canceled) ||
		(err != nil && ctx.Err() != nil)
	m.finish(rec, result, err, cancelled)
}

func (m *Manager) finish(rec *record, result interface{}, err error, cancelled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	rec.job.FinishedAt = &now
	rec.job.Result = result

	switch {
	case cancelled:
		rec.job.State = StateCancelled
		if err != nil {
			rec.job.Error = err.Error()
		}
	case err != nil:
		rec.job.State = StateFailed
		rec.job.Error = err.Error()
	default:
		rec.job.State = StateSucceeded
	}

	m.logger.Info("Job finished",
		"id", rec.job.ID, "kind", rec.job.Kind, "state", rec.job.State)
}

// Get returns a snapshot of the job
func (m *Manager) Get(id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return Job{}, errors.New(errors.JobNotFound, id)
	}
	return rec.job, nil
}

// List returns snapshots of all tracked jobs
func (m *Manager) List() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Job, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.job)
	}
	return out
}

// Wait blocks until the job finishes or ctx expires, returning the final
// snapshot.
func (m *Manager) Wait(ctx context.Context, id string) (Job, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return Job{}, errors.New(errors.JobNotFound, id)
	}

	select {
	case <-rec.done:
		return m.Get(id)
	case <-ctx.Done():
		return Job{}, errors.Wrap(ctx.Err(), errors.ServerContextCancelled)
	}
}

// Cancel requests cancellation. Pending jobs are cancelled before their
// body starts; running jobs observe the context after their current atomic
// step. Finished jobs cannot be cancelled.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	rec, ok := m.records[id]
	if !ok {
		m.mu.Unlock()
		return errors.New(errors.JobNotFound, id)
	}
	if rec.job.State.Finished() {
		m.mu.Unlock()
		return errors.New(errors.JobNotCancellable,
			"job already finished: "+id)
	}
	m.mu.Unlock()

	rec.cancel()
	return nil
}

// purge drops finished jobs older than retention
func (m *Manager) purge(retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, rec := range m.records {
		if rec.job.State.Finished() && rec.job.FinishedAt != nil &&
			rec.job.FinishedAt.Before(cutoff) {
			delete(m.records, id)
		}
	}
}
