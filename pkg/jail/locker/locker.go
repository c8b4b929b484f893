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

// Package locker serializes state-mutating jail operations. Each slot is
// keyed by (operation kind, identifier): distinct identifiers or distinct
// operation kinds never contend, while two operations on the same key are
// admitted one at a time.
package locker

import (
	"context"
	"fmt"
	"sync"

	"github.com/stratastor/warren/pkg/errors"
)

// Key identifies an exclusive slot
type Key struct {
	Op     string
	Target string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Op, k.Target)
}

// entry is a slot with a one-deep semaphore. Entries are created on first
// use and reference-counted so the table does not grow over process
// lifetime.
type entry struct {
	sem  chan struct{}
	refs int
}

// Locker grants named exclusive locks. With reject set, a second acquire
// for a held key fails immediately instead of queueing.
type Locker struct {
	mu      sync.Mutex
	entries map[Key]*entry
	reject  bool
}

func New(reject bool) *Locker {
	return &Locker{
		entries: make(map[Key]*entry),
		reject:  reject,
	}
}

// Acquire claims the slot for key, blocking until it is free unless the
// locker is configured for rejection. The returned release function is
// idempotent and must be called on every exit path.
func (l *Locker) Acquire(ctx context.Context, key Key) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	if l.reject {
		select {
		case e.sem <- struct{}{}:
		default:
			l.put(key, e)
			return nil, errors.New(errors.JobConflict,
				fmt.Sprintf("operation %s already in flight", key))
		}
	} else {
		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			l.put(key, e)
			return nil, errors.Wrap(ctx.Err(), errors.ServerContextCancelled)
		}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			<-e.sem
			l.put(key, e)
		})
	}
	return release, nil
}

// WithLock runs fn inside the slot for key, releasing unconditionally on
// completion or failure.
func (l *Locker) WithLock(ctx context.Context, key Key, fn func() error) error {
	release, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (l *Locker) put(key Key, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}

// Len reports the number of live slot entries
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
