// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package jobs

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stratastor/warren/pkg/errors"
)

const reaperInterval = 10 * time.Minute

// StartReaper schedules periodic purging of finished jobs older than
// retention.
func (m *Manager) StartReaper(retention time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, errors.WarrenMisc)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(reaperInterval),
		gocron.NewTask(m.purge, retention),
	)
	if err != nil {
		return errors.Wrap(err, errors.WarrenMisc)
	}

	scheduler.Start()

	m.mu.Lock()
	m.scheduler = scheduler
	m.mu.Unlock()

	m.logger.Info("Job reaper started",
		"interval", reaperInterval, "retention", retention)
	return nil
}

// Close stops the reaper scheduler
func (m *Manager) Close() error {
	m.mu.Lock()
	scheduler := m.scheduler
	m.scheduler = nil
	m.mu.Unlock()

	if scheduler == nil {
		return nil
	}
	return scheduler.Shutdown()
}
