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

package pool

import (
	"context"
	"fmt"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/constants"
	"github.com/stratastor/warren/pkg/errors"
)

// Activator enforces the single-active-pool invariant by sweeping the
// activation property across every imported pool.
type Activator struct {
	mgr    *Manager
	logger logger.Logger
}

func NewActivator(mgr *Manager, l logger.Logger) *Activator {
	return &Activator{mgr: mgr, logger: l}
}

// Activate marks the named pool active and deactivates every other pool.
// The sweep covers all pools as a single logical unit but offers no
// atomicity beyond per-pool property writes; a retry re-applies the full
// sweep, so last writer wins. The sweep runs even when the requested pool
// is unknown, deactivating everything before reporting PoolNotFound.
func (a *Activator) Activate(ctx context.Context, name string) error {
	names, err := a.mgr.ListNames(ctx)
	if err != nil {
		return err
	}

	found := false
	var sweepErr error
	for _, pool := range names {
		value := "no"
		if pool == name {
			value = "yes"
			found = true
		}

		if err := a.mgr.SetUserProperty(
			ctx, pool, constants.ActivePoolProperty, value,
		); err != nil {
			// Keep sweeping; the invariant is restored by a retry.
			a.logger.Error("Failed to set activation property",
				"pool", pool, "value", value, "error", err)
			if sweepErr == nil {
				sweepErr = err
			}
		}
	}

	if sweepErr != nil {
		return errors.Wrap(sweepErr, errors.PoolActivateFailed)
	}

	if !found {
		return errors.New(errors.PoolNotFound,
			fmt.Sprintf("pool %q not found", name))
	}

	return nil
}

// List returns every imported pool with its activation state
func (a *Activator) List(ctx context.Context) ([]Pool, error) {
	names, err := a.mgr.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	pools := make([]Pool, 0, len(names))
	for _, name := range names {
		value, err := a.mgr.GetUserProperty(ctx, name, constants.ActivePoolProperty)
		if err != nil {
			a.logger.Warn("Failed to read activation property", "pool", name, "error", err)
		}
		pools = append(pools, Pool{Name: name, Active: value == "yes"})
	}

	return pools, nil
}
