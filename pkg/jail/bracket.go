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

package jail

import (
	"context"

	"github.com/stratastor/warren/pkg/errors"
)

// bracket runs body with the jail in required run state and restores the
// original state afterward, even when body fails or the context is
// cancelled. A restore failure is logged and attached to the primary error
// as metadata; it never masks the primary error.
func (m *Manager) bracket(
	ctx context.Context,
	ident string,
	required RunState,
	body func(context.Context) error,
) error {
	current, err := m.backend.RunState(ctx, ident)
	if err != nil {
		return errors.Wrap(err, errors.JailOperationFailed)
	}

	transitioned := false
	if current != required {
		if err := m.transition(ctx, ident, required); err != nil {
			return err
		}
		transitioned = true
	}

	err = body(ctx)

	if transitioned {
		// Restore must run on cancellation too; detach from ctx so a
		// cancelled job cannot leave the jail in the altered state.
		restoreCtx := context.WithoutCancel(ctx)
		if rerr := m.transition(restoreCtx, ident, current); rerr != nil {
			m.logger.Error("Failed to restore jail run state",
				"jail", ident, "state", current, "error", rerr)
			if err != nil {
				if we, ok := err.(*errors.WarrenError); ok {
					we.WithMetadata("restore_error", rerr.Error())
				}
			} else {
				err = rerr
			}
		}
	}

	return err
}

func (m *Manager) transition(ctx context.Context, ident string, state RunState) error {
	switch state {
	case StateRunning:
		if err := m.backend.Start(ctx, ident); err != nil {
			return errors.Wrap(err, errors.JailStartFailed)
		}
	case StateStopped:
		if err := m.backend.Stop(ctx, ident); err != nil {
			return errors.Wrap(err, errors.JailStopFailed)
		}
	}
	return nil
}
