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

// Package jail orchestrates the lifecycle of jails on a ZFS-backed dataset
// hierarchy. It serializes state-mutating operations per jail, brackets
// operations that need a specific run state, and delegates the actual
// dataset/process work to an injected Backend.
package jail

import (
	"context"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail/locker"
	"github.com/stratastor/warren/pkg/jobs"
	"golang.org/x/sync/singleflight"
)

// FetchDefaults fill in unset fetch request fields
type FetchDefaults struct {
	Server   string
	User     string
	Password string
	Files    []string
}

// FstabListEntry pairs an fstab key with its option tokens, in insertion
// order.
type FstabListEntry struct {
	Key     string   `json:"key"`
	Options []string `json:"options"`
}

// Manager composes the resolver, dataset checker, lock manager and
// run-state bracket into the lifecycle operations.
type Manager struct {
	backend       Backend
	locks         *locker.Locker
	jobs          *jobs.Manager
	logger        logger.Logger
	fetchGroup    singleflight.Group
	fetchDefaults FetchDefaults
}

func NewManager(
	backend Backend,
	locks *locker.Locker,
	jobMgr *jobs.Manager,
	l logger.Logger,
	defaults FetchDefaults,
) *Manager {
	return &Manager{
		backend:       backend,
		locks:         locks,
		jobs:          jobMgr,
		logger:        l,
		fetchDefaults: defaults,
	}
}

// resolve maps a user-supplied identifier to its canonical identifier and
// dataset mount point. Runs before any lock is acquired so a doomed
// operation never holds a slot.
func (m *Manager) resolve(ctx context.Context, ident string) (string, string, error) {
	id, path, err := m.backend.Lookup(ctx, ident)
	if err != nil {
		return "", "", errors.New(errors.JailNotFound,
			fmt.Sprintf("jail %q not found", ident))
	}
	return id, path, nil
}

// Get returns a single jail addressed by name or JID, using the same
// resolution as the mutating operations.
func (m *Manager) Get(ctx context.Context, ident string) (Jail, error) {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return Jail{}, err
	}
	jails := m.Query(ctx, QueryConfig{
		Filters: []Filter{{Field: "id", Op: "=", Value: id}},
	})
	if len(jails) == 0 {
		return Jail{}, errors.New(errors.JailNotFound,
			fmt.Sprintf("jail %q not found", ident))
	}
	return jails[0], nil
}

// checkDatasets verifies the dataset hierarchy before image reads/writes
func (m *Manager) checkDatasets(ctx context.Context) error {
	if err := m.backend.EnsureDatasets(ctx); err != nil {
		return errors.Wrap(err, errors.StorageUnavailable)
	}
	return nil
}

// Query enumerates known jails and applies filter/sort/pagination. Backend
// failures are suppressed: listing returns empty rather than erroring, an
// availability-over-correctness choice carried over deliberately. Results
// are a best-effort snapshot since reads take no locks.
func (m *Manager) Query(ctx context.Context, cfg QueryConfig) []Jail {
	jails, err := m.backend.List(ctx)
	if err != nil {
		m.logger.Debug("Backend failed to list jails, returning empty", "error", err)
		return []Jail{}
	}

	return applyQuery(jails, cfg)
}

// Create submits a jail creation job and returns its handle. When the
// requested release image is absent and the jail is neither template-based
// nor empty, the release is fetched first under the fetch lock.
func (m *Manager) Create(cfg CreateConfig) (string, error) {
	target := cfg.ID
	if target == "" {
		target = cfg.Release
	}

	return m.jobs.Submit(jobs.KindCreate, target, func(ctx context.Context) (interface{}, error) {
		if err := m.checkDatasets(ctx); err != nil {
			return nil, err
		}

		release := cfg.Release
		if cfg.Template != "" {
			release = cfg.Template
		}

		if cfg.Template == "" && !cfg.Empty {
			fetched, err := m.backend.ReleaseFetched(ctx, release)
			if err != nil {
				return nil, errors.Wrap(err, errors.StorageUnavailable)
			}
			if !fetched {
				fetchCfg := m.withFetchDefaults(FetchConfig{Release: release})
				if err := m.fetchImage(ctx, fetchCfg); err != nil {
					return nil, errors.New(errors.ImageMissing,
						fmt.Sprintf("release %q not found: %v", release, err))
				}
			}
		}

		if err := m.backend.Create(ctx, cfg); err != nil {
			return nil, errors.Wrap(err, errors.CreationFailed)
		}

		return true, nil
	})
}

// Fetch submits a release/plugin image fetch job. The lock key is the
// release (or plugin name) so two fetches of the same image cannot race on
// partial downloads; re-fetching a present release refreshes it.
func (m *Manager) Fetch(cfg FetchConfig) (string, error) {
	cfg = m.withFetchDefaults(cfg)

	return m.jobs.Submit(jobs.KindFetch, cfg.Target(), func(ctx context.Context) (interface{}, error) {
		if err := m.checkDatasets(ctx); err != nil {
			return nil, err
		}
		if err := m.backend.Fetch(ctx, cfg); err != nil {
			return nil, errors.Wrap(err, errors.JailFetchFailed)
		}
		return true, nil
	})
}

// fetchImage performs a synchronous, lock-protected fetch on behalf of
// Create. Concurrent fetches of the same target collapse onto a single
// download; every waiter observes its result.
func (m *Manager) fetchImage(ctx context.Context, cfg FetchConfig) error {
	_, err, _ := m.fetchGroup.Do(cfg.Target(), func() (interface{}, error) {
		key := locker.Key{Op: jobs.KindFetch, Target: cfg.Target()}
		return nil, m.locks.WithLock(ctx, key, func() error {
			return m.backend.Fetch(ctx, cfg)
		})
	})
	return err
}

func (m *Manager) withFetchDefaults(cfg FetchConfig) FetchConfig {
	if cfg.Server == "" {
		cfg.Server = m.fetchDefaults.Server
	}
	if cfg.User == "" {
		cfg.User = m.fetchDefaults.User
	}
	if cfg.Password == "" {
		cfg.Password = m.fetchDefaults.Password
	}
	if len(cfg.Files) == 0 {
		cfg.Files = m.fetchDefaults.Files
	}
	return cfg
}

// Update applies property writes in order, then the optional rename.
// Rename runs last because property keys may reference the old identifier.
func (m *Manager) Update(ctx context.Context, ident string, cfg UpdateConfig) error {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return err
	}

	for _, prop := range cfg.Properties {
		key, value, ok := strings.Cut(prop, "=")
		if !ok || key == "" {
			return errors.New(errors.JailValidation,
				fmt.Sprintf("malformed property %q, want key=value", prop))
		}
		if err := m.backend.SetProperty(ctx, id, key, value); err != nil {
			return errors.Wrap(err, errors.PropertyInvalid).
				WithMetadata("property", key)
		}
	}

	if cfg.Name != "" {
		if err := m.backend.Rename(ctx, id, cfg.Name); err != nil {
			return errors.Wrap(err, errors.JailRenameFailed)
		}
	}

	return nil
}

// Delete destroys the jail's dataset subtree. Irreversible. Dependent
// children are not checked here; callers are responsible for verifying
// none exist.
func (m *Manager) Delete(ctx context.Context, ident string) error {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return err
	}

	if err := m.backend.Destroy(ctx, id); err != nil {
		return errors.Wrap(err, errors.JailDestroyFailed)
	}
	return nil
}

// Start starts the jail's process supervisor
func (m *Manager) Start(ctx context.Context, ident string) error {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return err
	}
	return m.transition(ctx, id, StateRunning)
}

// Stop stops the jail
func (m *Manager) Stop(ctx context.Context, ident string) error {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return err
	}
	return m.transition(ctx, id, StateStopped)
}

// Fstab applies one fstab action. Replace requires an index; the check
// runs before delegation so a missing index never silently defaults.
func (m *Manager) Fstab(
	ctx context.Context,
	ident string,
	cfg FstabConfig,
) ([]FstabListEntry, error) {
	if cfg.Action == FstabReplace && cfg.Index == nil {
		return nil, errors.New(errors.FstabIndexRequired,
			"index must be set when replacing an fstab entry")
	}

	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return nil, err
	}

	entries, err := m.backend.Fstab(ctx, id, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.JailOperationFailed)
	}

	if cfg.Action != FstabList {
		return nil, nil
	}

	out := make([]FstabListEntry, 0, len(entries))
	for _, e := range entries {
		tokens, err := shellquote.Split(e.Line)
		if err != nil {
			// Unbalanced quotes in a hand-edited fstab; fall back to
			// whitespace splitting rather than dropping the entry.
			tokens = strings.Fields(e.Line)
		}
		out = append(out, FstabListEntry{
			Key:     e.Key,
			Options: tokens,
		})
	}
	return out, nil
}

// Exec runs a command inside the jail and returns its combined output.
// Single-token commands may carry shell operators, so they are wrapped in
// a shell invocation.
func (m *Manager) Exec(ctx context.Context, ident string, cfg ExecConfig) (string, error) {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return "", err
	}

	command := cfg.Command
	if len(command) == 1 {
		command = append([]string{"/bin/sh", "-c"}, command...)
	}

	hostUser := cfg.HostUser
	if hostUser == "" {
		hostUser = "root"
	}
	if cfg.JailUser != "" && hostUser == "root" {
		hostUser = ""
	}

	out, err := m.backend.Exec(ctx, id, command, hostUser, cfg.JailUser)
	if err != nil {
		return "", errors.Wrap(err, errors.JailExecFailed)
	}
	return string(out), nil
}

// ListResource lists local or remote releases, templates or plugins.
// Backend "-" sentinels are normalized to empty values.
func (m *Manager) ListResource(ctx context.Context, cfg ListResourceConfig) ([][]string, error) {
	switch cfg.Resource {
	case ResourceRelease, ResourceTemplate, ResourcePlugin:
	default:
		return nil, errors.New(errors.JailValidation,
			fmt.Sprintf("unknown resource type %q", cfg.Resource))
	}

	if err := m.checkDatasets(ctx); err != nil {
		return nil, err
	}

	rows, err := m.backend.ListResource(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.JailOperationFailed)
	}

	for _, row := range rows {
		for i, cell := range row {
			if cell == "-" {
				row[i] = ""
			}
		}
	}
	return rows, nil
}

// Clean destroys the datasets of the requested scope. The release scope is
// a deliberate no-op, matching the behavior this layer coordinates.
func (m *Manager) Clean(ctx context.Context, scope CleanScope) error {
	switch scope {
	case CleanAll, CleanJail, CleanTemplate:
		if err := m.backend.Clean(ctx, scope); err != nil {
			return errors.Wrap(err, errors.JailCleanFailed)
		}
		return nil
	case CleanRelease:
		return nil
	default:
		return errors.New(errors.JailValidation,
			fmt.Sprintf("unknown clean scope %q", scope))
	}
}

// UpdateToLatestPatch submits a job updating the jail to the latest patch
// level of its release. The jail is brought up for the update and restored
// afterward; templates report not applicable.
func (m *Manager) UpdateToLatestPatch(ctx context.Context, ident string) (string, error) {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return "", err
	}

	return m.jobs.Submit(jobs.KindUpdate, id, func(ctx context.Context) (interface{}, error) {
		conf, err := m.backend.LoadConfig(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.JailConfigLoad)
		}
		if conf.Kind == KindTemplate {
			return false, nil
		}

		release := normalizeRelease(conf.Release)

		err = m.bracket(ctx, id, StateRunning, func(ctx context.Context) error {
			target := id
			if conf.Basejail {
				// Basejails only need their base release updated.
				target = ""
			}
			if err := m.backend.FetchUpdate(ctx, release, target); err != nil {
				return errors.Wrap(err, errors.JailUpdateFailed)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return true, nil
	})
}

// Upgrade submits a job upgrading the jail to the target release
func (m *Manager) Upgrade(ctx context.Context, ident, release string) (string, error) {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return "", err
	}

	return m.jobs.Submit(jobs.KindUpgrade, id, func(ctx context.Context) (interface{}, error) {
		conf, err := m.backend.LoadConfig(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.JailConfigLoad)
		}
		if conf.Kind == KindTemplate {
			return false, nil
		}

		err = m.bracket(ctx, id, StateRunning, func(ctx context.Context) error {
			if err := m.backend.Upgrade(ctx, id, release); err != nil {
				return errors.Wrap(err, errors.JailUpgradeFailed)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return true, nil
	})
}

// Export submits a job archiving the jail. The jail is stopped for the
// export and restored to its prior run state even when archiving fails.
func (m *Manager) Export(ctx context.Context, ident string) (string, error) {
	id, _, err := m.resolve(ctx, ident)
	if err != nil {
		return "", err
	}

	return m.jobs.Submit(jobs.KindExport, id, func(ctx context.Context) (interface{}, error) {
		conf, err := m.backend.LoadConfig(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.JailConfigLoad)
		}
		if conf.Kind == KindTemplate {
			return false, nil
		}

		err = m.bracket(ctx, id, StateStopped, func(ctx context.Context) error {
			if err := m.backend.Export(ctx, id); err != nil {
				return errors.Wrap(err, errors.JailExportFailed)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return true, nil
	})
}

// Import submits a job creating a jail from an archive. No bracketing: the
// jail does not exist yet.
func (m *Manager) Import(ident string) (string, error) {
	return m.jobs.Submit(jobs.KindImport, ident, func(ctx context.Context) (interface{}, error) {
		if err := m.backend.Import(ctx, ident); err != nil {
			return nil, errors.Wrap(err, errors.JailImportFailed)
		}
		return true, nil
	})
}

// normalizeRelease strips a trailing channel suffix, keeping the stripped
// form only when it still names a RELEASE channel. A jail without an
// existing patch level may record "11.1" instead of "11.1-RELEASE".
func normalizeRelease(release string) string {
	stripped := release
	if i := strings.LastIndex(release, "-"); i >= 0 {
		stripped = release[:i]
	}
	if strings.Contains(stripped, "-RELEASE") {
		return stripped
	}
	return release
}
