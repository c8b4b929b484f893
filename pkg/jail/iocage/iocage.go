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

// Package iocage implements the jail backend on top of the iocage
// command line tool.
package iocage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail"
	"github.com/stratastor/warren/pkg/zfs/command"
)

// Executor abstracts command execution for testing
type Executor interface {
	Execute(ctx context.Context, opts command.CommandOptions, cmd string, args ...string) ([]byte, error)
}

// Manager drives the iocage CLI. It holds no jail state of its own; every
// call shells out and parses the result.
type Manager struct {
	executor Executor
	logger   logger.Logger

	mu   sync.Mutex
	pool string // active pool name, resolved once
}

func NewManager(executor Executor, l logger.Logger) *Manager {
	return &Manager{
		executor: executor,
		logger:   l,
	}
}

// listColumns is the column order of `iocage list -l -h`
const (
	colJID = iota
	colName
	colBoot
	colState
	colType
	colRelease
	colIP4
	colIP6
	colTemplate
	listColumns
)

func (m *Manager) List(ctx context.Context) ([]jail.Jail, error) {
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage list", "-l", "-h")
	if err != nil {
		return nil, errors.Wrap(err, errors.JailOperationFailed).
			WithMetadata("output", string(out))
	}

	var jails []jail.Jail
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < listColumns {
			m.logger.Debug("Skipping malformed list line", "line", line)
			continue
		}

		j := jail.Jail{
			ID:      fields[colName],
			Kind:    jail.Kind(fields[colType]),
			Release: fields[colRelease],
		}
		if fields[colJID] != "-" {
			j.JID = fields[colJID]
		}
		if fields[colIP4] != "-" {
			j.IP4 = fields[colIP4]
		}
		if strings.EqualFold(fields[colState], "up") ||
			strings.EqualFold(fields[colState], string(jail.StateRunning)) {
			j.State = jail.StateRunning
		} else {
			j.State = jail.StateStopped
		}
		jails = append(jails, j)
	}
	return jails, nil
}

func (m *Manager) Lookup(ctx context.Context, ident string) (string, string, error) {
	jails, err := m.List(ctx)
	if err != nil {
		return "", "", err
	}

	for _, j := range jails {
		if j.ID == ident || (j.JID != "" && j.JID == ident) {
			path, err := m.jailPath(ctx, j.ID)
			if err != nil {
				return "", "", err
			}
			return j.ID, path, nil
		}
	}
	return "", "", errors.New(errors.JailNotFound,
		fmt.Sprintf("no jail matches %q", ident))
}

// jailPath resolves the root mount point of a jail's dataset
func (m *Manager) jailPath(ctx context.Context, id string) (string, error) {
	pool, err := m.activePool(ctx)
	if err != nil {
		return "", err
	}

	ds := fmt.Sprintf("%s/iocage/jails/%s", pool, id)
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"zfs get", "-H", "-o", "value", "mountpoint", ds)
	if err != nil {
		return "", errors.Wrap(err, errors.JailOperationFailed).
			WithMetadata("dataset", ds)
	}
	return strings.TrimSpace(string(out)) + "/root", nil
}

func (m *Manager) activePool(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool != "" {
		return m.pool, nil
	}

	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage get", "-p")
	if err != nil {
		return "", errors.Wrap(err, errors.StorageUnavailable).
			WithMetadata("output", string(out))
	}
	m.pool = strings.TrimSpace(string(out))
	if m.pool == "" {
		return "", errors.New(errors.StorageUnavailable, "no active pool")
	}
	return m.pool, nil
}

func (m *Manager) LoadConfig(ctx context.Context, ident string) (jail.JailConfig, error) {
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage get", "all", ident)
	if err != nil {
		return jail.JailConfig{}, errors.Wrap(err, errors.JailConfigLoad).
			WithMetadata("output", string(out))
	}

	cfg := jail.JailConfig{Kind: jail.KindJail}
	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "release":
			cfg.Release = value
		case "type":
			cfg.Kind = jail.Kind(value)
		case "basejail":
			cfg.Basejail = value == "yes" || value == "on" || value == "1"
		}
	}
	return cfg, nil
}

func (m *Manager) RunState(ctx context.Context, ident string) (jail.RunState, error) {
	jails, err := m.List(ctx)
	if err != nil {
		return "", err
	}
	for _, j := range jails {
		if j.ID == ident {
			return j.State, nil
		}
	}
	return "", errors.New(errors.JailNotFound,
		fmt.Sprintf("no jail matches %q", ident))
}

func (m *Manager) Create(ctx context.Context, cfg jail.CreateConfig) error {
	args := []string{}
	if cfg.ID != "" {
		args = append(args, "-n", cfg.ID)
	}
	switch {
	case cfg.Template != "":
		args = append(args, "-t", cfg.Template)
	case cfg.Empty:
		args = append(args, "-e")
	default:
		args = append(args, "-r", cfg.Release)
	}
	if cfg.Basejail {
		args = append(args, "-b")
	}
	if cfg.Short {
		args = append(args, "-s")
	}
	if cfg.Pkglist != "" {
		args = append(args, "-p", cfg.Pkglist)
	}
	args = append(args, cfg.Properties...)

	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage create", args...)
	if err != nil {
		return errors.Wrap(err, errors.CreationFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Destroy(ctx context.Context, ident string) error {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Flags: command.FlagForce},
		"iocage destroy", ident)
	if err != nil {
		return errors.Wrap(err, errors.JailDestroyFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) SetProperty(ctx context.Context, ident, key, value string) error {
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage set", fmt.Sprintf("%s=%s", key, value), ident)
	if err != nil {
		return errors.Wrap(err, errors.PropertyInvalid).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Rename(ctx context.Context, ident, newName string) error {
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage rename", ident, newName)
	if err != nil {
		return errors.Wrap(err, errors.JailRenameFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Start(ctx context.Context, ident string) error {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage start", ident)
	if err != nil {
		return errors.Wrap(err, errors.JailStartFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Stop(ctx context.Context, ident string) error {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage stop", ident)
	if err != nil {
		return errors.Wrap(err, errors.JailStopFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Fetch(ctx context.Context, cfg jail.FetchConfig) error {
	var args []string
	if cfg.Name != "" {
		args = append(args, "-P", cfg.Name)
	} else {
		args = append(args, "-r", cfg.Release)
	}
	if cfg.Server != "" {
		args = append(args, "-s", cfg.Server)
	}
	if cfg.User != "" {
		args = append(args, "-u", cfg.User)
	}
	if cfg.Password != "" {
		args = append(args, "-p", cfg.Password)
	}
	for _, f := range cfg.Files {
		args = append(args, "-F", f)
	}
	args = append(args, cfg.Properties...)

	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage fetch", args...)
	if err != nil {
		return errors.Wrap(err, errors.JailFetchFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) ReleaseFetched(ctx context.Context, release string) (bool, error) {
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage list", "-r", "-h")
	if err != nil {
		return false, errors.Wrap(err, errors.JailOperationFailed).
			WithMetadata("output", string(out))
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if strings.TrimSpace(strings.Split(line, "\t")[0]) == release {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) FetchUpdate(ctx context.Context, release, ident string) error {
	var cmd string
	var args []string
	if ident == "" {
		// Patch only the base release datasets
		cmd = "iocage fetch"
		args = []string{"-r", release, "-U"}
	} else {
		cmd = "iocage update"
		args = []string{ident}
	}

	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout}, cmd, args...)
	if err != nil {
		return errors.Wrap(err, errors.JailUpdateFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Upgrade(ctx context.Context, ident, release string) error {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage upgrade", "-r", release, ident)
	if err != nil {
		return errors.Wrap(err, errors.JailUpgradeFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Export(ctx context.Context, ident string) error {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage export", ident)
	if err != nil {
		return errors.Wrap(err, errors.JailExportFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Import(ctx context.Context, ident string) error {
	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage import", ident)
	if err != nil {
		return errors.Wrap(err, errors.JailImportFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) Fstab(
	ctx context.Context,
	ident string,
	cfg jail.FstabConfig,
) ([]jail.FstabEntry, error) {
	line := strings.TrimSpace(strings.Join([]string{
		cfg.Source, cfg.Destination, cfg.FSType, cfg.Options, cfg.Dump, cfg.Pass,
	}, " "))

	var args []string
	switch cfg.Action {
	case jail.FstabAdd:
		args = append([]string{"-a", ident}, strings.Fields(line)...)
	case jail.FstabRemove:
		args = []string{"-r", ident}
		if cfg.Index != nil {
			args = append(args, strconv.Itoa(*cfg.Index))
		} else {
			args = append(args, strings.Fields(line)...)
		}
	case jail.FstabReplace:
		args = append([]string{"-R", strconv.Itoa(*cfg.Index), ident},
			strings.Fields(line)...)
	case jail.FstabList:
		args = []string{"-l", ident}
	case jail.FstabEdit:
		return nil, errors.New(errors.JailValidation,
			"interactive fstab edit is not supported")
	default:
		return nil, errors.New(errors.JailValidation,
			fmt.Sprintf("unknown fstab action %q", cfg.Action))
	}

	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage fstab", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.JailOperationFailed).
			WithMetadata("output", string(out))
	}

	if cfg.Action != jail.FstabList {
		return nil, nil
	}
	return parseFstabList(string(out)), nil
}

// parseFstabList reads "index<ws>line" rows, one per fstab entry
func parseFstabList(out string) []jail.FstabEntry {
	var entries []jail.FstabEntry
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		entries = append(entries, jail.FstabEntry{
			Index: idx,
			Key:   fields[0],
			Line:  strings.Join(fields[1:], " "),
		})
	}
	return entries
}

func (m *Manager) Exec(
	ctx context.Context,
	ident string,
	cmd []string,
	hostUser, jailUser string,
) ([]byte, error) {
	var args []string
	if hostUser != "" {
		args = append(args, "-u", hostUser)
	}
	if jailUser != "" {
		args = append(args, "-U", jailUser)
	}
	args = append(args, ident, "--")
	args = append(args, cmd...)

	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Timeout: command.LongTimeout},
		"iocage exec", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.JailExecFailed).
			WithMetadata("output", string(out))
	}
	return out, nil
}

func (m *Manager) Clean(ctx context.Context, scope jail.CleanScope) error {
	var flag string
	switch scope {
	case jail.CleanAll:
		flag = "-a"
	case jail.CleanJail:
		flag = "-j"
	case jail.CleanTemplate:
		flag = "-t"
	default:
		return errors.New(errors.JailValidation,
			fmt.Sprintf("unknown clean scope %q", scope))
	}

	out, err := m.executor.Execute(ctx,
		command.CommandOptions{Flags: command.FlagForce},
		"iocage clean", flag)
	if err != nil {
		return errors.Wrap(err, errors.JailCleanFailed).
			WithMetadata("output", string(out))
	}
	return nil
}

func (m *Manager) ListResource(
	ctx context.Context,
	cfg jail.ListResourceConfig,
) ([][]string, error) {
	var args []string
	switch cfg.Resource {
	case jail.ResourceRelease:
		if cfg.Remote {
			args = []string{"-R", "-h"}
		} else {
			args = []string{"-r", "-h"}
		}
	case jail.ResourceTemplate:
		args = []string{"-t", "-l", "-h"}
	case jail.ResourcePlugin:
		args = []string{"-P", "-h"}
		if cfg.Remote {
			args = append(args, "-R")
		}
	default:
		return nil, errors.New(errors.JailValidation,
			fmt.Sprintf("unknown resource type %q", cfg.Resource))
	}

	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage list", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.JailOperationFailed).
			WithMetadata("output", string(out))
	}

	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// EnsureDatasets probes the iocage dataset hierarchy. iocage creates its
// datasets lazily on first use, so a successful list means the hierarchy
// is usable.
func (m *Manager) EnsureDatasets(ctx context.Context) error {
	if _, err := m.activePool(ctx); err != nil {
		return err
	}
	out, err := m.executor.Execute(ctx, command.CommandOptions{},
		"iocage list", "-h")
	if err != nil {
		return errors.Wrap(err, errors.StorageUnavailable).
			WithMetadata("output", string(out))
	}
	return nil
}

var _ jail.Backend = (*Manager)(nil)
