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
	"strings"

	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/zfs/command"
)

// Executor runs zfs/zpool commands. Satisfied by command.CommandExecutor;
// tests script it.
type Executor interface {
	Execute(
		ctx context.Context,
		opts command.CommandOptions,
		cmd string,
		args ...string,
	) ([]byte, error)
}

// Manager manages ZFS pool operations
type Manager struct {
	executor Executor
}

func NewManager(executor Executor) *Manager {
	return &Manager{executor: executor}
}

// ListNames returns the names of all imported pools
func (p *Manager) ListNames(ctx context.Context) ([]string, error) {
	args := []string{"-H", "-o", "name"}

	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zpool list", args...)
	if err != nil {
		if len(out) > 0 {
			return nil, errors.Wrap(err, errors.PoolListFailed).
				WithMetadata("output", string(out))
		}
		return nil, errors.Wrap(err, errors.PoolListFailed)
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}

	return names, nil
}

// GetUserProperty reads a user property from the pool's root dataset
func (p *Manager) GetUserProperty(ctx context.Context, name, property string) (string, error) {
	args := []string{"-H", "-o", "value", property, name}

	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zfs get", args...)
	if err != nil {
		return "", errors.Wrap(err, errors.PoolPropertyFailed).
			WithMetadata("pool", name).
			WithMetadata("property", property)
	}

	return strings.TrimSpace(string(out)), nil
}

// SetUserProperty sets a user property on the pool's root dataset
func (p *Manager) SetUserProperty(ctx context.Context, name, property, value string) error {
	args := []string{fmt.Sprintf("%s=%s", property, value), name}

	out, err := p.executor.Execute(ctx, command.CommandOptions{}, "zfs set", args...)
	if err != nil {
		if len(out) > 0 {
			return errors.Wrap(err, errors.PoolPropertyFailed).
				WithMetadata("output", string(out))
		}
		return errors.Wrap(err, errors.PoolPropertyFailed).
			WithMetadata("pool", name).
			WithMetadata("property", property)
	}

	return nil
}
