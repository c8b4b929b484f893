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

// Package peers persists SSH peer credentials used for jail migration and
// remote image pulls.
package peers

import "time"

// Peer is one stored SSH peer record
type Peer struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	SSHPort           int       `json:"ssh_port"`
	SSHRemoteHostname string    `json:"ssh_remote_hostname"`
	SSHRemoteUser     string    `json:"ssh_remote_user"`
	SSHRemoteHostkey  string    `json:"ssh_remote_hostkey"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PeerInput is the mutable portion of a peer record
type PeerInput struct {
	Name              string `json:"name"                binding:"required"`
	Description       string `json:"description"`
	SSHPort           int    `json:"ssh_port"`
	SSHRemoteHostname string `json:"ssh_remote_hostname" binding:"required"`
	SSHRemoteUser     string `json:"ssh_remote_user"`
	SSHRemoteHostkey  string `json:"ssh_remote_hostkey"`
}
