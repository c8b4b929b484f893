// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.0.1-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	WarrenVersion     = "v0.0.1"
	WarrenPIDFilePath = "/var/run/warren.pid"

	// config
	ConfigFileName = "warren.yml"

	// ActivePoolProperty is the ZFS user property marking the active pool.
	// Kept compatible with iocage so existing activations are honored.
	ActivePoolProperty = "org.freebsd.ioc:active"

	// routes
	APIVersion = "v1"
	APIBase    = "/api/" + APIVersion + "/warren"

	// APIJails is the base path for jail lifecycle endpoints
	APIJails = APIBase + "/jails"

	// APIPools is the base path for storage pool endpoints
	APIPools = APIBase + "/pools"

	// APIJobs is the base path for background job endpoints
	APIJobs = APIBase + "/jobs"

	// APIPeers is the base path for peer record endpoints
	APIPeers = APIBase + "/peers"

	// APIReleases is the base path for release/plugin image endpoints
	APIReleases = APIBase + "/releases"
)
