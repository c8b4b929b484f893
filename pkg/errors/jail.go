// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"maps"
	"net/http"
)

// Jail Operation Error Codes (2000-2099)
const (
	JailNotFound        = 2000 + iota // Jail not found
	JailValidation                    // Malformed or missing required field
	StorageUnavailable                // Dataset precondition cannot be satisfied
	ImageMissing                      // Required release absent and unfetchable
	CreationFailed                    // Jail creation failed
	JailOperationFailed               // Wrapped failure from the jail engine
	PropertyInvalid                   // Property key unrecognized by the backend
	FstabIndexRequired                // Replace without an index
	JailNotApplicable                 // Operation not applicable to this jail kind
	JailStartFailed                   // Failed to start jail
	JailStopFailed                    // Failed to stop jail
	JailExecFailed                    // Command execution inside jail failed
	JailExportFailed                  // Jail export failed
	JailImportFailed                  // Jail import failed
	JailUpgradeFailed                 // Jail upgrade failed
	JailUpdateFailed                  // Jail update failed
	JailFetchFailed                   // Release fetch failed
	JailCleanFailed                   // Dataset clean failed
	JailRenameFailed                  // Jail rename failed
	JailDestroyFailed                 // Jail destroy failed
	JailConfigLoad                    // Failed to load jail config
)

// Pool Operation Error Codes (2100-2199)
const (
	PoolNotFound       = 2100 + iota // Pool not found
	PoolListFailed                   // Failed to list pools
	PoolActivateFailed               // Pool activation failed
	PoolPropertyFailed               // Pool property operation failed
)

// Job Management Error Codes (2200-2299)
const (
	JobNotFound       = 2200 + iota // Job not found
	JobConflict                     // Conflicting job already in flight
	JobCancelled                    // Job was cancelled
	JobNotCancellable               // Job can no longer be cancelled
	JobSubmitFailed                 // Job submission failed
)

// Peer Record Error Codes (2300-2399)
const (
	PeerNotFound     = 2300 + iota // Peer record not found
	PeerStoreFailed                // Peer store operation failed
	PeerInvalidInput               // Invalid peer record input
)

func init() {
	jailErrorDefinitions := map[ErrorCode]struct {
		message    string
		domain     Domain
		httpStatus int
	}{
		// Jail error definitions
		JailNotFound: {
			"Jail not found",
			DomainJail,
			http.StatusNotFound,
		},
		JailValidation: {
			"Invalid jail request",
			DomainJail,
			http.StatusBadRequest,
		},
		StorageUnavailable: {
			"Jail dataset hierarchy unavailable",
			DomainJail,
			http.StatusServiceUnavailable,
		},
		ImageMissing: {
			"Release image not found",
			DomainJail,
			http.StatusNotFound,
		},
		CreationFailed: {
			"Jail creation failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailOperationFailed: {
			"Jail operation failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		PropertyInvalid: {
			"Invalid jail property",
			DomainJail,
			http.StatusBadRequest,
		},
		FstabIndexRequired: {
			"Fstab replace requires an index",
			DomainJail,
			http.StatusBadRequest,
		},
		JailNotApplicable: {
			"Operation not applicable to this jail kind",
			DomainJail,
			http.StatusUnprocessableEntity,
		},
		JailStartFailed: {
			"Failed to start jail",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailStopFailed: {
			"Failed to stop jail",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailExecFailed: {
			"Command execution inside jail failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailExportFailed: {
			"Jail export failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailImportFailed: {
			"Jail import failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailUpgradeFailed: {
			"Jail upgrade failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailUpdateFailed: {
			"Jail update failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailFetchFailed: {
			"Release fetch failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailCleanFailed: {
			"Dataset clean failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailRenameFailed: {
			"Jail rename failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailDestroyFailed: {
			"Jail destroy failed",
			DomainJail,
			http.StatusInternalServerError,
		},
		JailConfigLoad: {
			"Failed to load jail config",
			DomainJail,
			http.StatusInternalServerError,
		},

		// Pool error definitions
		PoolNotFound: {
			"Pool not found",
			DomainPool,
			http.StatusNotFound,
		},
		PoolListFailed: {
			"Failed to list pools",
			DomainPool,
			http.StatusInternalServerError,
		},
		PoolActivateFailed: {
			"Pool activation failed",
			DomainPool,
			http.StatusInternalServerError,
		},
		PoolPropertyFailed: {
			"Pool property operation failed",
			DomainPool,
			http.StatusInternalServerError,
		},

		// Job error definitions
		JobNotFound: {
			"Job not found",
			DomainJob,
			http.StatusNotFound,
		},
		JobConflict: {
			"Conflicting job already in flight",
			DomainJob,
			http.StatusConflict,
		},
		JobCancelled: {
			"Job was cancelled",
			DomainJob,
			http.StatusConflict,
		},
		JobNotCancellable: {
			"Job can no longer be cancelled",
			DomainJob,
			http.StatusConflict,
		},
		JobSubmitFailed: {
			"Job submission failed",
			DomainJob,
			http.StatusInternalServerError,
		},

		// Peer error definitions
		PeerNotFound: {
			"Peer record not found",
			DomainPeer,
			http.StatusNotFound,
		},
		PeerStoreFailed: {
			"Peer store operation failed",
			DomainPeer,
			http.StatusInternalServerError,
		},
		PeerInvalidInput: {
			"Invalid peer record input",
			DomainPeer,
			http.StatusBadRequest,
		},
	}

	maps.Copy(errorDefinitions, jailErrorDefinitions)
}
