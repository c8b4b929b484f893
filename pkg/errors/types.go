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

package errors

import "net/http"

const (
	DomainConfig    Domain = "CONFIG"
	DomainServer    Domain = "SERVER"
	DomainCommand   Domain = "CMD"
	DomainHealth    Domain = "HEALTH"
	DomainLifecycle Domain = "LIFECYCLE"
	DomainJail      Domain = "JAIL"
	DomainPool      Domain = "POOL"
	DomainJob       Domain = "JOB"
	DomainPeer      Domain = "PEER"
	DomainMisc      Domain = "MISC"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

type WarrenError struct {
	Code    ErrorCode `json:"code"`
	Domain  Domain    `json:"domain"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	HTTPStatus int `json:"-"`

	// Metadata carries contextual information that doesn't fit the standard
	// error fields: command output, identifiers, secondary errors attached
	// by cleanup paths. Serialized in API responses.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error code ranges:
// 1000-1099: Configuration errors
// 1100-1199: Server errors
// 1300-1399: Command execution
// 1400-1499: Health check
// 1500-1599: Lifecycle management
// 1600-1699: Warren errors
// 2000-2099: Jail operations
// 2100-2199: Pool operations
// 2200-2299: Job management
// 2300-2399: Peer records
const (
	// Configuration Errors (1000-1099)
	ConfigNotFound         = 1000 + iota // Config file not found
	ConfigInvalid                        // Invalid config format
	ConfigLoadFailed                     // Failed to load config
	ConfigWriteFailed                    // Failed to write config
	ConfigPermissionDenied               // Permission denied accessing config
	ConfigDirectoryError                 // Config directory error
	ConfigValidationFailed               // Config validation failed
	ConfigMarshalFailed                  // Config serialization failed
	ConfigUnmarshalFailed                // Config deserialization failed
)

const (
	// Server Errors (1100-1199)
	ServerStart             = 1100 + iota // Failed to start server
	ServerShutdown                        // Error during shutdown
	ServerBind                            // Failed to bind port
	ServerTimeout                         // Operation timeout
	ServerMiddleware                      // Middleware error
	ServerRouting                         // Routing error
	ServerRequestValidation               // Request validation failed
	ServerResponseError                   // Response generation error
	ServerContextCancelled                // Context cancelled
	ServerInternalError
)

const (
	// Command Execution (1300-1399)
	CommandNotFound     = 1300 + iota // Command not found
	CommandExecution                  // Execution failed
	CommandTimeout                    // Command timed out
	CommandPermission                 // Permission denied
	CommandInvalidInput               // Invalid command input
	CommandOutputParse                // Output parsing failed
	CommandContext                    // Context handling error
	CommandPipe                       // Command pipe error
)

const (
	// Health Check (1400-1499)
	HealthCheckFailed   = 1400 + iota // Health check failed
	HealthCheckTimeout                // Health check timed out
	HealthCheckEndpoint               // Endpoint error
	HealthCheckClient                 // Client error
)

const (
	// Lifecycle Management (1500-1599)
	LifecyclePID      = 1500 + iota // PID file operation failed
	LifecycleShutdown               // Shutdown process error
	LifecycleSignal                 // Signal handling error
	LifecycleDaemon                 // Daemon operation failed
)

const (
	// Warren Errors (1600-1699)
	WarrenMisc = 1600 + iota // Miscellaneous program error
	FSError
	LoggerError // Logger error
)

var errorDefinitions = map[ErrorCode]struct {
	message    string
	domain     Domain
	httpStatus int
}{
	// Configuration errors
	ConfigNotFound: {"Configuration file not found", DomainConfig, http.StatusNotFound},
	ConfigInvalid:  {"Invalid configuration format", DomainConfig, http.StatusBadRequest},
	ConfigLoadFailed: {
		"Failed to load configuration",
		DomainConfig,
		http.StatusInternalServerError,
	},
	ConfigWriteFailed: {
		"Failed to write configuration",
		DomainConfig,
		http.StatusInternalServerError,
	},
	ConfigPermissionDenied: {
		"Permission denied accessing config",
		DomainConfig,
		http.StatusForbidden,
	},
	ConfigDirectoryError: {
		"Config directory error",
		DomainConfig,
		http.StatusInternalServerError,
	},
	ConfigValidationFailed: {
		"Config validation failed",
		DomainConfig,
		http.StatusBadRequest,
	},
	ConfigMarshalFailed: {
		"Config serialization failed",
		DomainConfig,
		http.StatusInternalServerError,
	},
	ConfigUnmarshalFailed: {
		"Config deserialization failed",
		DomainConfig,
		http.StatusInternalServerError,
	},

	// Server errors
	ServerStart:    {"Failed to start server", DomainServer, http.StatusInternalServerError},
	ServerShutdown: {"Error during shutdown", DomainServer, http.StatusInternalServerError},
	ServerBind:     {"Failed to bind port", DomainServer, http.StatusInternalServerError},
	ServerTimeout:  {"Operation timeout", DomainServer, http.StatusGatewayTimeout},
	ServerMiddleware: {
		"Middleware error",
		DomainServer,
		http.StatusInternalServerError,
	},
	ServerRouting: {"Routing error", DomainServer, http.StatusInternalServerError},
	ServerRequestValidation: {
		"Request validation failed",
		DomainServer,
		http.StatusBadRequest,
	},
	ServerResponseError: {
		"Response generation error",
		DomainServer,
		http.StatusInternalServerError,
	},
	ServerContextCancelled: {
		"Context cancelled",
		DomainServer,
		http.StatusServiceUnavailable,
	},
	ServerInternalError: {
		"Internal server error",
		DomainServer,
		http.StatusInternalServerError,
	},

	// Command execution errors
	CommandNotFound:  {"Command not found", DomainCommand, http.StatusInternalServerError},
	CommandExecution: {"Command execution failed", DomainCommand, http.StatusInternalServerError},
	CommandTimeout:   {"Command timed out", DomainCommand, http.StatusGatewayTimeout},
	CommandPermission: {
		"Permission denied executing command",
		DomainCommand,
		http.StatusForbidden,
	},
	CommandInvalidInput: {"Invalid command input", DomainCommand, http.StatusBadRequest},
	CommandOutputParse: {
		"Command output parsing failed",
		DomainCommand,
		http.StatusInternalServerError,
	},
	CommandContext: {"Command context error", DomainCommand, http.StatusInternalServerError},
	CommandPipe:    {"Command pipe error", DomainCommand, http.StatusInternalServerError},

	// Health check errors
	HealthCheckFailed:   {"Health check failed", DomainHealth, http.StatusServiceUnavailable},
	HealthCheckTimeout:  {"Health check timed out", DomainHealth, http.StatusGatewayTimeout},
	HealthCheckEndpoint: {"Health check endpoint error", DomainHealth, http.StatusBadGateway},
	HealthCheckClient:   {"Health check client error", DomainHealth, http.StatusInternalServerError},

	// Lifecycle errors
	LifecyclePID: {
		"PID file operation failed",
		DomainLifecycle,
		http.StatusInternalServerError,
	},
	LifecycleShutdown: {
		"Shutdown process error",
		DomainLifecycle,
		http.StatusInternalServerError,
	},
	LifecycleSignal: {
		"Signal handling error",
		DomainLifecycle,
		http.StatusInternalServerError,
	},
	LifecycleDaemon: {
		"Daemon operation failed",
		DomainLifecycle,
		http.StatusInternalServerError,
	},

	// Warren errors
	WarrenMisc:  {"Miscellaneous program error", DomainMisc, http.StatusInternalServerError},
	FSError:     {"Filesystem operation failed", DomainMisc, http.StatusInternalServerError},
	LoggerError: {"Logger error", DomainMisc, http.StatusInternalServerError},
}
