package jail

import "context"

// Backend is the capability set of the external jail/dataset engine. The
// orchestration layer coordinates it but does not own it; a fake
// implementation with controlled failures backs the tests.
type Backend interface {
	// List enumerates every known jail with live attributes
	List(ctx context.Context) ([]Jail, error)

	// Lookup resolves an identifier to its canonical identifier and
	// dataset mount point
	Lookup(ctx context.Context, ident string) (id string, path string, err error)

	// LoadConfig reads the persisted per-jail configuration
	LoadConfig(ctx context.Context, ident string) (JailConfig, error)

	// RunState reports whether the jail is running
	RunState(ctx context.Context, ident string) (RunState, error)

	Create(ctx context.Context, cfg CreateConfig) error
	Destroy(ctx context.Context, ident string) error
	SetProperty(ctx context.Context, ident, key, value string) error
	Rename(ctx context.Context, ident, newName string) error
	Start(ctx context.Context, ident string) error
	Stop(ctx context.Context, ident string) error

	// Fetch downloads a release or plugin image into the release datasets
	Fetch(ctx context.Context, cfg FetchConfig) error

	// ReleaseFetched reports whether the release image is present locally
	ReleaseFetched(ctx context.Context, release string) (bool, error)

	// FetchUpdate applies the latest patches for release. A non-empty
	// ident patches that jail; an empty ident patches only the base
	// release datasets (the basejail case).
	FetchUpdate(ctx context.Context, release, ident string) error

	Upgrade(ctx context.Context, ident, release string) error
	Export(ctx context.Context, ident string) error
	Import(ctx context.Context, ident string) error

	// Fstab applies one fstab mutation; for FstabList the returned slice
	// holds the entries in insertion order
	Fstab(ctx context.Context, ident string, cfg FstabConfig) ([]FstabEntry, error)

	// Exec runs a command inside the jail and returns combined output
	Exec(ctx context.Context, ident string, command []string, hostUser, jailUser string) ([]byte, error)

	Clean(ctx context.Context, scope CleanScope) error

	// ListResource lists local or remote releases/templates/plugins as
	// rows of descriptor columns
	ListResource(ctx context.Context, cfg ListResourceConfig) ([][]string, error)

	// EnsureDatasets idempotently verifies/creates the dataset hierarchy
	EnsureDatasets(ctx context.Context) error
}
