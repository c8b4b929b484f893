package jail

// RunState is the observable run state of a jail
type RunState string

const (
	StateStopped RunState = "stopped"
	StateRunning RunState = "running"
)

// Kind classifies a jail definition
type Kind string

const (
	KindJail     Kind = "jail"
	KindBasejail Kind = "basejail"
	KindTemplate Kind = "template"
)

// Runnable reports whether a jail of this kind can be started
func (k Kind) Runnable() bool {
	return k == KindJail || k == KindBasejail
}

// Jail represents a jail and its live attributes
type Jail struct {
	ID         string            `json:"id"`
	JID        string            `json:"jid,omitempty"`
	Path       string            `json:"path"`
	State      RunState          `json:"state"`
	Kind       Kind              `json:"kind"`
	Release    string            `json:"release"`
	IP4        string            `json:"ip4,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// JailConfig is the persisted per-jail configuration relevant to
// orchestration decisions
type JailConfig struct {
	Release  string `json:"release"`
	Kind     Kind   `json:"kind"`
	Basejail bool   `json:"basejail"`
}

// CreateConfig describes a jail to create
type CreateConfig struct {
	Release    string   `json:"release"`
	Template   string   `json:"template"`
	Pkglist    string   `json:"pkglist"`
	ID         string   `json:"id"` // optional explicit identifier
	Basejail   bool     `json:"basejail"`
	Empty      bool     `json:"empty"`
	Short      bool     `json:"short"`
	Properties []string `json:"properties"` // key=value pairs, applied in order
}

// FetchConfig describes a release or plugin image fetch
type FetchConfig struct {
	Release    string   `json:"release"`
	Server     string   `json:"server"`
	User       string   `json:"user"`
	Password   string   `json:"password"`
	Name       string   `json:"name"` // plugin name; set implies a plugin fetch
	Accept     bool     `json:"accept"`
	Properties []string `json:"properties"`
	Files      []string `json:"files"`
}

// Target returns the lock key target for the fetch: the plugin name when
// set, the release otherwise.
func (c FetchConfig) Target() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Release
}

// UpdateConfig carries property writes and an optional rename. Rename is
// applied last because property keys may reference the old identifier.
type UpdateConfig struct {
	Properties []string `json:"properties"` // key=value pairs, applied in order
	Name       string   `json:"name"`       // new identifier, optional
	Plugin     bool     `json:"plugin"`
}

// FstabAction enumerates fstab mutations
type FstabAction string

const (
	FstabAdd     FstabAction = "add"
	FstabEdit    FstabAction = "edit"
	FstabRemove  FstabAction = "remove"
	FstabReplace FstabAction = "replace"
	FstabList    FstabAction = "list"
)

// FstabConfig describes one fstab operation
type FstabConfig struct {
	Action      FstabAction `json:"action"      binding:"required"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	FSType      string      `json:"fstype"`
	Options     string      `json:"options"`
	Dump        string      `json:"dump"`
	Pass        string      `json:"pass"`
	Index       *int        `json:"index"` // required for Replace
}

// FstabEntry is one ordered line of a jail's fstab
type FstabEntry struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Line  string `json:"line"`
}

// ExecConfig describes a command run inside a jail
type ExecConfig struct {
	Command  []string `json:"command"  binding:"required"`
	HostUser string   `json:"host_user"`
	JailUser string   `json:"jail_user"`
}

// ResourceType enumerates listable image resources
type ResourceType string

const (
	ResourceRelease  ResourceType = "release"
	ResourceTemplate ResourceType = "template"
	ResourcePlugin   ResourceType = "plugin"
)

// ListResourceConfig selects which resources to list
type ListResourceConfig struct {
	Resource ResourceType `json:"resource" binding:"required"`
	Remote   bool         `json:"remote"`
}

// CleanScope selects which dataset group Clean destroys
type CleanScope string

const (
	CleanAll      CleanScope = "all"
	CleanJail     CleanScope = "jail"
	CleanTemplate CleanScope = "template"
	CleanRelease  CleanScope = "release"
)

// Filter is one predicate over a jail attribute. Field names match the
// Jail JSON keys; unknown fields fall through to property lookup.
type Filter struct {
	Field string `json:"field" binding:"required"`
	Op    string `json:"op"    binding:"required"`
	Value string `json:"value"`
}

// QueryOptions controls sorting and pagination of query results
type QueryOptions struct {
	Sort   string `json:"sort"`
	Order  string `json:"order"` // asc or desc
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// QueryConfig is the full inventory query request
type QueryConfig struct {
	Filters []Filter     `json:"filters"`
	Options QueryOptions `json:"options"`
}
