// pkg/zfs/command/constants.go

package command

import "time"

const (
	// Base commands
	BinZFS    = "/usr/local/sbin/zfs"
	BinZpool  = "/usr/local/sbin/zpool"
	BinIocage = "/usr/local/bin/iocage"

	// Default timeout for command execution
	DefaultTimeout = 30 * time.Second

	// Long-running subcommands (fetch, upgrade, export) get a wider timeout
	LongTimeout = 2 * time.Hour
)

// Commands that support JSON output
var JSONSupportedCommands = map[string]bool{
	"zfs get":       true,
	"zfs list":      true,
	"zfs version":   true,
	"zpool get":     true,
	"zpool list":    true,
	"zpool status":  true,
	"zpool version": true,
}

// Commands that require sudo
var SudoRequiredCommands = map[string]bool{
	"zfs create":      true,
	"zfs destroy":     true,
	"zfs rename":      true,
	"zfs set":         true,
	"zpool set":       true,
	"iocage create":   true,
	"iocage destroy":  true,
	"iocage fetch":    true,
	"iocage start":    true,
	"iocage stop":     true,
	"iocage set":      true,
	"iocage rename":   true,
	"iocage update":   true,
	"iocage upgrade":  true,
	"iocage export":   true,
	"iocage import":   true,
	"iocage fstab":    true,
	"iocage exec":     true,
	"iocage clean":    true,
	"iocage activate": true,
}
