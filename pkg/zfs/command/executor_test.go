package command

import (
	"testing"

	"github.com/stratastor/logger"
	"github.com/stretchr/testify/assert"
)

func newTestExecutor(t *testing.T, useSudo bool) *CommandExecutor {
	t.Helper()
	return NewCommandExecutor(useSudo, logger.Config{LogLevel: "error"})
}

func TestBuildCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		useSudo bool
		cmd     string
		opts    CommandOptions
		args    []string
		want    []string
	}{
		{
			name: "zfs get with headers disabled",
			cmd:  "zfs get",
			opts: CommandOptions{Flags: FlagNoHeaders},
			args: []string{"-o", "value", "mountpoint", "tank/iocage"},
			want: []string{BinZFS, "get", "-H", "-o", "value", "mountpoint", "tank/iocage"},
		},
		{
			name:    "sudo prefixes privileged iocage command",
			useSudo: true,
			cmd:     "iocage destroy",
			opts:    CommandOptions{Flags: FlagForce},
			args:    []string{"web1"},
			want:    []string{"sudo", BinIocage, "destroy", "-f", "web1"},
		},
		{
			name:    "sudo skipped for read-only command",
			useSudo: true,
			cmd:     "zpool list",
			opts:    CommandOptions{Flags: FlagNoHeaders},
			want:    []string{BinZpool, "list", "-H"},
		},
		{
			name: "json flag only for supporting commands",
			cmd:  "iocage list",
			opts: CommandOptions{Flags: FlagJSON},
			want: []string{BinIocage, "list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor(t, tt.useSudo)
			got := e.buildCommandArgs(tt.cmd, tt.opts, tt.args...)
			assert.Equal(t, tt.want, got)
		})
	}
}
