package clicommon

import (
	"testing"

	"github.com/klothoplatform/cdkbridge/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelledFlag(t *testing.T) {
	tests := []struct {
		name  string
		sets  []string
		want  LevelledFlag
		isErr bool
	}{
		{name: "once", sets: []string{"true"}, want: 1},
		{name: "twice", sets: []string{"true", "true"}, want: 2},
		{name: "decrement", sets: []string{"true", "true", "false"}, want: 1},
		{name: "never negative", sets: []string{"false"}, want: 0},
		{name: "explicit", sets: []string{"3"}, want: 3},
		{name: "invalid", sets: []string{"loud"}, isErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f LevelledFlag
			var err error
			for _, s := range tt.sets {
				if err = f.Set(s); err != nil {
					break
				}
			}
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestCommonConfig_LogOpts(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logging.LogOpts
	}{
		{
			name: "defaults",
			want: logging.LogOpts{Color: "auto", DefaultLevels: logging.DefaultLevels},
		},
		{
			name: "verbose json",
			args: []string{"-v", "--json-log"},
			want: logging.LogOpts{Verbose: true, Color: "auto", Encoding: "json", DefaultLevels: logging.DefaultLevels},
		},
		{
			name: "very verbose",
			args: []string{"-vv", "--color", "never", "--logs-dir", "logs"},
			want: logging.LogOpts{
				Verbose:         true,
				Color:           "never",
				CategoryLogsDir: "logs",
				DefaultLevels:   map[string]zapcore.Level{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg CommonConfig
			root := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
			SetupRoot(root, &cfg)
			require.NoError(t, root.PersistentFlags().Parse(tt.args))

			assert.Equal(t, tt.want, cfg.LogOpts())
		})
	}
}
