package clicommon

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/klothoplatform/cdkbridge/pkg/closenicely"
	"github.com/klothoplatform/cdkbridge/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CommonConfig struct {
	verbose   LevelledFlag
	jsonLog   bool
	color     string
	logsDir   string
	profileTo string
}

func (cfg *CommonConfig) LogOpts() logging.LogOpts {
	opts := logging.LogOpts{
		Verbose:         cfg.verbose > 0,
		Color:           cfg.color,
		CategoryLogsDir: cfg.logsDir,
		DefaultLevels:   logging.DefaultLevels,
	}
	if cfg.verbose > 1 {
		// -vv also shows every API request and resource
		opts.DefaultLevels = map[string]zapcore.Level{}
	}
	if cfg.jsonLog {
		opts.Encoding = "json"
	}
	return opts
}

func setupProfiling(commonCfg *CommonConfig) (func(), error) {
	if commonCfg.profileTo == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(commonCfg.profileTo), 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	profileF, err := os.OpenFile(commonCfg.profileTo, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(profileF); err != nil {
		closenicely.OrDebug(profileF, commonCfg.profileTo)
		return nil, fmt.Errorf("failed to start profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		closenicely.OrDebug(profileF, commonCfg.profileTo)
	}, nil
}

// SetupRoot adds the logging and profiling flags to root and installs the global logger before any
// subcommand runs.
func SetupRoot(root *cobra.Command, commonCfg *CommonConfig) {
	flags := root.PersistentFlags()
	flags.VarP(&commonCfg.verbose, "verbose", "v", "Enable verbose logging (repeat for request logs)")
	flags.Lookup("verbose").NoOptDefVal = "true"
	flags.BoolVar(&commonCfg.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.color, "color", "auto", "Colorize output: auto, always or never")
	flags.StringVar(&commonCfg.logsDir, "logs-dir", "", "Directory to write per-category logs to")
	flags.StringVar(&commonCfg.profileTo, "profiling", "", "Profile to file")

	profileClose := func() {}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log, err := commonCfg.LogOpts().NewLogger()
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(log)

		profileClose, err = setupProfiling(commonCfg)
		return err
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck

		profileClose()
	}
}
