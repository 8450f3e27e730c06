package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	prettyconsole "github.com/thessem/zap-prettyconsole"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LogOpts struct {
	Verbose bool
	// Color is one of "auto", "always"/"on" or "never"/"off".
	Color string
	// CategoryLogsDir, when set, additionally writes each top-level logger ("provider", "aws", "synth", ...)
	// to its own file in this directory.
	CategoryLogsDir string
	// Encoding is "console" (default) or "json".
	Encoding      string
	DefaultLevels map[string]zapcore.Level
}

// DefaultLevels quiets the per-request and per-resource logs unless asked for with `LOG_LEVEL`.
var DefaultLevels = map[string]zapcore.Level{
	"aws.request": zapcore.InfoLevel,
	"synth":       zapcore.InfoLevel,
}

func (opts LogOpts) useColor() bool {
	switch opts.Color {
	case "never", "off":
		return false
	case "always", "on":
		return true
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

func (opts LogOpts) Encoder() (zapcore.Encoder, error) {
	switch opts.Encoding {
	case "json":
		cfg := zap.NewProductionEncoderConfig()
		if opts.Verbose {
			cfg = zap.NewDevelopmentEncoderConfig()
		}
		return zapcore.NewJSONEncoder(cfg), nil

	case "console", "pretty_console", "":
		color := opts.useColor()
		if color {
			cfg := prettyconsole.NewEncoderConfig()
			cfg.EncodeTime = TimeOffsetFormatter(time.Now(), color)
			return prettyconsole.NewEncoder(cfg), nil
		}
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = TimeOffsetFormatter(time.Now(), color)
		return zapcore.NewConsoleEncoder(cfg), nil
	}
	return nil, fmt.Errorf("unknown log encoding %q", opts.Encoding)
}

// Levels returns the per-module levels: `LOG_LEVEL` (eg `provider=debug,aws.request=warn`) if set,
// otherwise the configured defaults.
func (opts LogOpts) Levels() map[string]zapcore.Level {
	env, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		return opts.DefaultLevels
	}
	return ParseLevels(env)
}

// ParseLevels parses comma-separated `module=level` pairs, skipping malformed entries.
func ParseLevels(s string) map[string]zapcore.Level {
	levels := make(map[string]zapcore.Level)
	for _, pair := range strings.Split(s, ",") {
		module, lvl, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			continue
		}
		levels[module] = level
	}
	return levels
}

func (opts LogOpts) NewCore(w zapcore.WriteSyncer) (zapcore.Core, error) {
	enc, err := opts.Encoder()
	if err != nil {
		return nil, err
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Verbose {
		level.SetLevel(zap.DebugLevel)
	}
	core := zapcore.NewCore(enc, w, level)

	if levels := opts.Levels(); len(levels) > 0 {
		core = NewEntryLeveller(core, levels)
	}

	if opts.CategoryLogsDir != "" {
		categoryEnc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if opts.Encoding == "json" {
			categoryEnc = zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
		}
		core = zapcore.NewTee(core, NewCategoryWriter(categoryEnc, opts.CategoryLogsDir))
	}
	return core, nil
}

func (opts LogOpts) NewLogger() (*zap.Logger, error) {
	core, err := opts.NewCore(zapcore.Lock(os.Stderr))
	if err != nil {
		return nil, err
	}
	return zap.New(core), nil
}

// TimeOffsetFormatter returns a time encoder that formats the time as an offset from the start time,
// which reads better than wall-clock time for a short-lived CLI run.
func TimeOffsetFormatter(start time.Time, color bool) zapcore.TimeEncoder {
	colStart, colEnd := "\x1b[90m", "\x1b[0m"
	if !color {
		colStart, colEnd = "", ""
	}
	return func(t time.Time, e zapcore.PrimitiveArrayEncoder) {
		diff := t.Sub(start)
		switch {
		case diff < time.Second:
			e.AppendString(fmt.Sprintf(" %s%3dms%s", colStart, diff.Milliseconds(), colEnd))
		case diff < 5*time.Minute:
			e.AppendString(fmt.Sprintf("%s%5.1fs%s", colStart, diff.Seconds(), colEnd))
		default:
			e.AppendString(fmt.Sprintf("%s%5.1fm%s", colStart, diff.Minutes(), colEnd))
		}
	}
}
