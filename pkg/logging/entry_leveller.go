package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// EntryLeveller is a zapcore.Core that applies a minimum level per logger name. A name inherits the
// level of its closest configured parent: with `provider=warn`, the `provider.vpc` logger only logs
// warnings and above. The empty module sets the level of every other logger.
type EntryLeveller struct {
	zapcore.Core

	levels   map[string]zapcore.Level
	resolved *sync.Map // map[string]resolvedLevel, cache of the lookup for each logger name
}

type resolvedLevel struct {
	level zapcore.Level
	ok    bool
}

func NewEntryLeveller(core zapcore.Core, levels map[string]zapcore.Level) *EntryLeveller {
	copied := make(map[string]zapcore.Level, len(levels))
	for k, v := range levels {
		copied[k] = v
	}
	return &EntryLeveller{Core: core, levels: copied, resolved: &sync.Map{}}
}

func (el *EntryLeveller) With(fields []zapcore.Field) zapcore.Core {
	return &EntryLeveller{
		Core:     el.Core.With(fields),
		levels:   el.levels,
		resolved: el.resolved,
	}
}

// Enabled reports whether any logger could log at lvl. A module configured below the level of the
// wrapped core must still reach Check, which does the per-logger filtering.
func (el *EntryLeveller) Enabled(lvl zapcore.Level) bool {
	if el.Core.Enabled(lvl) {
		return true
	}
	for _, level := range el.levels {
		if level <= lvl {
			return true
		}
	}
	return false
}

// levelFor returns the configured level of the logger or its closest parent.
func (el *EntryLeveller) levelFor(name string) (zapcore.Level, bool) {
	if r, ok := el.resolved.Load(name); ok {
		res := r.(resolvedLevel)
		return res.level, res.ok
	}

	var res resolvedLevel
	for module := name; ; {
		if level, ok := el.levels[module]; ok {
			res = resolvedLevel{level: level, ok: true}
			break
		}
		if module == "" {
			break
		}
		if i := strings.LastIndex(module, "."); i >= 0 {
			module = module[:i]
		} else {
			module = ""
		}
	}
	el.resolved.Store(name, res)
	return res.level, res.ok
}

func (el *EntryLeveller) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	level, ok := el.levelFor(e.LoggerName)
	if !ok {
		return el.Core.Check(e, ce)
	}
	if e.Level < level {
		return ce
	}
	return ce.AddCore(e, el)
}
