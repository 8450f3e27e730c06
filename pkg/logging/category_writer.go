package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// CategoryWriter is a zapcore.Core that writes every entry to `<dir>/<category>.log`, where the category
// is the first segment of the logger name (`provider.vpc` goes to `provider.log`). Entries from the
// root logger are not written. Files are truncated the first time they are opened.
type CategoryWriter struct {
	Encoder     zapcore.Encoder
	LogRootPath string

	files *categoryFiles
}

type categoryFiles struct {
	mu    sync.Mutex
	files map[string]*os.File
}

func NewCategoryWriter(enc zapcore.Encoder, logRootPath string) *CategoryWriter {
	return &CategoryWriter{
		Encoder:     enc,
		LogRootPath: logRootPath,
		files:       &categoryFiles{files: make(map[string]*os.File)},
	}
}

func (c *CategoryWriter) Enabled(zapcore.Level) bool {
	return true
}

func (c *CategoryWriter) With(fields []zapcore.Field) zapcore.Core {
	clone := &CategoryWriter{
		Encoder:     c.Encoder.Clone(),
		LogRootPath: c.LogRootPath,
		files:       c.files,
	}
	for _, f := range fields {
		f.AddTo(clone.Encoder)
	}
	return clone
}

func (c *CategoryWriter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

// category splits a logger name into the file category and the remaining name.
func category(loggerName string) (string, string) {
	categ, rest, _ := strings.Cut(loggerName, ".")
	categ = strings.TrimSpace(categ)
	categ = strings.ReplaceAll(categ, string(os.PathSeparator), "_")
	return categ, rest
}

func (c *CategoryWriter) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	categ, rest := category(ent.LoggerName)
	if categ == "" {
		return nil
	}
	f, err := c.files.open(c.LogRootPath, categ)
	if err != nil {
		return err
	}

	ent.LoggerName = rest
	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	if ent.Level > zapcore.ErrorLevel {
		return f.Sync()
	}
	return nil
}

func (cf *categoryFiles) open(dir, categ string) (*os.File, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if f, ok := cf.files[categ]; ok {
		return f, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, categ+".log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	cf.files[categ] = f
	return f, nil
}

func (c *CategoryWriter) Sync() error {
	c.files.mu.Lock()
	defer c.files.mu.Unlock()
	var errs error
	for _, f := range c.files.files {
		errs = errors.Join(errs, f.Sync())
	}
	return errs
}
