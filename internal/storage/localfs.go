package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

var prettyOptions = &pretty.Options{
	Indent:   "    ",
	SortKeys: false,
}

// LocalFS writes JSON documents into a single output directory
type LocalFS struct {
	basePath string
	log      *zap.Logger
}

// NewLocalFS creates a LocalFS rooted at basePath. The directory is created
// lazily on the first write.
func NewLocalFS(basePath string, log *zap.Logger) *LocalFS {
	return &LocalFS{basePath: basePath, log: log}
}

// Dir returns the output directory
func (l *LocalFS) Dir() string {
	return l.basePath
}

func (l *LocalFS) ensureDir() error {
	info, err := os.Stat(l.basePath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s is not a directory", l.basePath)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking output directory: %w", err)
	}

	if err := os.MkdirAll(l.basePath, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	l.log.Info("created output directory", zap.String("dir", l.basePath))
	return nil
}

// WriteJSON pretty-prints data (which must already be valid JSON) and writes
// it to name inside the output directory, replacing any existing file.
// Key order, number literals and non-ASCII text are kept as received.
func (l *LocalFS) WriteJSON(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := l.ensureDir(); err != nil {
		return "", err
	}

	path := filepath.Join(l.basePath, name)
	if err := os.WriteFile(path, pretty.PrettyOptions(data, prettyOptions), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
