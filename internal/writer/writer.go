// SPDX-License-Identifier: MPL-2.0

package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Writer persists image bytes atomically, creating parent directories as
// needed.
type Writer struct {
	logger *log.Logger
}

// New creates a Writer logging through the given logger.
func New(logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Writer{logger: logger.WithPrefix("writer")}
}

// Write atomically replaces path with data. The temporary file lives in
// the destination directory so the final rename never crosses filesystems.
func (w *Writer) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".termframe-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// Best-effort cleanup; gone already on the success path.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", tmpName, path, err)
	}

	w.logger.Debug("wrote image", "path", path, "bytes", len(data))
	return nil
}
