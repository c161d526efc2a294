package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Saver persists an exported artifact and returns where it was written.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileSaver writes artifacts into Dir, creating it when missing.
type FileSaver struct {
	Dir string
}

// Save writes data to Dir/name.
func (s FileSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
