package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var _ Store = (*FileStore)(nil)

// FileStore persists room histories as one JSON file per room under a base
// directory. It is the zero-dependency alternative to RedisStore for small
// deployments, and backs tests via afero's in-memory filesystem.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a FileStore rooted at dir on the given filesystem.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir %q: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// path maps a room to its file. Room names are externally supplied, so the
// key is escaped to keep it a single path element.
func (s *FileStore) path(room string) string {
	return filepath.Join(s.dir, url.PathEscape(Key(room))+".json")
}

// Get returns the history for a room, oldest first.
func (s *FileStore) Get(ctx context.Context, room string) ([]Message, error) {
	data, err := afero.ReadFile(s.fs, s.path(room))
	if os.IsNotExist(err) {
		return []Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for room %q: %w", room, err)
	}

	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("malformed history for room %q: %w", room, err)
	}
	return msgs, nil
}

// Put replaces the stored history for a room.
func (s *FileStore) Put(ctx context.Context, room string, msgs []Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to encode history for room %q: %w", room, err)
	}
	if err := afero.WriteFile(s.fs, s.path(room), data, 0o644); err != nil {
		return fmt.Errorf("failed to write history for room %q: %w", room, err)
	}
	return nil
}

// Clear resets the stored history for a room to empty.
func (s *FileStore) Clear(ctx context.Context, room string) error {
	return s.Put(ctx, room, []Message{})
}

// Close is a no-op for the file-backed store.
func (s *FileStore) Close() error {
	return nil
}
