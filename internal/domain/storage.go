package domain

import (
	"context"
	"io"
	"strconv"
)

// MaterialStore stores uploaded material content. Keys are namespaced per
// event ("<eventID>/<filename>") so same-named uploads on different events
// cannot clobber each other.
type MaterialStore interface {
	// Save writes content under the key, replacing any previous content.
	Save(ctx context.Context, key string, content io.Reader) error
	// Open returns a reader over the stored content, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat reports whether the key exists and the stored size in bytes.
	Stat(ctx context.Context, key string) (exists bool, size int64, err error)
	// RemoveAll deletes every key under the given prefix. Missing prefixes
	// are a no-op.
	RemoveAll(ctx context.Context, prefix string) error
}

// MaterialKey builds the store key for an event's material file.
func MaterialKey(eventID int64, filename string) string {
	return strconv.FormatInt(eventID, 10) + "/" + filename
}

// MaterialPrefix is the store prefix holding all of an event's materials.
func MaterialPrefix(eventID int64) string {
	return strconv.FormatInt(eventID, 10) + "/"
}
