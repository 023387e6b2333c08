package filesystem

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the two entry types held by the registry.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// ContentID identifies a file's byte buffer in the content store.
//
// IDs are minted once per file creation and never reused, so a removed
// file's descriptor keeps pointing at an ID that no longer resolves.
type ContentID uuid.UUID

func newContentID() ContentID {
	return ContentID(uuid.New())
}

func (id ContentID) String() string {
	return uuid.UUID(id).String()
}

// Entry is a registered file or directory record.
//
// Entries are capability tokens, not values: the registry hands out exactly
// one object per path, and every operation that accepts an Entry rejects
// anything that is not the currently registered object. A structurally
// equal copy is not a valid descriptor, and a descriptor for a removed
// path stays allocated but is rejected on use.
type Entry interface {
	// Kind reports whether the entry is a file or a directory.
	Kind() Kind

	// FullPath returns the slash-joined path the entry was registered
	// under. The root directory's path is the empty string.
	FullPath() string
}

// DirectoryEntry is the registry record for a directory.
type DirectoryEntry struct {
	fullPath string
}

func newDirectoryEntry(fullPath string) *DirectoryEntry {
	return &DirectoryEntry{fullPath: fullPath}
}

func (e *DirectoryEntry) Kind() Kind {
	return KindDirectory
}

func (e *DirectoryEntry) FullPath() string {
	return e.fullPath
}

// FileEntry is the registry record for a file.
//
// Size and LastModified are mutated in place by write operations, so a
// descriptor held across writes observes the current state. The content
// itself lives in the FileSystem's content store, keyed by ContentID.
type FileEntry struct {
	fullPath     string
	size         uint64
	lastModified time.Time
	contentID    ContentID
}

func newFileEntry(fullPath string, size uint64, now time.Time) *FileEntry {
	return &FileEntry{
		fullPath:     fullPath,
		size:         size,
		lastModified: now,
		contentID:    newContentID(),
	}
}

func (e *FileEntry) Kind() Kind {
	return KindFile
}

func (e *FileEntry) FullPath() string {
	return e.fullPath
}

// Size returns the file's current size in bytes.
func (e *FileEntry) Size() uint64 {
	return e.size
}

// LastModified returns the time of the last content write.
func (e *FileEntry) LastModified() time.Time {
	return e.lastModified
}

// ContentID returns the content-store key for this file.
func (e *FileEntry) ContentID() ContentID {
	return e.contentID
}
