// Package filesystem implements the in-memory virtual filesystem at the
// core of the mock: a hierarchical entry registry, a content store, and
// disk-space accounting.
//
// The FileSystem is the single source of truth for existence, type, and
// size of every entry. It performs no name validation beyond path syntax
// (the handle adapters validate names before calling in) and no permission
// checks (the permissions manager gates operations above this layer).
package filesystem

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alxcube/fsa-mock/internal/bufutil"
	"github.com/alxcube/fsa-mock/internal/logger"
	"github.com/alxcube/fsa-mock/pkg/paths"
)

// FileSystem owns the entry registry, the content store, and the disk
// quota.
//
// Storage Model:
//
//  1. Registry (entries):
//     Maps full paths to their Entry. The root path "" is always present,
//     always a directory, and never removable. Entry objects are handed
//     out as capability tokens; see Entry.
//
//  2. Content Store (contents):
//     Maps a file's ContentID to its byte buffer. Every registered file
//     has exactly one content record; removing the file removes the
//     record, which is what invalidates descriptors still held by
//     callers.
//
//  3. Disk quota (totalSpace):
//     A single ceiling over the sum of all content buffer lengths.
//     Usage is computed on demand as a sum over the content store rather
//     than tracked incrementally, so it can never drift from the buffers
//     actually stored. Unlimited is the default.
//
// Failure Discipline:
// Every operation validates (existence, type, quota) before mutating, so a
// rejected call leaves no partial state behind.
//
// Thread Safety:
// All operations are protected by a single read-write mutex. The mock is
// normally driven from one test goroutine, but nothing here breaks under
// concurrent use.
type FileSystem struct {
	// mu protects entries, contents, and totalSpace.
	mu sync.RWMutex

	// entries maps full path to its registered Entry.
	entries map[string]Entry

	// contents maps a file's ContentID to its byte buffer.
	contents map[ContentID][]byte

	// totalSpace is the disk quota in bytes, or Unlimited.
	totalSpace uint64
}

// New creates a FileSystem containing only the root directory, with the
// given disk quota. Pass Unlimited for no quota.
func New(totalSpace uint64) *FileSystem {
	fs := &FileSystem{
		entries:    make(map[string]Entry),
		contents:   make(map[ContentID][]byte),
		totalSpace: totalSpace,
	}
	fs.entries[""] = newDirectoryEntry("")
	return fs
}

// ============================================================================
// Existence and Type Queries
// ============================================================================

// Exists reports whether any entry is registered at path.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.entries[path]
	return ok
}

// IsDirectory reports whether path is a registered directory. Absent
// paths report false.
func (fs *FileSystem) IsDirectory(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entry, ok := fs.entries[path]
	return ok && entry.Kind() == KindDirectory
}

// IsFile reports whether path is a registered file. Absent paths report
// false.
func (fs *FileSystem) IsFile(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entry, ok := fs.entries[path]
	return ok && entry.Kind() == KindFile
}

// GetDescriptor returns the entry registered at path, if any.
func (fs *FileSystem) GetDescriptor(path string) (Entry, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entry, ok := fs.entries[path]
	return entry, ok
}

// IsValidDescriptor reports whether entry is the exact object currently
// registered at its path.
//
// This is an identity check, not a structural one: a copy of a valid
// descriptor is invalid, and a descriptor whose path has been removed (or
// removed and re-created) is invalid even though the object itself is
// unchanged.
func (fs *FileSystem) IsValidDescriptor(entry Entry) bool {
	if entry == nil {
		return false
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	registered, ok := fs.entries[entry.FullPath()]
	return ok && registered == entry
}

// ============================================================================
// Directory Operations
// ============================================================================

// MakeDirectory registers a new directory at path.
//
// The immediate parent must already exist unless recursive is set, in
// which case the missing directory chain is created. Fails if path is
// already registered, and fails with ErrTypeMismatch if any ancestor
// segment is a file. The root "" is implicit and cannot be created.
func (fs *FileSystem) MakeDirectory(path string, recursive bool) (*DirectoryEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.entries[path]; ok {
		return nil, fmt.Errorf("make directory %q: %w", path, ErrExists)
	}

	return fs.makeDirectoryLocked(path, recursive)
}

// makeDirectoryLocked creates the directory, walking up the path to
// create missing ancestors when recursive is set. Caller holds mu and has
// verified path itself is absent.
func (fs *FileSystem) makeDirectoryLocked(path string, recursive bool) (*DirectoryEntry, error) {
	parent := paths.Parent(path)

	parentEntry, parentExists := fs.entries[parent]
	switch {
	case parentExists && parentEntry.Kind() != KindDirectory:
		return nil, fmt.Errorf("make directory %q: ancestor %q is a file: %w", path, parent, ErrTypeMismatch)

	case !parentExists && !recursive:
		return nil, fmt.Errorf("make directory %q: parent %q: %w", path, parent, ErrNotFound)

	case !parentExists:
		if _, err := fs.makeDirectoryLocked(parent, true); err != nil {
			return nil, err
		}
	}

	entry := newDirectoryEntry(path)
	fs.entries[path] = entry

	logger.Debug("filesystem: created directory %q", path)
	return entry, nil
}

// GetDirectoryDescriptor returns the directory entry at path.
//
// Fails with ErrTypeMismatch if path holds a file. If the path is absent
// and create is set, the whole directory chain is created; without
// create, absence is ErrNotFound. The root path always resolves.
func (fs *FileSystem) GetDirectoryDescriptor(path string, create bool) (*DirectoryEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if entry, ok := fs.entries[path]; ok {
		dir, isDir := entry.(*DirectoryEntry)
		if !isDir {
			return nil, fmt.Errorf("get directory %q: %w", path, ErrTypeMismatch)
		}
		return dir, nil
	}

	if !create {
		return nil, fmt.Errorf("get directory %q: %w", path, ErrNotFound)
	}

	return fs.makeDirectoryLocked(path, true)
}

// GetChildPaths returns the paths of the direct children of path, sorted.
func (fs *FileSystem) GetChildPaths(path string) []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	children := make([]string, 0)
	for candidate := range fs.entries {
		if paths.IsDirectChild(candidate, path) {
			children = append(children, candidate)
		}
	}

	sort.Strings(children)
	return children
}

// ChildEntry pairs a child path with its registry entry.
type ChildEntry struct {
	Path  string
	Entry Entry
}

// GetChildEntries returns the direct children of path with their entries,
// sorted by path.
func (fs *FileSystem) GetChildEntries(path string) []ChildEntry {
	childPaths := fs.GetChildPaths(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries := make([]ChildEntry, 0, len(childPaths))
	for _, childPath := range childPaths {
		entries = append(entries, ChildEntry{Path: childPath, Entry: fs.entries[childPath]})
	}
	return entries
}

// GetDescendantPaths returns every registered path that is a strict
// descendant of path, sorted. The root returns everything except itself.
func (fs *FileSystem) GetDescendantPaths(path string) []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.descendantPathsLocked(path)
}

func (fs *FileSystem) descendantPathsLocked(path string) []string {
	descendants := make([]string, 0)
	for candidate := range fs.entries {
		if paths.IsDescendant(candidate, path) {
			descendants = append(descendants, candidate)
		}
	}

	sort.Strings(descendants)
	return descendants
}

// ============================================================================
// File Operations
// ============================================================================

// CreateFile registers a new file at path with a zero-filled buffer of
// size bytes.
//
// Missing parent directories are created. Fails if path is already
// registered, and fails with ErrQuotaExceeded if size exceeds free space.
// LastModified is set to the creation time.
func (fs *FileSystem) CreateFile(path string, size uint64) (*FileEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.entries[path]; ok {
		return nil, fmt.Errorf("create file %q: %w", path, ErrExists)
	}

	if size > fs.freeSpaceLocked() {
		return nil, fmt.Errorf("create file %q (%d bytes): %w", path, size, ErrQuotaExceeded)
	}

	parent := paths.Parent(path)
	if _, ok := fs.entries[parent]; !ok {
		if _, err := fs.makeDirectoryLocked(parent, true); err != nil {
			return nil, err
		}
	} else if fs.entries[parent].Kind() != KindDirectory {
		return nil, fmt.Errorf("create file %q: ancestor %q is a file: %w", path, parent, ErrTypeMismatch)
	}

	entry := newFileEntry(path, size, time.Now())
	fs.entries[path] = entry
	fs.contents[entry.contentID] = make([]byte, size)

	logger.Debug("filesystem: created file %q (%d bytes)", path, size)
	return entry, nil
}

// GetFileDescriptor returns the file entry at path.
//
// Fails with ErrTypeMismatch if path holds a directory. If the path is
// absent and create is set, an empty file is created; without create,
// absence is ErrNotFound.
func (fs *FileSystem) GetFileDescriptor(path string, create bool) (*FileEntry, error) {
	fs.mu.RLock()
	entry, ok := fs.entries[path]
	fs.mu.RUnlock()

	if ok {
		file, isFile := entry.(*FileEntry)
		if !isFile {
			return nil, fmt.Errorf("get file %q: %w", path, ErrTypeMismatch)
		}
		return file, nil
	}

	if !create {
		return nil, fmt.Errorf("get file %q: %w", path, ErrNotFound)
	}

	return fs.CreateFile(path, 0)
}

// ReadFile returns a copy of the file's current content.
//
// The descriptor must be the currently registered object for its path;
// stale descriptors (removed paths) and structural copies fail with
// ErrNotFound.
func (fs *FileSystem) ReadFile(entry *FileEntry) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := fs.contentForLocked(entry)
	if err != nil {
		return nil, err
	}
	return bufutil.Clone(data), nil
}

// WriteFile replaces the file's content, updating Size and LastModified
// on the descriptor in place.
//
// Fails with ErrNotFound for stale or copied descriptors, and with
// ErrQuotaExceeded if the new content does not fit in free space plus the
// file's current footprint.
func (fs *FileSystem) WriteFile(entry *FileEntry, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	current, err := fs.contentForLocked(entry)
	if err != nil {
		return err
	}

	// The file's own buffer is reclaimed by the replacement, so it counts
	// as available room.
	available := fs.freeSpaceLocked()
	if available != Unlimited {
		available += uint64(len(current))
	}
	if uint64(len(data)) > available {
		return fmt.Errorf("write file %q (%d bytes): %w", entry.fullPath, len(data), ErrQuotaExceeded)
	}

	fs.contents[entry.contentID] = bufutil.Clone(data)
	entry.size = uint64(len(data))
	entry.lastModified = time.Now()

	logger.Debug("filesystem: wrote %d bytes to %q", len(data), entry.fullPath)
	return nil
}

// contentForLocked resolves a file descriptor to its content buffer,
// enforcing descriptor identity. Caller holds mu.
func (fs *FileSystem) contentForLocked(entry *FileEntry) ([]byte, error) {
	if entry == nil {
		return nil, fmt.Errorf("nil file descriptor: %w", ErrInvalidArgument)
	}

	registered, ok := fs.entries[entry.fullPath]
	if !ok || registered != Entry(entry) {
		return nil, fmt.Errorf("file %q: stale or invalid descriptor: %w", entry.fullPath, ErrNotFound)
	}

	data, ok := fs.contents[entry.contentID]
	if !ok {
		return nil, fmt.Errorf("file %q: no content record: %w", entry.fullPath, ErrNotFound)
	}
	return data, nil
}

// GetFileSize returns the size of the file at path. The second return is
// false if the path is absent or holds a directory.
func (fs *FileSystem) GetFileSize(path string) (uint64, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, ok := fs.entries[path].(*FileEntry)
	if !ok {
		return 0, false
	}
	return file.size, true
}

// ============================================================================
// Removal
// ============================================================================

// Remove unregisters the entry at path.
//
// Removing a file deletes its registry and content records. Removing a
// directory that still has children fails with ErrInvalidModification
// unless recursive is set, in which case the whole subtree is removed.
// The root cannot be removed.
func (fs *FileSystem) Remove(path string, recursive bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if path == "" {
		return fmt.Errorf("cannot remove root: %w", ErrInvalidArgument)
	}

	entry, ok := fs.entries[path]
	if !ok {
		return fmt.Errorf("remove %q: %w", path, ErrNotFound)
	}

	descendants := fs.descendantPathsLocked(path)
	if entry.Kind() == KindDirectory && len(descendants) > 0 && !recursive {
		return fmt.Errorf("remove %q: directory not empty: %w", path, ErrInvalidModification)
	}

	// Deepest first, so the registry never holds a child without its
	// parent mid-removal.
	sort.Slice(descendants, func(i, j int) bool {
		return paths.Depth(descendants[i]) > paths.Depth(descendants[j])
	})

	for _, descendant := range descendants {
		fs.removeEntryLocked(descendant)
	}
	fs.removeEntryLocked(path)

	logger.Debug("filesystem: removed %q (%d descendants)", path, len(descendants))
	return nil
}

func (fs *FileSystem) removeEntryLocked(path string) {
	if file, ok := fs.entries[path].(*FileEntry); ok {
		delete(fs.contents, file.contentID)
	}
	delete(fs.entries, path)
}

// Purge clears the registry and content store back to the fresh-root
// state. The disk quota is preserved.
func (fs *FileSystem) Purge() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.entries = map[string]Entry{"": newDirectoryEntry("")}
	fs.contents = make(map[ContentID][]byte)

	logger.Debug("filesystem: purged")
}
