package filesystem

import "fmt"

// Unlimited is the disk quota sentinel meaning no ceiling is enforced.
const Unlimited = ^uint64(0)

// ============================================================================
// Disk Space Accounting
// ============================================================================

// TotalDiskSpace returns the configured quota, or Unlimited.
func (fs *FileSystem) TotalDiskSpace() uint64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.totalSpace
}

// SetTotalDiskSpace changes the quota at runtime.
//
// Fails with ErrInvalidArgument if the new quota is below the space
// already used, since that would retroactively invalidate stored content.
func (fs *FileSystem) SetTotalDiskSpace(total uint64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if used := fs.usedSpaceLocked(); total != Unlimited && total < used {
		return fmt.Errorf("total disk space %d below used space %d: %w", total, used, ErrInvalidArgument)
	}

	fs.totalSpace = total
	return nil
}

// UsedDiskSpace returns the sum of all content buffer lengths.
func (fs *FileSystem) UsedDiskSpace() uint64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.usedSpaceLocked()
}

// FreeDiskSpace returns the room left under the quota, or Unlimited when
// no quota is set.
func (fs *FileSystem) FreeDiskSpace() uint64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.freeSpaceLocked()
}

// usedSpaceLocked sums the content store. Computed on demand rather than
// tracked incrementally, so it is always consistent with the buffers
// actually stored. Caller holds mu.
func (fs *FileSystem) usedSpaceLocked() uint64 {
	used := uint64(0)
	for _, data := range fs.contents {
		used += uint64(len(data))
	}
	return used
}

func (fs *FileSystem) freeSpaceLocked() uint64 {
	if fs.totalSpace == Unlimited {
		return Unlimited
	}

	used := fs.usedSpaceLocked()
	if used >= fs.totalSpace {
		return 0
	}
	return fs.totalSpace - used
}
