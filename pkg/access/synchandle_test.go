package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alxcube/fsa-mock/pkg/filesystem"
)

func newHandleWorld(t *testing.T, total uint64, path string, content []byte) (*filesystem.FileSystem, *filesystem.FileEntry) {
	t.Helper()

	fs := filesystem.New(total)
	file, err := fs.CreateFile(path, 0)
	require.NoError(t, err)
	if len(content) > 0 {
		require.NoError(t, fs.WriteFile(file, content))
	}
	return fs, file
}

func TestSyncAccessHandle_Construction(t *testing.T) {
	t.Run("keepContent copies the persisted bytes", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{1, 2, 3})

		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		size, err := h.GetSize()
		require.NoError(t, err)
		assert.Equal(t, uint64(3), size)
	})

	t.Run("without keepContent the buffer starts empty", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{1, 2, 3})

		h, err := NewSyncAccessHandle(fs, file, false)
		require.NoError(t, err)

		size, err := h.GetSize()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), size)
	})

	t.Run("stale descriptor is rejected", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", nil)
		require.NoError(t, fs.Remove("f", false))

		_, err := NewSyncAccessHandle(fs, file, true)
		assert.ErrorIs(t, err, filesystem.ErrNotFound)

		_, err = NewSyncAccessHandle(fs, file, false)
		assert.ErrorIs(t, err, filesystem.ErrNotFound)
	})
}

func TestSyncAccessHandle_Read(t *testing.T) {
	fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{10, 20, 30, 40, 50})

	t.Run("sequential reads consume forward", func(t *testing.T) {
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		dst := make([]byte, 2)
		n, err := h.Read(dst, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []byte{10, 20}, dst)

		n, err = h.Read(dst, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []byte{30, 40}, dst)
	})

	t.Run("explicit position does not move the cursor", func(t *testing.T) {
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		dst := make([]byte, 1)
		_, err = h.Read(dst, nil)
		require.NoError(t, err)

		_, err = h.Read(dst, At(4))
		require.NoError(t, err)
		assert.Equal(t, []byte{50}, dst)

		_, err = h.Read(dst, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{20}, dst, "sequential read resumes where it left off")
	})

	t.Run("reading past the end yields zero bytes and parks at EOF", func(t *testing.T) {
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		require.NoError(t, h.Truncate(3))

		dst := make([]byte, 4)
		n, err := h.Read(dst, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = h.Read(dst, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "cursor is at EOF")
	})

	t.Run("negative position fails", func(t *testing.T) {
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Read(make([]byte, 1), At(-1))
		assert.ErrorIs(t, err, ErrInvalidOffset)
	})
}

func TestSyncAccessHandle_Write(t *testing.T) {
	t.Run("write past end zero-fills the gap", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", nil)
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		n, err := h.Write([]byte{1, 2, 3}, At(5))
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		size, err := h.GetSize()
		require.NoError(t, err)
		assert.Equal(t, uint64(8), size)

		dst := make([]byte, 8)
		_, err = h.Read(dst, At(0))
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 1, 2, 3}, dst)
	})

	t.Run("shrink then regrow does not restore dropped content", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", nil)
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Write([]byte{1, 2, 3}, At(5))
		require.NoError(t, err)

		require.NoError(t, h.Truncate(3))
		require.NoError(t, h.Truncate(8))

		dst := make([]byte, 8)
		_, err = h.Read(dst, At(0))
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, dst, "regrown tail is zero-filled")
	})

	t.Run("overwrite in the middle preserves surrounding content", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{1, 2, 3})
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Write([]byte{9}, At(1))
		require.NoError(t, err)

		dst := make([]byte, 3)
		_, err = h.Read(dst, At(0))
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 9, 3}, dst)
	})

	t.Run("sequential writes append; positional writes do not move the cursor", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", nil)
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Write([]byte{1, 1}, nil)
		require.NoError(t, err)
		_, err = h.Write([]byte{2, 2}, nil)
		require.NoError(t, err)

		_, err = h.Write([]byte{9}, At(0))
		require.NoError(t, err)

		_, err = h.Write([]byte{3, 3}, nil)
		require.NoError(t, err)

		dst := make([]byte, 6)
		_, err = h.Read(dst, At(0))
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 1, 2, 2, 3, 3}, dst)
	})

	t.Run("negative position fails", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", nil)
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Write([]byte{1}, At(-3))
		assert.ErrorIs(t, err, ErrInvalidOffset)
	})
}

func TestSyncAccessHandle_Truncate(t *testing.T) {
	fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{1, 2, 3, 4})

	t.Run("clamps the cursor to the new size", func(t *testing.T) {
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		dst := make([]byte, 4)
		_, err = h.Read(dst, nil)
		require.NoError(t, err)

		require.NoError(t, h.Truncate(2))

		// Next sequential write continues from the clamped cursor.
		_, err = h.Write([]byte{9}, nil)
		require.NoError(t, err)

		result := make([]byte, 3)
		_, err = h.Read(result, At(0))
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 9}, result)
	})

	t.Run("negative size fails", func(t *testing.T) {
		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		assert.ErrorIs(t, h.Truncate(-1), ErrInvalidSize)
	})
}

func TestSyncAccessHandle_Quota(t *testing.T) {
	t.Run("growth is checked against free space plus the original footprint", func(t *testing.T) {
		fs, file := newHandleWorld(t, 10, "f", []byte{1, 2, 3, 4})

		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		// Disk: 10 total, 4 used by this file. Room for this handle is
		// 6 free + 4 original = 10.
		require.NoError(t, h.Truncate(10))
		assert.ErrorIs(t, h.Truncate(11), filesystem.ErrQuotaExceeded)

		_, err = h.Write([]byte{1}, At(10))
		assert.ErrorIs(t, err, filesystem.ErrQuotaExceeded)
	})

	t.Run("pending growth does not double-count before flush", func(t *testing.T) {
		fs, file := newHandleWorld(t, 10, "f", []byte{1, 2})

		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		// Grow within the buffer repeatedly; the check is always against
		// the persisted footprint, not the scratch buffer.
		require.NoError(t, h.Truncate(6))
		require.NoError(t, h.Truncate(9))
		require.NoError(t, h.Truncate(10))

		require.NoError(t, h.Flush())
		assert.Equal(t, uint64(10), fs.UsedDiskSpace())
	})
}

func TestSyncAccessHandle_FlushAndClose(t *testing.T) {
	t.Run("flush persists, close does not", func(t *testing.T) {
		// A 3-byte file [1,2,3]: writing 9 at offset 1 and flushing
		// yields [1,9,3] in the store.
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{1, 2, 3})

		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Write([]byte{9}, At(1))
		require.NoError(t, err)

		data, err := fs.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data, "store untouched before flush")

		require.NoError(t, h.Flush())

		data, err = fs.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 9, 3}, data)
	})

	t.Run("unflushed changes are discarded on close", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", []byte{1, 2, 3})

		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)

		_, err = h.Write([]byte{9, 9, 9}, nil)
		require.NoError(t, err)
		require.NoError(t, h.Close())

		data, err := fs.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)
	})

	t.Run("closed handle rejects everything except close", func(t *testing.T) {
		fs, file := newHandleWorld(t, filesystem.Unlimited, "f", nil)

		h, err := NewSyncAccessHandle(fs, file, true)
		require.NoError(t, err)
		require.NoError(t, h.Close())

		_, err = h.GetSize()
		assert.ErrorIs(t, err, ErrClosed)
		_, err = h.Read(make([]byte, 1), nil)
		assert.ErrorIs(t, err, ErrClosed)
		_, err = h.Write([]byte{1}, nil)
		assert.ErrorIs(t, err, ErrClosed)
		assert.ErrorIs(t, h.Truncate(0), ErrClosed)
		assert.ErrorIs(t, h.Flush(), ErrClosed)

		assert.NoError(t, h.Close(), "close is idempotent")
	})
}
