package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RootAlwaysExists(t *testing.T) {
	fs := New(Unlimited)

	assert.True(t, fs.Exists(""))
	assert.True(t, fs.IsDirectory(""))
	assert.False(t, fs.IsFile(""))

	root, err := fs.GetDirectoryDescriptor("", false)
	require.NoError(t, err)
	assert.Equal(t, "", root.FullPath())
	assert.Equal(t, KindDirectory, root.Kind())
}

func TestMakeDirectory(t *testing.T) {
	t.Run("creates under existing parent", func(t *testing.T) {
		fs := New(Unlimited)

		dir, err := fs.MakeDirectory("docs", false)
		require.NoError(t, err)
		assert.Equal(t, "docs", dir.FullPath())
		assert.True(t, fs.IsDirectory("docs"))
	})

	t.Run("fails on existing path", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.MakeDirectory("docs", false)
		require.NoError(t, err)

		_, err = fs.MakeDirectory("docs", false)
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("fails on missing parent without recursive", func(t *testing.T) {
		fs := New(Unlimited)

		_, err := fs.MakeDirectory("a/b/c", false)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, fs.Exists("a"), "no partial creation on failure")
	})

	t.Run("recursive creates missing chain", func(t *testing.T) {
		fs := New(Unlimited)

		_, err := fs.MakeDirectory("a/b/c", true)
		require.NoError(t, err)
		assert.True(t, fs.IsDirectory("a"))
		assert.True(t, fs.IsDirectory("a/b"))
		assert.True(t, fs.IsDirectory("a/b/c"))
	})

	t.Run("fails when an ancestor is a file", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.CreateFile("a", 0)
		require.NoError(t, err)

		_, err = fs.MakeDirectory("a/b", true)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})
}

func TestGetDirectoryDescriptor(t *testing.T) {
	fs := New(Unlimited)

	t.Run("type mismatch for file path", func(t *testing.T) {
		_, err := fs.CreateFile("file", 0)
		require.NoError(t, err)

		_, err = fs.GetDirectoryDescriptor("file", false)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("absent without create", func(t *testing.T) {
		_, err := fs.GetDirectoryDescriptor("missing", false)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("absent with create builds the chain", func(t *testing.T) {
		dir, err := fs.GetDirectoryDescriptor("x/y/z", true)
		require.NoError(t, err)
		assert.Equal(t, "x/y/z", dir.FullPath())
		assert.True(t, fs.IsDirectory("x/y"))
	})

	t.Run("returns the same object on repeat access", func(t *testing.T) {
		first, err := fs.GetDirectoryDescriptor("x/y", false)
		require.NoError(t, err)
		second, err := fs.GetDirectoryDescriptor("x/y", false)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}

func TestCreateFile(t *testing.T) {
	t.Run("zero-filled initial buffer", func(t *testing.T) {
		fs := New(Unlimited)

		file, err := fs.CreateFile("data.bin", 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), file.Size())
		assert.False(t, file.LastModified().IsZero())

		data, err := fs.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0}, data)
	})

	t.Run("creates missing parents", func(t *testing.T) {
		fs := New(Unlimited)

		_, err := fs.CreateFile("a/b/file", 0)
		require.NoError(t, err)
		assert.True(t, fs.IsDirectory("a/b"))
	})

	t.Run("fails on existing path", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.CreateFile("f", 0)
		require.NoError(t, err)

		_, err = fs.CreateFile("f", 0)
		assert.ErrorIs(t, err, ErrExists)
	})
}

func TestDiskQuota(t *testing.T) {
	// A 512-byte disk holds a 500-byte file but rejects the
	// 13 bytes that would push it over.
	t.Run("rejects allocation past the ceiling", func(t *testing.T) {
		fs := New(512)

		_, err := fs.CreateFile("a", 500)
		require.NoError(t, err)

		_, err = fs.CreateFile("b", 13)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.False(t, fs.Exists("b"), "rejected creation leaves no entry")

		assert.Equal(t, uint64(500), fs.UsedDiskSpace())
		assert.Equal(t, uint64(12), fs.FreeDiskSpace())
	})

	t.Run("write counts replaced content as free", func(t *testing.T) {
		fs := New(10)
		file, err := fs.CreateFile("f", 8)
		require.NoError(t, err)

		// 10 bytes fit: the 8 currently used by this file are reclaimed.
		require.NoError(t, fs.WriteFile(file, make([]byte, 10)))
		assert.Equal(t, uint64(10), fs.UsedDiskSpace())

		err = fs.WriteFile(file, make([]byte, 11))
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, uint64(10), file.Size(), "failed write leaves size unchanged")
	})

	t.Run("used never exceeds total", func(t *testing.T) {
		fs := New(100)

		for i, size := range []uint64{40, 40, 40, 40} {
			_, err := fs.CreateFile(string(rune('a'+i)), size)
			if err != nil {
				assert.ErrorIs(t, err, ErrQuotaExceeded)
			}
			assert.LessOrEqual(t, fs.UsedDiskSpace(), fs.TotalDiskSpace())
		}
	})

	t.Run("shrinking below used space fails", func(t *testing.T) {
		fs := New(100)
		_, err := fs.CreateFile("f", 60)
		require.NoError(t, err)

		assert.ErrorIs(t, fs.SetTotalDiskSpace(59), ErrInvalidArgument)
		require.NoError(t, fs.SetTotalDiskSpace(60))
		assert.Equal(t, uint64(0), fs.FreeDiskSpace())
	})

	t.Run("unlimited reports unlimited free space", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.CreateFile("f", 1024)
		require.NoError(t, err)

		assert.Equal(t, Unlimited, fs.FreeDiskSpace())
		assert.Equal(t, uint64(1024), fs.UsedDiskSpace())
	})
}

func TestReadWriteFile(t *testing.T) {
	fs := New(Unlimited)

	file, err := fs.CreateFile("notes", 0)
	require.NoError(t, err)

	require.NoError(t, fs.WriteFile(file, []byte("hello")))
	assert.Equal(t, uint64(5), file.Size())

	data, err := fs.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// Mutating the returned slice must not reach the store.
	data[0] = 'H'
	again, err := fs.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), again)
}

func TestDescriptorIdentity(t *testing.T) {
	fs := New(Unlimited)

	file, err := fs.CreateFile("f", 0)
	require.NoError(t, err)
	dir, err := fs.MakeDirectory("d", false)
	require.NoError(t, err)

	assert.True(t, fs.IsValidDescriptor(file))
	assert.True(t, fs.IsValidDescriptor(dir))

	t.Run("structural copy is invalid", func(t *testing.T) {
		shallow := *file
		assert.False(t, fs.IsValidDescriptor(&shallow))

		_, err := fs.ReadFile(&shallow)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("removal invalidates the held descriptor", func(t *testing.T) {
		require.NoError(t, fs.Remove("f", false))
		assert.False(t, fs.IsValidDescriptor(file))

		_, err := fs.ReadFile(file)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, fs.WriteFile(file, []byte("x")), ErrNotFound)
	})

	t.Run("recreated path does not revive the old descriptor", func(t *testing.T) {
		recreated, err := fs.CreateFile("f", 0)
		require.NoError(t, err)

		assert.True(t, fs.IsValidDescriptor(recreated))
		assert.False(t, fs.IsValidDescriptor(file))
	})

	t.Run("nil descriptor", func(t *testing.T) {
		assert.False(t, fs.IsValidDescriptor(nil))
	})
}

func TestGetFileDescriptor(t *testing.T) {
	fs := New(Unlimited)

	t.Run("type mismatch for directory path", func(t *testing.T) {
		_, err := fs.MakeDirectory("dir", false)
		require.NoError(t, err)

		_, err = fs.GetFileDescriptor("dir", false)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("create on absence yields an empty file", func(t *testing.T) {
		file, err := fs.GetFileDescriptor("new", true)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), file.Size())
	})

	t.Run("absent without create", func(t *testing.T) {
		_, err := fs.GetFileDescriptor("missing", false)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetFileSize(t *testing.T) {
	fs := New(Unlimited)
	_, err := fs.CreateFile("f", 7)
	require.NoError(t, err)
	_, err = fs.MakeDirectory("d", false)
	require.NoError(t, err)

	size, ok := fs.GetFileSize("f")
	assert.True(t, ok)
	assert.Equal(t, uint64(7), size)

	_, ok = fs.GetFileSize("d")
	assert.False(t, ok, "directories have no file size")
	_, ok = fs.GetFileSize("missing")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	t.Run("root is not removable", func(t *testing.T) {
		fs := New(Unlimited)
		assert.ErrorIs(t, fs.Remove("", true), ErrInvalidArgument)
	})

	t.Run("file removal frees its space", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.CreateFile("f", 100)
		require.NoError(t, err)

		require.NoError(t, fs.Remove("f", false))
		assert.False(t, fs.Exists("f"))
		assert.Equal(t, uint64(0), fs.UsedDiskSpace())
	})

	t.Run("non-empty directory needs recursive", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.CreateFile("dir/f", 0)
		require.NoError(t, err)

		assert.ErrorIs(t, fs.Remove("dir", false), ErrInvalidModification)
		assert.True(t, fs.Exists("dir/f"))

		require.NoError(t, fs.Remove("dir", true))
		assert.False(t, fs.Exists("dir"))
		assert.False(t, fs.Exists("dir/f"))
	})

	t.Run("empty directory removes without recursive", func(t *testing.T) {
		fs := New(Unlimited)
		_, err := fs.MakeDirectory("d", false)
		require.NoError(t, err)

		assert.NoError(t, fs.Remove("d", false))
	})

	t.Run("missing path", func(t *testing.T) {
		fs := New(Unlimited)
		assert.ErrorIs(t, fs.Remove("ghost", false), ErrNotFound)
	})
}

func TestChildAndDescendantQueries(t *testing.T) {
	fs := New(Unlimited)
	for _, dir := range []string{"a", "a/b", "a/b/c", "z"} {
		_, err := fs.MakeDirectory(dir, true)
		require.NoError(t, err)
	}
	_, err := fs.CreateFile("a/file", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "z"}, fs.GetChildPaths(""))
	assert.Equal(t, []string{"a/b", "a/file"}, fs.GetChildPaths("a"))
	assert.Equal(t, []string{"a", "a/b", "a/b/c", "a/file", "z"}, fs.GetDescendantPaths(""))
	assert.Equal(t, []string{"a/b", "a/b/c", "a/file"}, fs.GetDescendantPaths("a"))
	assert.Empty(t, fs.GetDescendantPaths("z"))

	entries := fs.GetChildEntries("a")
	require.Len(t, entries, 2)
	assert.Equal(t, "a/b", entries[0].Path)
	assert.Equal(t, KindDirectory, entries[0].Entry.Kind())
	assert.Equal(t, "a/file", entries[1].Path)
	assert.Equal(t, KindFile, entries[1].Entry.Kind())
}

func TestPurge(t *testing.T) {
	fs := New(1024)
	_, err := fs.CreateFile("a/b/c", 100)
	require.NoError(t, err)

	fs.Purge()

	assert.True(t, fs.Exists(""), "root survives purge")
	assert.False(t, fs.Exists("a"))
	assert.Equal(t, uint64(0), fs.UsedDiskSpace())
	assert.Equal(t, uint64(1024), fs.TotalDiskSpace(), "quota survives purge")
}
