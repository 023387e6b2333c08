package bufutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	original := []byte{1, 2, 3}
	cloned := Clone(original)

	assert.Equal(t, original, cloned)

	cloned[0] = 9
	assert.Equal(t, byte(1), original[0], "clone must not alias the source")

	assert.NotNil(t, Clone(nil))
	assert.Empty(t, Clone(nil))
}

func TestResize(t *testing.T) {
	buf := []byte{1, 2, 3}

	assert.Equal(t, []byte{1, 2}, Resize(buf, 2))
	assert.Equal(t, []byte{1, 2, 3, 0, 0}, Resize(buf, 5))
	assert.Equal(t, []byte{1, 2, 3}, buf, "source unchanged")

	grown := Resize(buf, 4)
	grown[0] = 9
	assert.Equal(t, byte(1), buf[0], "resize must not alias the source")
}

func TestWriteAt(t *testing.T) {
	t.Run("overwrite middle preserves both sides", func(t *testing.T) {
		result := WriteAt([]byte{1, 2, 3, 4, 5}, []byte{9}, 2)
		assert.Equal(t, []byte{1, 2, 9, 4, 5}, result)
	})

	t.Run("write past end zero-fills the gap", func(t *testing.T) {
		result := WriteAt([]byte{}, []byte{1, 2, 3}, 5)
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 1, 2, 3}, result)
	})

	t.Run("write extending the tail grows the buffer", func(t *testing.T) {
		result := WriteAt([]byte{1, 2, 3}, []byte{8, 9}, 2)
		assert.Equal(t, []byte{1, 2, 8, 9}, result)
	})

	t.Run("append at exact end", func(t *testing.T) {
		result := WriteAt([]byte{1}, []byte{2}, 1)
		assert.Equal(t, []byte{1, 2}, result)
	})
}
