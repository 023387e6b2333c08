// Package bufutil contains the byte-buffer arithmetic shared by the
// content store and the sync access handle: defensive copies, zero
// extension, and range-preserving positional writes.
package bufutil

// Clone returns an independent copy of buf. A nil input yields an empty,
// non-nil buffer so callers can always index the result.
func Clone(buf []byte) []byte {
	cloned := make([]byte, len(buf))
	copy(cloned, buf)
	return cloned
}

// Resize returns a buffer of exactly size bytes carrying buf's content.
//
// Shrinking drops the tail; growing zero-fills the appended region. The
// returned buffer never aliases buf.
func Resize(buf []byte, size int) []byte {
	resized := make([]byte, size)
	copy(resized, buf)
	return resized
}

// WriteAt returns a buffer with data written into buf starting at offset,
// growing the buffer if the write extends past its end.
//
// Content before offset is preserved. If offset lies beyond len(buf) the
// gap is zero-filled. Content after the written region is preserved when
// the region does not reach the end. The returned buffer never aliases
// buf or data.
func WriteAt(buf, data []byte, offset int) []byte {
	end := offset + len(data)

	size := len(buf)
	if end > size {
		size = end
	}

	result := make([]byte, size)
	copy(result, buf)
	copy(result[offset:], data)
	return result
}
