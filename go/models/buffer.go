package models

// Buffer is a read-only window over the loaded image, starting at the address
// being decoded. Decoders consume it from the front and must not read past
// its length.
type Buffer []byte

func (b Buffer) Len() int {
	return len(b)
}

// Advance drops n bytes from the front of the window.
func (b *Buffer) Advance(n int) {
	*b = (*b)[n:]
}
