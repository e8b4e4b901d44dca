package frame

// Buffer is a Scheduler which collects callbacks until Flush is called. A
// primitive that is drawn without an application uses a Buffer and flushes it
// at the top of its Draw function.
type Buffer struct {
	callbacks []func()
}

// RequestFrame appends fn to the buffer.
func (b *Buffer) RequestFrame(fn func()) {
	b.callbacks = append(b.callbacks, fn)
}

// Len returns the number of callbacks waiting for the next frame.
func (b *Buffer) Len() int {
	return len(b.callbacks)
}

// Flush runs all buffered callbacks in submission order. Callbacks requested
// while flushing are deferred to the following Flush.
func (b *Buffer) Flush() int {
	callbacks := b.callbacks
	b.callbacks = nil
	for _, fn := range callbacks {
		fn()
	}
	return len(callbacks)
}
