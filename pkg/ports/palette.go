package ports

// PaletteSender delivers an outbound protocol message to the embedded
// tutorial view. Implementations must be safe for concurrent use: responses,
// completion events and poller callbacks may all send.
type PaletteSender interface {
	Send(msg any) error
}

// PaletteFunc adapts a function to PaletteSender.
type PaletteFunc func(msg any) error

// Send implements PaletteSender.
func (f PaletteFunc) Send(msg any) error { return f(msg) }
