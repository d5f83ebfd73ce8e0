package splash

import (
	"fmt"

	"github.com/splashd/splashd/internal/kms"
)

// Output is one prepared display pipeline: a connected connector, its
// chosen mode and format, the CRTC assigned to it and the mapped scan-out
// buffer. After preparation only NeedsModeset and the Pixels contents
// change, both from Draw.
type Output struct {
	ConnectorID uint32
	Mode        kms.Mode
	Width       uint32
	Height      uint32
	Format      Format

	CrtcID       uint32
	NeedsModeset bool

	FramebufferID uint32
	Stride        uint32
	Size          uint64
	Pixels        []byte

	handle uint32 // dumb buffer handle, released on teardown
}

// ImageName returns the asset file name for this output, derived from the
// base name, pixel dimensions and format: <base>-<W>x<H>-<FORMAT>.bin.
func (o *Output) ImageName(base string) string {
	return fmt.Sprintf("%s-%dx%d-%s.bin", base, o.Width, o.Height, o.Format.Name)
}

func (o *Output) frame() *Frame {
	return &Frame{
		Width:         o.Width,
		Height:        o.Height,
		Stride:        o.Stride,
		Size:          o.Size,
		Format:        o.Format,
		FramebufferID: o.FramebufferID,
		Pixels:        o.Pixels,
	}
}

// Frame describes one target buffer handed to a FrameFiller. The
// descriptor itself must not be mutated; Pixels is the live mapping.
type Frame struct {
	Width         uint32
	Height        uint32
	Stride        uint32
	Size          uint64
	Format        Format
	FramebufferID uint32
	Pixels        []byte
}

// FrameFiller replaces the built-in image loader. Implementations carry
// their own state; a fill error is logged and the buffer keeps its previous
// contents.
type FrameFiller interface {
	FillFrame(f *Frame) error
}
