package splash

import (
	"fmt"

	"github.com/splashd/splashd/internal/logger"
)

// createFramebuffer allocates the output's scan-out memory: dumb buffer,
// framebuffer object, RW mapping, then an immediate zero-fill so a failed
// pixel load still shows black. Any failure unwinds in reverse order so no
// kernel object leaks.
func (e *Engine) createFramebuffer(out *Output) error {
	buf, err := e.dev.CreateDumb(out.Width, out.Height, out.Format.BPP)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBufferAlloc, err)
	}
	out.handle = buf.Handle
	out.Stride = buf.Pitch
	out.Size = buf.Size

	fbID, err := e.dev.AddFramebuffer(out.Width, out.Height, out.Format.FourCC, out.Stride, out.handle)
	if err != nil {
		e.destroyDumb(out.handle)
		return fmt.Errorf("%w: %v", ErrFramebufferAdd, err)
	}
	out.FramebufferID = fbID

	pixels, err := e.dev.MapDumb(out.handle, out.Size)
	if err != nil {
		e.removeFramebuffer(out.FramebufferID)
		e.destroyDumb(out.handle)
		return fmt.Errorf("%w: %v", ErrMap, err)
	}
	out.Pixels = pixels
	clear(out.Pixels)

	return nil
}

// destroyFramebuffer releases everything createFramebuffer set up, in
// reverse order. The mapping and the kernel objects go together.
func (e *Engine) destroyFramebuffer(out *Output) {
	if out.Pixels != nil {
		if err := e.dev.Unmap(out.Pixels); err != nil {
			logger.Errorf("cannot unmap buffer for connector #%d: %v", out.ConnectorID, err)
		}
		out.Pixels = nil
	}
	e.removeFramebuffer(out.FramebufferID)
	e.destroyDumb(out.handle)
}

func (e *Engine) removeFramebuffer(id uint32) {
	if err := e.dev.RemoveFramebuffer(id); err != nil {
		logger.Errorf("cannot remove framebuffer #%d: %v", id, err)
	}
}

func (e *Engine) destroyDumb(handle uint32) {
	if err := e.dev.DestroyDumb(handle); err != nil {
		logger.Errorf("cannot destroy dumb buffer %d: %v", handle, err)
	}
}
