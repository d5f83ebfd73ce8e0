package splash

import (
	"io"
	"os"
	"path/filepath"

	"github.com/splashd/splashd/internal/logger"
)

// Draw fills every prepared output and presents it: a full mode-set the
// first time a pipeline needs one, a page flip afterwards. Presentation
// failures are logged, never propagated; a failed mode-set leaves
// NeedsModeset set so the next Draw retries it.
func (e *Engine) Draw() {
	for _, out := range e.outputs {
		e.fill(out)

		if out.NeedsModeset {
			if err := e.dev.SetCrtc(out.CrtcID, out.FramebufferID, out.ConnectorID, &out.Mode); err != nil {
				logger.Errorf("cannot set crtc for connector #%d: %v", out.ConnectorID, err)
			} else {
				out.NeedsModeset = false
			}
		} else {
			if err := e.dev.PageFlip(out.CrtcID, out.FramebufferID); err != nil {
				logger.Errorf("page flip failed on connector #%d: %v", out.ConnectorID, err)
			}
		}
	}
}

func (e *Engine) fill(out *Output) {
	if e.filler != nil {
		if err := e.filler.FillFrame(out.frame()); err != nil {
			logger.Errorf("frame fill failed on connector #%d: %v", out.ConnectorID, err)
		}
		return
	}
	e.loadImage(out)
}

// loadImage copies the output's raw image file into the mapped buffer. The
// file carries pre-formatted pixels at the buffer's native stride, so no
// decoding happens here. A missing or short file keeps whatever the buffer
// already holds, at minimum the zero-fill from creation.
func (e *Engine) loadImage(out *Output) {
	name := filepath.Join(e.dir, out.ImageName(e.base))

	f, err := os.Open(name)
	if err != nil {
		logger.Errorf("failed to open %s: %v", name, err)
		return
	}
	defer f.Close()

	n, err := io.ReadFull(f, out.Pixels)
	if err != nil {
		logger.Errorf("could only read %d/%d bytes from %s", n, len(out.Pixels), name)
	}
}
