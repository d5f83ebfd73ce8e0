package splash

import "errors"

// Failures while preparing a single output drop only that output; the
// remaining connectors are still processed.
var (
	ErrNoUsableMode    = errors.New("connector has no usable mode")
	ErrInvalidOverride = errors.New("invalid mode override")
	ErrNoMatchingMode  = errors.New("no mode matches override")
	ErrNoCrtc          = errors.New("no suitable crtc")
	ErrBufferAlloc     = errors.New("cannot create dumb buffer")
	ErrFramebufferAdd  = errors.New("cannot create framebuffer")
	ErrMap             = errors.New("cannot map dumb buffer")
)
