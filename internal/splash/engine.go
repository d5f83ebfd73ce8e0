// Package splash prepares every connected display output of a DRM device
// for scan-out and presents a static image on each: connector enumeration,
// mode and format selection, CRTC allocation, dumb-buffer framebuffers and
// the mode-set/page-flip presentation paths.
//
// Everything is synchronous and single-threaded. The engine owns its
// Device exclusively for its whole lifetime.
package splash

import (
	"fmt"

	"github.com/splashd/splashd/internal/kms"
	"github.com/splashd/splashd/internal/logger"
)

const (
	DefaultDirectory = "/usr/share/splashd"
	DefaultBasename  = "splash"
)

// Options configures New. Zero values mean: default asset location, probe
// for a device, no overrides.
type Options struct {
	// Directory and Basename locate the raw image assets
	// (<Directory>/<Basename>-<W>x<H>-<FORMAT>.bin).
	Directory string
	Basename  string

	// Device is the display controller to drive. When nil, New probes
	// the DRM card nodes and takes the first usable one.
	Device Device

	// Overrides supplies per-output mode overrides.
	Overrides OverrideSource
}

// Engine holds the device and the prepared outputs.
type Engine struct {
	dev       Device
	dir       string
	base      string
	overrides OverrideSource
	filler    FrameFiller
	outputs   []*Output
}

// New opens (or adopts) a device and prepares an output record for every
// eligible connector. A connector that fails preparation is skipped; only
// the absence of any usable device is fatal. The engine owns the device
// from here on, including one passed in via Options.
func New(opts Options) (*Engine, error) {
	if opts.Directory == "" {
		opts.Directory = DefaultDirectory
	}
	if opts.Basename == "" {
		opts.Basename = DefaultBasename
	}
	if opts.Overrides == nil {
		opts.Overrides = noOverrides{}
	}

	dev := opts.Device
	if dev == nil {
		card, err := kms.Probe()
		if err != nil {
			return nil, err
		}
		dev = card
	}

	e := &Engine{
		dev:       dev,
		dir:       opts.Directory,
		base:      opts.Basename,
		overrides: opts.Overrides,
	}
	if err := e.prepare(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) prepare() error {
	res, err := e.dev.Resources()
	if err != nil {
		return fmt.Errorf("cannot retrieve drm resources: %w", err)
	}
	logger.Debugf("found %d connectors", len(res.Connectors))

	claimed := make(map[uint32]bool)
	for _, id := range res.Connectors {
		conn, err := e.dev.Connector(id)
		if err != nil {
			logger.Warnf("cannot retrieve connector #%d: %v", id, err)
			continue
		}

		out, err := e.prepareOutput(res, conn, claimed)
		if err != nil {
			logger.Warnf("skipping connector #%d: %v", id, err)
			continue
		}
		if out != nil {
			e.outputs = append(e.outputs, out)
		}
	}
	return nil
}

// prepareOutput builds the record for one connector. (nil, nil) means the
// connector is simply not in use; an error means preparation failed and
// the record is discarded whole.
func (e *Engine) prepareOutput(res *kms.Resources, conn *kms.Connector, claimed map[uint32]bool) (*Output, error) {
	if conn.Connection != kms.Connected {
		logger.Debugf("ignoring unused connector #%d", conn.ID)
		return nil, nil
	}
	if len(conn.Modes) == 0 {
		return nil, fmt.Errorf("connector #%d: %w", conn.ID, ErrNoUsableMode)
	}

	out := &Output{ConnectorID: conn.ID}

	if err := e.selectMode(conn, out); err != nil {
		return nil, err
	}
	logger.Debugf("mode for connector #%d is %dx%d@%s",
		conn.ID, out.Width, out.Height, out.Format.Name)

	if err := e.assignCrtc(res, conn, out, claimed); err != nil {
		return nil, err
	}

	if err := e.createFramebuffer(out); err != nil {
		return nil, err
	}

	return out, nil
}

// Outputs returns the prepared output records. The slice is owned by the
// engine; callers must not grow it.
func (e *Engine) Outputs() []*Output {
	return e.outputs
}

// SetFrameFiller replaces the built-in image loader for subsequent Draw
// calls. Passing nil restores the loader.
func (e *Engine) SetFrameFiller(f FrameFiller) {
	e.filler = f
}

// DropMaster gives up display-master privilege so a later compositor can
// take over, while keeping the device (and so the displayed image) alive.
func (e *Engine) DropMaster() error {
	return e.dev.DropMaster()
}

// Close tears everything down: per-output mappings and kernel objects,
// master privilege if still held, and finally the device itself.
func (e *Engine) Close() error {
	for _, out := range e.outputs {
		e.destroyFramebuffer(out)
	}
	e.outputs = nil

	if e.dev.IsMaster() {
		if err := e.dev.DropMaster(); err != nil {
			logger.Errorf("failed to drop master on drm device: %v", err)
		}
	}
	return e.dev.Close()
}
