package kms

import (
	"errors"
	"os"

	"github.com/NeowayLabs/drm"
	"github.com/NeowayLabs/drm/mode"

	"github.com/splashd/splashd/internal/logger"
)

// maxProbeCards bounds the device scan. Minor numbers above this are render
// or control nodes and never expose connectors.
const maxProbeCards = 64

// ErrNoDevice is returned when no probed card answers a mode-resources
// query.
var ErrNoDevice = errors.New("no kms-capable drm device found")

// Probe opens DRM card nodes in minor order and keeps the first one that
// answers a mode-resources query. Candidates that fail to open or to
// answer are closed immediately.
func Probe() (*Card, error) {
	return probe(drm.OpenCard, hasResources)
}

func probe(open func(int) (*os.File, error), check func(*os.File) error) (*Card, error) {
	for i := 0; i < maxProbeCards; i++ {
		f, err := open(i)
		if err != nil {
			logger.Debugf("card %d: %v", i, err)
			continue
		}
		if err := check(f); err != nil {
			logger.Debugf("card %d has no mode resources: %v", i, err)
			f.Close()
			continue
		}
		logger.Debugf("using drm device %s", f.Name())
		return &Card{file: f}, nil
	}
	return nil, ErrNoDevice
}

func hasResources(f *os.File) error {
	_, err := mode.GetResources(f)
	return err
}
