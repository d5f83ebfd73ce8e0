package splash

import "github.com/splashd/splashd/internal/kms"

// Device is the display-controller transport the engine drives. *kms.Card
// satisfies it; tests substitute a fake. All calls are blocking and the
// engine never uses a Device concurrently.
type Device interface {
	Resources() (*kms.Resources, error)
	Connector(id uint32) (*kms.Connector, error)
	Encoder(id uint32) (*kms.Encoder, error)

	CreateDumb(width, height, bpp uint32) (*kms.DumbBuffer, error)
	DestroyDumb(handle uint32) error
	AddFramebuffer(width, height, format, pitch, handle uint32) (uint32, error)
	RemoveFramebuffer(id uint32) error
	MapDumb(handle uint32, size uint64) ([]byte, error)
	Unmap(data []byte) error

	SetCrtc(crtcID, fbID, connID uint32, m *kms.Mode) error
	PageFlip(crtcID, fbID uint32) error

	IsMaster() bool
	DropMaster() error
	Close() error
}
