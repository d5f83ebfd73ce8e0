package kms

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/NeowayLabs/drm"
	"github.com/NeowayLabs/drm/ioctl"
	"github.com/NeowayLabs/drm/mode"
	"golang.org/x/sys/unix"
)

// Ioctls the drm library does not wrap. Codes match libdrm's xf86drm.h.
type (
	sysCrtcPageFlip struct {
		crtcID   uint32
		fbID     uint32
		flags    uint32
		reserved uint32
		userData uint64
	}

	sysAuth struct {
		magic uint32
	}
)

var (
	// DRM_IOWR(0xB0, struct drm_mode_crtc_page_flip)
	ioctlModePageFlip = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysCrtcPageFlip{})), drm.IOCTLBase, 0xB0)

	// DRM_IOWR(0x11, struct drm_auth)
	ioctlAuthMagic = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysAuth{})), drm.IOCTLBase, 0x11)

	// DRM_IO(0x1E), DRM_IO(0x1F)
	ioctlSetMaster  = ioctl.NewCode(0, 0, drm.IOCTLBase, 0x1E)
	ioctlDropMaster = ioctl.NewCode(0, 0, drm.IOCTLBase, 0x1F)
)

// Card is one open DRM device. It is exclusively owned by its creator; no
// concurrent use is supported.
type Card struct {
	file *os.File
}

// File exposes the underlying device file so a holder process can inherit
// it across exec. The Card keeps ownership.
func (c *Card) File() *os.File {
	return c.file
}

// Close closes the device. Kernel-side framebuffers still referencing the
// fd are released by the kernel at that point.
func (c *Card) Close() error {
	return c.file.Close()
}

// Resources queries the card's CRTC and connector inventory.
func (c *Card) Resources() (*Resources, error) {
	res, err := mode.GetResources(c.file)
	if err != nil {
		return nil, fmt.Errorf("get resources: %w", err)
	}
	return &Resources{
		Crtcs:      res.Crtcs,
		Connectors: res.Connectors,
	}, nil
}

// Connector fetches the full description of one connector.
func (c *Card) Connector(id uint32) (*Connector, error) {
	conn, err := mode.GetConnector(c.file, id)
	if err != nil {
		return nil, fmt.Errorf("get connector #%d: %w", id, err)
	}
	modes := make([]Mode, len(conn.Modes))
	for i, m := range conn.Modes {
		modes[i] = modeFromInfo(m)
	}
	return &Connector{
		ID:         conn.ID,
		EncoderID:  conn.EncoderID,
		Type:       conn.Type,
		TypeID:     conn.TypeID,
		Connection: ConnectionState(conn.Connection),
		Modes:      modes,
		Encoders:   conn.Encoders,
	}, nil
}

// Encoder fetches one encoder description.
func (c *Card) Encoder(id uint32) (*Encoder, error) {
	enc, err := mode.GetEncoder(c.file, id)
	if err != nil {
		return nil, fmt.Errorf("get encoder #%d: %w", id, err)
	}
	return &Encoder{
		ID:            enc.ID,
		CrtcID:        enc.CrtcID,
		PossibleCrtcs: enc.PossibleCrtcs,
	}, nil
}

// CreateDumb allocates a dumb buffer. The kernel chooses the pitch, which
// may exceed width*bpp/8 for alignment.
func (c *Card) CreateDumb(width, height, bpp uint32) (*DumbBuffer, error) {
	fb, err := mode.CreateFB(c.file, uint16(width), uint16(height), bpp)
	if err != nil {
		return nil, fmt.Errorf("create dumb buffer: %w", err)
	}
	return &DumbBuffer{
		Handle: fb.Handle,
		Pitch:  fb.Pitch,
		Size:   fb.Size,
	}, nil
}

// DestroyDumb releases a dumb buffer allocation.
func (c *Card) DestroyDumb(handle uint32) error {
	return mode.DestroyDumb(c.file, handle)
}

// AddFramebuffer registers a scan-out framebuffer object referencing a dumb
// buffer, with an explicit fourcc format.
func (c *Card) AddFramebuffer(width, height, format, pitch, handle uint32) (uint32, error) {
	id, err := mode.AddFB2SinglePlane(c.file, uint16(width), uint16(height),
		format, 0, pitch, 0, handle, 0)
	if err != nil {
		return 0, fmt.Errorf("add framebuffer: %w", err)
	}
	return id, nil
}

// RemoveFramebuffer drops a framebuffer object.
func (c *Card) RemoveFramebuffer(id uint32) error {
	return mode.RmFB(c.file, id)
}

// MapDumb maps a dumb buffer read-write into the process address space.
func (c *Card) MapDumb(handle uint32, size uint64) ([]byte, error) {
	offset, err := mode.MapDumb(c.file, handle)
	if err != nil {
		return nil, fmt.Errorf("get mmap offset: %w", err)
	}
	data, err := unix.Mmap(int(c.file.Fd()), int64(offset), int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap dumb buffer: %w", err)
	}
	return data, nil
}

// Unmap releases a mapping obtained from MapDumb.
func (c *Card) Unmap(data []byte) error {
	return unix.Munmap(data)
}

// SetCrtc performs a full mode-set binding crtc, framebuffer and connector
// with the given timing.
func (c *Card) SetCrtc(crtcID, fbID, connID uint32, m *Mode) error {
	info := infoFromMode(m)
	return mode.SetCrtc(c.file, crtcID, fbID, 0, 0, &connID, 1, &info)
}

// PageFlip swaps the framebuffer an already-configured CRTC scans out.
func (c *Card) PageFlip(crtcID, fbID uint32) error {
	flip := sysCrtcPageFlip{crtcID: crtcID, fbID: fbID}
	return ioctl.Do(uintptr(c.file.Fd()), uintptr(ioctlModePageFlip),
		uintptr(unsafe.Pointer(&flip)))
}

// IsMaster reports whether this fd currently holds DRM master. Mirrors
// libdrm's drmIsMaster: auth-magic is master-only and fails with EACCES
// for non-masters, any other outcome means we are master.
func (c *Card) IsMaster() bool {
	auth := sysAuth{}
	err := ioctl.Do(uintptr(c.file.Fd()), uintptr(ioctlAuthMagic),
		uintptr(unsafe.Pointer(&auth)))
	return !errors.Is(err, unix.EACCES)
}

// DropMaster releases display-master privilege so another process may
// configure the device.
func (c *Card) DropMaster() error {
	return ioctl.Do(uintptr(c.file.Fd()), uintptr(ioctlDropMaster), 0)
}

// SetMaster re-acquires display-master privilege.
func (c *Card) SetMaster() error {
	return ioctl.Do(uintptr(c.file.Fd()), uintptr(ioctlSetMaster), 0)
}

func modeFromInfo(info mode.Info) Mode {
	return Mode{
		Clock:      info.Clock,
		HDisplay:   info.Hdisplay,
		HSyncStart: info.HsyncStart,
		HSyncEnd:   info.HsyncEnd,
		HTotal:     info.Htotal,
		HSkew:      info.Hskew,
		VDisplay:   info.Vdisplay,
		VSyncStart: info.VsyncStart,
		VSyncEnd:   info.VsyncEnd,
		VTotal:     info.Vtotal,
		VScan:      info.Vscan,
		VRefresh:   info.Vrefresh,
		Flags:      info.Flags,
		Type:       info.Type,
		Name:       modeName(info.Name),
	}
}

func infoFromMode(m *Mode) mode.Info {
	info := mode.Info{
		Clock:      m.Clock,
		Hdisplay:   m.HDisplay,
		HsyncStart: m.HSyncStart,
		HsyncEnd:   m.HSyncEnd,
		Htotal:     m.HTotal,
		Hskew:      m.HSkew,
		Vdisplay:   m.VDisplay,
		VsyncStart: m.VSyncStart,
		VsyncEnd:   m.VSyncEnd,
		Vtotal:     m.VTotal,
		Vscan:      m.VScan,
		Vrefresh:   m.VRefresh,
		Flags:      m.Flags,
		Type:       m.Type,
	}
	copy(info.Name[:], m.Name)
	return info
}

func modeName(raw [mode.DisplayModeLen]uint8) string {
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i])
		}
	}
	return string(raw[:])
}
