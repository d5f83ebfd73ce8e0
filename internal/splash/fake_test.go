package splash

import (
	"errors"
	"fmt"

	"github.com/splashd/splashd/internal/kms"
)

type setCrtcCall struct {
	crtcID uint32
	fbID   uint32
	connID uint32
}

type pageFlipCall struct {
	crtcID uint32
	fbID   uint32
}

// fakeDevice implements Device against an in-memory topology. Mappings are
// deliberately handed out dirty (0xAA) so tests catch a missing zero-fill.
type fakeDevice struct {
	res        *kms.Resources
	connectors map[uint32]*kms.Connector
	encoders   map[uint32]*kms.Encoder

	rowPadding uint32 // extra stride bytes per row, to mimic alignment

	failCreateDumb bool
	failAddFB      bool
	failMap        bool
	failSetCrtc    map[uint32]bool // keyed by connector id

	nextHandle uint32
	nextFB     uint32

	maps        map[uint32][]byte // live mappings by handle
	created     []uint32
	destroyed   []uint32
	addedFBs    []uint32
	removedFBs  []uint32
	unmapped    int
	setCrtcs    []setCrtcCall
	pageFlips   []pageFlipCall
	master      bool
	dropsMaster int
	closed      bool
}

func newFakeDevice(crtcs []uint32, conns ...*kms.Connector) *fakeDevice {
	d := &fakeDevice{
		res:        &kms.Resources{Crtcs: crtcs},
		connectors: make(map[uint32]*kms.Connector),
		encoders:   make(map[uint32]*kms.Encoder),
		maps:       make(map[uint32][]byte),
	}
	for _, c := range conns {
		d.res.Connectors = append(d.res.Connectors, c.ID)
		d.connectors[c.ID] = c
	}
	return d
}

func (d *fakeDevice) addEncoder(e *kms.Encoder) *fakeDevice {
	d.encoders[e.ID] = e
	return d
}

func (d *fakeDevice) Resources() (*kms.Resources, error) {
	return d.res, nil
}

func (d *fakeDevice) Connector(id uint32) (*kms.Connector, error) {
	c, ok := d.connectors[id]
	if !ok {
		return nil, fmt.Errorf("connector #%d: query failed", id)
	}
	return c, nil
}

func (d *fakeDevice) Encoder(id uint32) (*kms.Encoder, error) {
	e, ok := d.encoders[id]
	if !ok {
		return nil, fmt.Errorf("encoder #%d: query failed", id)
	}
	return e, nil
}

func (d *fakeDevice) CreateDumb(width, height, bpp uint32) (*kms.DumbBuffer, error) {
	if d.failCreateDumb {
		return nil, errors.New("create dumb refused")
	}
	d.nextHandle++
	pitch := width*bpp/8 + d.rowPadding
	d.created = append(d.created, d.nextHandle)
	return &kms.DumbBuffer{
		Handle: d.nextHandle,
		Pitch:  pitch,
		Size:   uint64(pitch) * uint64(height),
	}, nil
}

func (d *fakeDevice) DestroyDumb(handle uint32) error {
	d.destroyed = append(d.destroyed, handle)
	return nil
}

func (d *fakeDevice) AddFramebuffer(width, height, format, pitch, handle uint32) (uint32, error) {
	if d.failAddFB {
		return 0, errors.New("add framebuffer refused")
	}
	d.nextFB++
	d.addedFBs = append(d.addedFBs, d.nextFB)
	return d.nextFB, nil
}

func (d *fakeDevice) RemoveFramebuffer(id uint32) error {
	d.removedFBs = append(d.removedFBs, id)
	return nil
}

func (d *fakeDevice) MapDumb(handle uint32, size uint64) ([]byte, error) {
	if d.failMap {
		return nil, errors.New("map refused")
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xAA
	}
	d.maps[handle] = data
	return data, nil
}

func (d *fakeDevice) Unmap(data []byte) error {
	d.unmapped++
	return nil
}

func (d *fakeDevice) SetCrtc(crtcID, fbID, connID uint32, m *kms.Mode) error {
	if d.failSetCrtc[connID] {
		return errors.New("modeset refused")
	}
	d.setCrtcs = append(d.setCrtcs, setCrtcCall{crtcID, fbID, connID})
	return nil
}

func (d *fakeDevice) PageFlip(crtcID, fbID uint32) error {
	d.pageFlips = append(d.pageFlips, pageFlipCall{crtcID, fbID})
	return nil
}

func (d *fakeDevice) IsMaster() bool { return d.master }

func (d *fakeDevice) DropMaster() error {
	d.dropsMaster++
	return nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

// mapOverrides is a test OverrideSource.
type mapOverrides map[string]string

func (m mapOverrides) ModeOverride(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func simpleMode(w, h uint16) kms.Mode {
	return kms.Mode{
		HDisplay: w,
		VDisplay: h,
		VRefresh: 60,
		Name:     fmt.Sprintf("%dx%d", w, h),
	}
}

// hdmiConnector builds a connected HDMI-A connector with an idle encoder
// that can drive any CRTC.
func hdmiConnector(id, encID uint32, modes ...kms.Mode) (*kms.Connector, *kms.Encoder) {
	conn := &kms.Connector{
		ID:         id,
		Type:       11, // HDMI-A
		TypeID:     1,
		Connection: kms.Connected,
		Modes:      modes,
		Encoders:   []uint32{encID},
	}
	enc := &kms.Encoder{ID: encID, PossibleCrtcs: ^uint32(0)}
	return conn, enc
}
