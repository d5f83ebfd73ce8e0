// Package kms is the raw DRM/KMS transport: device probing, resource and
// connector queries, dumb buffer management and the mode-set/page-flip
// ioctls. It converts the kernel's wire structures into plain types so the
// splash engine never touches the DRM library directly.
package kms

// ConnectionState mirrors the kernel's connector connection status.
type ConnectionState uint8

const (
	Connected         ConnectionState = 1
	Disconnected      ConnectionState = 2
	UnknownConnection ConnectionState = 3
)

// Resources lists the CRTC and connector object ids a card exposes, in the
// order the kernel reports them.
type Resources struct {
	Crtcs      []uint32
	Connectors []uint32
}

// Mode is one display timing advertised by a connector.
type Mode struct {
	Clock uint32

	HDisplay, HSyncStart, HSyncEnd, HTotal, HSkew uint16
	VDisplay, VSyncStart, VSyncEnd, VTotal, VScan uint16

	VRefresh uint32

	Flags uint32
	Type  uint32
	Name  string
}

// Connector describes one physical output port.
type Connector struct {
	ID         uint32
	EncoderID  uint32 // currently attached encoder, 0 if none
	Type       uint32
	TypeID     uint32 // instance index within the type, e.g. the 1 in HDMI-A-1
	Connection ConnectionState
	Modes      []Mode
	Encoders   []uint32 // candidate encoder ids for this connector
}

// Encoder describes a signal encoder and the CRTCs it can be fed from.
type Encoder struct {
	ID            uint32
	CrtcID        uint32 // currently attached CRTC, 0 if none
	PossibleCrtcs uint32 // bitmask over the index of Resources.Crtcs
}

// DumbBuffer is a kernel-allocated, CPU-mappable scan-out buffer.
type DumbBuffer struct {
	Handle uint32
	Pitch  uint32
	Size   uint64
}
