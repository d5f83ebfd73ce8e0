package kms

// Pixel format fourcc codes as defined by drm_fourcc.h. Stored little
// endian, so the first character ends up in the low byte.
const (
	FormatRGB565   = 'R' | 'G'<<8 | '1'<<16 | '6'<<24 // 16 bpp, [15:0] R:G:B 5:6:5
	FormatXRGB8888 = 'X' | 'R'<<8 | '2'<<16 | '4'<<24 // 32 bpp, [31:0] x:R:G:B 8:8:8:8
)

// Connector type values from drm_mode.h, indexed by the kernel's
// DRM_MODE_CONNECTOR_* constants. Names match drmModeGetConnectorTypeName.
var connectorTypeNames = []string{
	"Unknown",
	"VGA",
	"DVI-I",
	"DVI-D",
	"DVI-A",
	"Composite",
	"SVIDEO",
	"LVDS",
	"Component",
	"DIN",
	"DP",
	"HDMI-A",
	"HDMI-B",
	"TV",
	"eDP",
	"Virtual",
	"DSI",
	"DPI",
	"Writeback",
	"SPI",
	"USB",
}

// ConnectorTypeName returns the canonical name for a connector type, or ""
// if the type is not known to this table.
func ConnectorTypeName(typ uint32) string {
	if int(typ) >= len(connectorTypeNames) {
		return ""
	}
	return connectorTypeNames[typ]
}
