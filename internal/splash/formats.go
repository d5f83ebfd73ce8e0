package splash

import "github.com/splashd/splashd/internal/kms"

// Format is one supported pixel format. Image files are expected to carry
// raw pixel data in this format at the buffer's native stride.
type Format struct {
	FourCC uint32
	BPP    uint32
	Name   string
}

// The first entry is the default.
var formats = []Format{
	{kms.FormatRGB565, 16, "RGB565"},
	{kms.FormatXRGB8888, 32, "XRGB8888"},
}

// DefaultFormat returns the format used when no override names one.
func DefaultFormat() Format {
	return formats[0]
}

// FormatByName looks a format up by its exact, case-sensitive name.
func FormatByName(name string) (Format, bool) {
	for _, f := range formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}
