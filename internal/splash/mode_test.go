package splash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashd/splashd/internal/kms"
)

func TestOverrideKey(t *testing.T) {
	tests := []struct {
		name   string
		typ    uint32
		typeID uint32
		want   string
	}{
		{"hdmi-a", 11, 1, "hdmi_a1"},
		{"dvi-i", 2, 0, "dvi_i0"},
		{"edp", 14, 1, "edp1"},
		{"dp second instance", 10, 2, "dp2"},
		{"unknown type", 99, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &kms.Connector{Type: tt.typ, TypeID: tt.typeID}
			assert.Equal(t, tt.want, overrideKey(conn))
		})
	}
}

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		width   uint32
		height  uint32
		format  string
		wantErr bool
	}{
		{"plain", "1920x1080", 1920, 1080, "", false},
		{"with format", "1280x720@XRGB8888", 1280, 720, "XRGB8888", false},
		{"missing separator", "1920", 0, 0, "", true},
		{"missing height", "1920x", 0, 0, "", true},
		{"missing width", "x1080", 0, 0, "", true},
		{"non-numeric", "widexhigh", 0, 0, "", true},
		{"empty format kept empty", "640x480@", 640, 480, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, f, err := parseOverride(tt.spec)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidOverride)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
			assert.Equal(t, tt.format, f)
		})
	}
}
