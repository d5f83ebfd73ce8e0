package splash

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, dir string, out *Output, data []byte) {
	t.Helper()
	name := filepath.Join(dir, out.ImageName(DefaultBasename))
	require.NoError(t, os.WriteFile(name, data, 0o644))
}

func TestDrawLoadsFullImageFile(t *testing.T) {
	conn, enc := hdmiConnector(1, 5, simpleMode(8, 4))
	dev := newFakeDevice([]uint32{10}, conn).addEncoder(enc)
	dir := t.TempDir()

	e, err := New(Options{Directory: dir, Device: dev, Overrides: mapOverrides{}})
	require.NoError(t, err)
	out := e.Outputs()[0]

	img := bytes.Repeat([]byte{0x12, 0x34}, len(out.Pixels)/2)
	writeImage(t, dir, out, img)

	e.Draw()
	assert.Equal(t, img, out.Pixels)
	assert.Len(t, dev.setCrtcs, 1)
}

func TestDrawToleratesShortImageFile(t *testing.T) {
	conn, enc := hdmiConnector(1, 5, simpleMode(8, 4))
	dev := newFakeDevice([]uint32{10}, conn).addEncoder(enc)
	dir := t.TempDir()

	e, err := New(Options{Directory: dir, Device: dev, Overrides: mapOverrides{}})
	require.NoError(t, err)
	out := e.Outputs()[0]

	head := bytes.Repeat([]byte{0xFF}, len(out.Pixels)/2)
	writeImage(t, dir, out, head)

	e.Draw()

	// what the file had is on screen, the rest stays black
	assert.Equal(t, head, out.Pixels[:len(head)])
	for i, b := range out.Pixels[len(head):] {
		if b != 0 {
			t.Fatalf("tail byte %d is %#x, want 0", i, b)
		}
	}
	assert.Len(t, dev.setCrtcs, 1)
}

func TestDrawWithoutImageFileStillPresents(t *testing.T) {
	conn, enc := hdmiConnector(1, 5, simpleMode(8, 4))
	dev := newFakeDevice([]uint32{10}, conn).addEncoder(enc)

	e, err := New(Options{Directory: t.TempDir(), Device: dev, Overrides: mapOverrides{}})
	require.NoError(t, err)
	out := e.Outputs()[0]

	e.Draw()
	require.Len(t, dev.setCrtcs, 1)
	for i, b := range out.Pixels {
		if b != 0 {
			t.Fatalf("byte %d is %#x, want 0", i, b)
		}
	}
}
