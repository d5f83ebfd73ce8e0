package splash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferAddFailureUnwindsDumbBuffer(t *testing.T) {
	conn, enc := hdmiConnector(1, 5, simpleMode(64, 32))
	dev := newFakeDevice([]uint32{10}, conn).addEncoder(enc)
	dev.failAddFB = true

	e, err := New(Options{Directory: t.TempDir(), Device: dev, Overrides: mapOverrides{}})
	require.NoError(t, err)

	assert.Empty(t, e.Outputs())
	assert.Equal(t, dev.created, dev.destroyed)
	assert.Empty(t, dev.addedFBs)
}

func TestMapFailureUnwindsFramebufferAndDumbBuffer(t *testing.T) {
	conn, enc := hdmiConnector(1, 5, simpleMode(64, 32))
	dev := newFakeDevice([]uint32{10}, conn).addEncoder(enc)
	dev.failMap = true

	e, err := New(Options{Directory: t.TempDir(), Device: dev, Overrides: mapOverrides{}})
	require.NoError(t, err)

	assert.Empty(t, e.Outputs())
	assert.Equal(t, dev.addedFBs, dev.removedFBs)
	assert.Equal(t, dev.created, dev.destroyed)
	assert.Zero(t, dev.unmapped)
}

func TestCreateDumbFailureSkipsConnector(t *testing.T) {
	conn, enc := hdmiConnector(1, 5, simpleMode(64, 32))
	dev := newFakeDevice([]uint32{10}, conn).addEncoder(enc)
	dev.failCreateDumb = true

	e, err := New(Options{Directory: t.TempDir(), Device: dev, Overrides: mapOverrides{}})
	require.NoError(t, err)

	assert.Empty(t, e.Outputs())
	assert.Empty(t, dev.created)
}
