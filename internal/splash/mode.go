package splash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/splashd/splashd/internal/kms"
	"github.com/splashd/splashd/internal/logger"
)

// OverrideSource supplies optional per-output mode overrides of the form
// "WxH" or "WxH@FORMAT", looked up by a key derived from the connector
// type and instance (e.g. "hdmi_a1").
type OverrideSource interface {
	ModeOverride(key string) (string, bool)
}

type noOverrides struct{}

func (noOverrides) ModeOverride(string) (string, bool) { return "", false }

// overrideKey derives the lookup key for a connector: the type name
// lowercased with non-alphanumeric runes turned into underscores, followed
// by the per-type instance index. Returns "" for unknown connector types.
func overrideKey(conn *kms.Connector) string {
	name := kms.ConnectorTypeName(conn.Type)
	if name == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString(strconv.FormatUint(uint64(conn.TypeID), 10))
	return b.String()
}

// parseOverride splits "WxH" or "WxH@FORMAT". Width and height are
// required, the format name is optional.
func parseOverride(spec string) (width, height uint32, format string, err error) {
	res := spec
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		res, format = spec[:at], spec[at+1:]
	}
	w, h, ok := strings.Cut(res, "x")
	if !ok {
		return 0, 0, "", fmt.Errorf("%w: %q", ErrInvalidOverride, spec)
	}
	wv, werr := strconv.ParseUint(w, 10, 32)
	hv, herr := strconv.ParseUint(h, 10, 32)
	if werr != nil || herr != nil {
		return 0, 0, "", fmt.Errorf("%w: %q", ErrInvalidOverride, spec)
	}
	return uint32(wv), uint32(hv), format, nil
}

// selectMode picks the output's timing and pixel format: an override if one
// is configured, otherwise the connector's first advertised mode and the
// default format.
func (e *Engine) selectMode(conn *kms.Connector, out *Output) error {
	key := overrideKey(conn)
	if key == "" {
		logger.Warnf("no type name for connector #%d type %d", conn.ID, conn.Type)
		return e.selectDefaultMode(conn, out)
	}

	spec, ok := e.overrides.ModeOverride(key)
	if !ok {
		return e.selectDefaultMode(conn, out)
	}

	width, height, fmtName, err := parseOverride(spec)
	if err != nil {
		return fmt.Errorf("connector #%d (%s): %w", conn.ID, key, err)
	}

	matched := false
	for _, m := range conn.Modes {
		if uint32(m.HDisplay) == width && uint32(m.VDisplay) == height {
			out.Mode = m
			out.Width = width
			out.Height = height
			matched = true
			break
		}
	}
	if !matched {
		return fmt.Errorf("connector #%d: %w: %dx%d", conn.ID, ErrNoMatchingMode, width, height)
	}

	if fmtName != "" {
		if f, ok := FormatByName(fmtName); ok {
			out.Format = f
			return nil
		}
		logger.Warnf("unknown format specifier %q for connector #%d", fmtName, conn.ID)
	}
	out.Format = DefaultFormat()
	return nil
}

func (e *Engine) selectDefaultMode(conn *kms.Connector, out *Output) error {
	out.Mode = conn.Modes[0]
	out.Width = uint32(conn.Modes[0].HDisplay)
	out.Height = uint32(conn.Modes[0].VDisplay)
	out.Format = DefaultFormat()
	logger.Debugf("using default mode for connector #%d", conn.ID)
	return nil
}
