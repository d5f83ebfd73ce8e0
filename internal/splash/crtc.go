package splash

import (
	"fmt"

	"github.com/splashd/splashd/internal/kms"
	"github.com/splashd/splashd/internal/logger"
)

// assignCrtc gives the output a CRTC no earlier output in this batch has
// claimed. The connector's current encoder+CRTC pair is reused when free,
// which avoids a mode-set; every other path needs one.
//
// The search is greedy and never backtracks: encoders and CRTCs are tried
// in the order the kernel reports them and the first compatible, unclaimed
// CRTC wins. A later connector can therefore starve even when a different
// earlier assignment would have served everyone.
func (e *Engine) assignCrtc(res *kms.Resources, conn *kms.Connector, out *Output, claimed map[uint32]bool) error {
	if conn.EncoderID != 0 {
		enc, err := e.dev.Encoder(conn.EncoderID)
		if err != nil {
			logger.Warnf("cannot retrieve encoder #%d: %v", conn.EncoderID, err)
		} else if enc.CrtcID == 0 {
			logger.Debugf("encoder #%d has no active crtc", enc.ID)
		} else if claimed[enc.CrtcID] {
			logger.Debugf("encoder #%d uses crtc #%d, but that is taken", enc.ID, enc.CrtcID)
		} else {
			logger.Debugf("connector #%d keeps encoder #%d / crtc #%d", conn.ID, enc.ID, enc.CrtcID)
			out.CrtcID = enc.CrtcID
			claimed[enc.CrtcID] = true
			return nil
		}
	} else {
		logger.Debugf("connector #%d has no active encoder", conn.ID)
	}

	// The current wiring is unusable, so a full mode-set is required once
	// a CRTC is found.
	out.NeedsModeset = true

	for _, encID := range conn.Encoders {
		enc, err := e.dev.Encoder(encID)
		if err != nil {
			logger.Warnf("cannot retrieve encoder #%d: %v", encID, err)
			continue
		}
		for idx, crtcID := range res.Crtcs {
			if enc.PossibleCrtcs&(1<<uint(idx)) == 0 {
				continue
			}
			if claimed[crtcID] {
				continue
			}
			logger.Debugf("connector #%d will use encoder #%d / crtc #%d", conn.ID, enc.ID, crtcID)
			out.CrtcID = crtcID
			claimed[crtcID] = true
			return nil
		}
	}

	return fmt.Errorf("connector #%d: %w", conn.ID, ErrNoCrtc)
}
