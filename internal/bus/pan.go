package bus

import (
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// PanDeadZone is the half-width, in SoundFont pan units (0.1%, -500..500),
// of the centre region where both channels receive the same product.
const PanDeadZone = 0.5

// ApplyPan adds buf into left and right with the given channel gains. Inside
// the centre dead zone, when both gains are equal and both channels are
// present, buf is scaled once and the product is added to both channels.
// Otherwise each channel is scaled on its own; a nil channel or one with
// gain exactly 0 is not touched. The two paths produce the same signal.
// scratch must hold len(buf) samples.
func ApplyPan[F simdops.Float](buf, left, right, scratch []F, gainL, gainR, pan F) {
	ops := simdops.For[F]()
	n := len(buf)

	if pan > -PanDeadZone && pan < PanDeadZone && gainL == gainR &&
		gainL != 0 && left != nil && right != nil {
		tmp := scratch[:n]
		ops.Scale(tmp, buf, gainL)
		ops.Add(left[:n], left[:n], tmp)
		ops.Add(right[:n], right[:n], tmp)
		return
	}

	if left != nil && gainL != 0 {
		ops.AddScaled(left, buf, scratch, gainL)
	}
	if right != nil && gainR != 0 {
		ops.AddScaled(right, buf, scratch, gainR)
	}
}

// ApplySend adds gain·buf into dst. A nil dst or a zero gain is an inactive
// send and leaves everything untouched. scratch must hold len(buf) samples.
func ApplySend[F simdops.Float](buf, dst, scratch []F, gain F) {
	if dst == nil || gain == 0 {
		return
	}
	simdops.For[F]().AddScaled(dst, buf, scratch, gain)
}
