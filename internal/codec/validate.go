package codec

import (
	"math"

	"github.com/pkg/errors"

	"github.com/screenworks/matcat/internal/domain"
)

// ValidateDrawing enforces the cross-field invariants of spec §3.2 that are
// not expressible as a struct tag: bar_spacings summing to width, and
// bar_widths carrying exactly one entry per bar plus its two margins. A
// Drawing failing this check is rejected at insert time; serialization
// itself never fails on it.
func ValidateDrawing(d *domain.Drawing) error {
	numBars := d.NumBars()

	if len(d.BarWidths) != numBars+2 {
		return errors.Errorf("bar_widths has %d entries, want %d (num_bars=%d + 2 margins)", len(d.BarWidths), numBars+2, numBars)
	}

	for i, width := range d.BarWidths {
		if width <= 0 {
			return errors.Errorf("bar_widths[%d] = %v, must be > 0", i, width)
		}
	}

	sum := d.SumBarSpacings()
	if !floatsEqual(sum, d.Width) {
		return errors.Errorf("sum of bar_spacings (%v) != width (%v)", sum, d.Width)
	}

	if len(d.PressDrawingHyperlinks) > 255 {
		return errors.New("press_drawing_hyperlinks exceeds the 255-entry wire limit")
	}

	for _, n := range []int{len(d.ImpactPads), len(d.DamBars), len(d.BlankSpaces), len(d.ExtraApertures), len(d.CentreHoles), len(d.Deflectors), len(d.Divertors)} {
		if n > 255 {
			return errors.New("addon list exceeds the 255-entry wire limit")
		}
	}

	return nil
}

// floatsEqual compares millimetre measurements with the epsilon the
// original implementation used for its width/spacing-sum check, tolerating
// float32 accumulation error over a realistic bar count.
func floatsEqual(a, b float32) bool {
	const epsilon = 1e-3
	return math.Abs(float64(a)-float64(b)) < epsilon
}
