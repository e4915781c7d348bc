package styles

import "math"

// RGB is a color with float channels in 0-255.
type RGB struct {
	R, G, B float64
}

// MinTextContrast is the WCAG AA ratio body text needs against its
// background.
const MinTextContrast = 4.5

// TextContrast is the worst ratio between the variant's primary text and
// any of its three background shades.
func TextContrast(t Theme) float64 {
	fg := luminance(HexToRGB(t.Colors.TextPrimary))
	worst := math.Inf(1)
	for _, hex := range []string{t.Colors.BgPrimary, t.Colors.BgSecondary, t.Colors.BgTertiary} {
		worst = math.Min(worst, ratio(fg, luminance(HexToRGB(hex))))
	}
	return worst
}

// Readable reports whether the variant meets MinTextContrast.
func (t Theme) Readable() bool {
	return TextContrast(t) >= MinTextContrast
}

func ratio(a, b float64) float64 {
	return (math.Max(a, b) + 0.05) / (math.Min(a, b) + 0.05)
}

// luminance is the WCAG relative luminance of c.
func luminance(c RGB) float64 {
	var sum float64
	for i, v := range []float64{c.R, c.G, c.B} {
		s := v / 255
		if s <= 0.03928 {
			s /= 12.92
		} else {
			s = math.Pow((s+0.055)/1.055, 2.4)
		}
		sum += [3]float64{0.2126, 0.7152, 0.0722}[i] * s
	}
	return sum
}
