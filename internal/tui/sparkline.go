package tui

import "math"

// sparklineChars maps values 0..7 to Unicode block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline converts values (0..100) into a sparkline string using Unicode blocks.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		v = max(0, min(v, 100))
		idx := min(int(v/100.0*7.0), 7)
		runes[i] = sparklineChars[idx]
	}
	return string(runes)
}

// LogScale maps population totals onto 0..100 on a logarithmic axis running
// from the smallest to the largest total.
func LogScale(totals []uint64) []float64 {
	if len(totals) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	logs := make([]float64, len(totals))
	for i, n := range totals {
		logs[i] = math.Log10(float64(max(n, 1)))
		lo = min(lo, logs[i])
		hi = max(hi, logs[i])
	}
	scaled := make([]float64, len(totals))
	if hi == lo {
		return scaled
	}
	for i, l := range logs {
		scaled[i] = (l - lo) / (hi - lo) * 100
	}
	return scaled
}

// Resample picks width evenly spaced values, always keeping the first and the
// last. Series no longer than width are returned unchanged.
func Resample(values []float64, width int) []float64 {
	if width <= 0 {
		return nil
	}
	if len(values) <= width {
		return values
	}
	if width == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(width-1)
	for i := range out {
		out[i] = values[int(math.Round(float64(i)*step))]
	}
	return out
}
