package format

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string,
// keeping a leading minus sign: "1234567" becomes "1,234,567".
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.Grow(len(sign) + n + (n-1)/3)
	b.WriteString(sign)
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatCount renders a population count with thousands separators.
func FormatCount(n uint64) string {
	return FormatNumberString(strconv.FormatUint(n, 10))
}

// FormatBytes renders a byte count with a binary unit, e.g. "1.5 KiB".
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
