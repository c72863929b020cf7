package crawl

import (
	"fmt"
	"strings"
	"time"
)

// TruncateURL shortens a URL for display to at most maxLen characters,
// keeping the end, which tells pages apart.
func TruncateURL(url string, maxLen int) string {
	r := []rune(url)
	switch {
	case maxLen <= 0:
		return ""
	case len(r) <= maxLen:
		return url
	case maxLen < 4:
		return string(r[:maxLen])
	}
	return "..." + string(r[len(r)-maxLen+3:])
}

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// FormatTokens formats a token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatResult renders a one-line crawl summary.
func FormatResult(r *Result, elapsed time.Duration) string {
	parts := []string{fmt.Sprintf("%d saved", r.Saved)}
	if r.Unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", r.Unchanged))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	if r.Assets > 0 {
		parts = append(parts, fmt.Sprintf("%d assets", r.Assets))
	}
	return fmt.Sprintf("%s (%s, %s) in %s",
		strings.Join(parts, ", "),
		FormatBytes(r.Bytes),
		FormatTokens(r.Tokens),
		elapsed.Round(100*time.Millisecond))
}
