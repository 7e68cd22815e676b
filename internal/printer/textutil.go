package printer

import "fmt"

// FormatBytes returns a human-readable file size for the listing columns.
// Examples: "0 B", "512 B", "1.5 KB", "700 MB", "10.0 GB".
func FormatBytes(size int64) string {
	if size < 0 {
		return "0 B"
	}

	const (
		kb = int64(1024)
		mb = 1024 * kb
		gb = 1024 * mb
		tb = 1024 * gb
	)

	switch {
	case size >= tb:
		return fmt.Sprintf("%.1f TB", float64(size)/float64(tb))
	case size >= gb:
		return fmt.Sprintf("%.1f GB", float64(size)/float64(gb))
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(mb))
	case size >= kb:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// Ellipsis truncates a string to max runes for display, appending an
// ellipsis when it cut something. Truncation is presentation-only and never
// applied to stored data.
func Ellipsis(s string, max int) string {
	if max <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
