package tui

// truncate shortens s to max characters with an ellipsis. Counts
// runes, not bytes, so multibyte names are cut cleanly.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
