package scraper

import "fmt"

// ExpandRange materialises every postal code of r as a zero-padded string of
// the given width. An inverted range yields no codes.
func ExpandRange(r PostalRange, width int) []string {
	if r.Upper < r.Lower {
		return nil
	}

	codes := make([]string, 0, r.Upper-r.Lower+1)
	for code := r.Lower; code <= r.Upper; code++ {
		codes = append(codes, fmt.Sprintf("%0*d", width, code))
	}
	return codes
}
