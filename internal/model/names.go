package model

import (
	"cmp"
	"strings"
)

// CompareNames orders display names ignoring case, so "apple" sorts before
// "Banana". Names that differ only in case fall back to byte order.
func CompareNames(a, b string) int {
	return cmp.Or(strings.Compare(strings.ToLower(a), strings.ToLower(b)), strings.Compare(a, b))
}
