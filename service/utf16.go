package service

import "unicode/utf16"

// utf16Len returns the length of s in UTF-16 code units, which is the unit
// the document service counts indices in. Characters outside the BMP take
// two units.
func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

// utf16Offsets returns a prefix sum array where offsets[i] is the UTF-16
// code-unit length of the first i runes of s.
func utf16Offsets(s string) []int64 {
	rs := []rune(s)
	offsets := make([]int64, len(rs)+1)
	var n int64
	for i, r := range rs {
		n += int64(len(utf16.Encode([]rune{r})))
		offsets[i+1] = n
	}
	return offsets
}
