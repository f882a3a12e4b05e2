package livesign

import (
	"strconv"
	"unicode/utf16"
)

// rollingHash folds s into a 32-bit signed value, h = h*31 + c, over its
// UTF-16 code units. Overflow wraps.
func rollingHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h = h*31 + hi
			h = h*31 + lo
			continue
		}
		h = h*31 + r
	}
	return h
}

// digest renders hex(|hash|) followed by hex(timestamp).
func digest(base string, timestamp int64) string {
	h := int64(rollingHash(base))
	if h < 0 {
		h = -h
	}
	return strconv.FormatInt(h, 16) + strconv.FormatInt(timestamp, 16)
}
