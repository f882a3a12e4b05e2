package livesign

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseQuery extracts key/value pairs from everything after the first '?'.
//
// Pairs are split on '&' and then on '='. Only segments holding exactly one
// '=' survive; values are percent-decoded without treating '+' as a space.
// A later duplicate key replaces an earlier one.
func parseQuery(rawURL string) (map[string]string, error) {
	if !utf8.ValidString(rawURL) {
		return nil, ErrInvalidEncoding
	}

	params := make(map[string]string)
	idx := strings.IndexByte(rawURL, '?')
	if idx < 0 {
		return params, nil
	}

	for _, pair := range strings.Split(rawURL[idx+1:], "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			continue
		}
		value, err := url.PathUnescape(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedEscape, kv[1])
		}
		if !utf8.ValidString(value) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, kv[1])
		}
		params[kv[0]] = value
	}
	return params, nil
}

// canonical builds the string that gets hashed:
// "k1=v1&k2=v2&timestamp=<ts>&random=<tok>" with keys in byte order.
func canonical(params map[string]string, timestamp int64, random string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
		sb.WriteByte('&')
	}
	sb.WriteString("timestamp=")
	sb.WriteString(strconv.FormatInt(timestamp, 10))
	sb.WriteString("&random=")
	sb.WriteString(random)
	return sb.String()
}
