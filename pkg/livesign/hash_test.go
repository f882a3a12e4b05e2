package livesign

import (
	"math"
	"testing"
)

func TestRollingHash(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		{"room_id=123&user_id=abc&timestamp=1700000000&random=abc123def456ghi", -1258305757},
		{"timestamp=1700000000&random=abc123def456ghi", -1418260985},
		{"a=1&timestamp=0&random=000000000000000", 1503424580},
		// Chosen so the running value lands exactly on -2^31.
		{"क\t\x1e\x0c\x02", math.MinInt32},
	}

	for _, tt := range tests {
		if got := rollingHash(tt.input); got != tt.want {
			t.Errorf("rollingHash(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRollingHash_SurrogatePairs(t *testing.T) {
	// U+1F389 is D83C DF89 in UTF-16.
	want := int32(0xD83C)*31 + int32(0xDF89)
	if got := rollingHash("\U0001F389"); got != want {
		t.Errorf("rollingHash(emoji) = %d, want %d", got, want)
	}
}

func TestDigest(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		timestamp int64
		want      string
	}{
		{
			name:      "negative hash",
			base:      "room_id=123&user_id=abc&timestamp=1700000000&random=abc123def456ghi",
			timestamp: 1700000000,
			want:      "4b0038dd6553f100",
		},
		{
			name:      "positive hash",
			base:      "a=1&timestamp=0&random=000000000000000",
			timestamp: 0,
			want:      "599c70440",
		},
		{
			name:      "min int32 does not overflow",
			base:      "क\t\x1e\x0c\x02",
			timestamp: 0,
			want:      "800000000",
		},
		{
			name:      "empty base",
			base:      "",
			timestamp: 255,
			want:      "0ff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := digest(tt.base, tt.timestamp); got != tt.want {
				t.Errorf("digest(%q, %d) = %q, want %q", tt.base, tt.timestamp, got, tt.want)
			}
		})
	}
}
