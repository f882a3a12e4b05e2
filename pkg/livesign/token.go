package livesign

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"
)

const (
	// TokenLength is the number of characters in a nonce.
	TokenLength = 15

	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// TokenSource draws base-36 nonces.
type TokenSource interface {
	// Token returns n characters drawn from [0-9a-z].
	Token(n int) (string, error)
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func(n int) (string, error)

// Token calls f.
func (f TokenFunc) Token(n int) (string, error) { return f(n) }

// FixedToken returns a TokenSource that always yields tok.
//
// The token is returned as-is; a value that is not TokenLength base-36
// characters is rejected by the generator.
func FixedToken(tok string) TokenSource {
	return TokenFunc(func(int) (string, error) { return tok, nil })
}

// CryptoTokens is the default TokenSource, backed by crypto/rand.
var CryptoTokens TokenSource = TokenFunc(cryptoToken)

func cryptoToken(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		sb.WriteByte(base36[idx.Int64()])
	}
	return sb.String(), nil
}

// fallbackToken cannot fail. It is used when the configured source has
// already misbehaved on the fault path.
func fallbackToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[mrand.IntN(len(base36))]
	}
	return string(b)
}

// ValidToken reports whether tok is exactly TokenLength base-36 characters.
func ValidToken(tok string) bool {
	if len(tok) != TokenLength {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if strings.IndexByte(base36, tok[i]) < 0 {
			return false
		}
	}
	return true
}

// drawToken pulls one nonce from src and validates it.
func drawToken(src TokenSource) (string, error) {
	tok, err := src.Token(TokenLength)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if !ValidToken(tok) {
		return "", fmt.Errorf("%w: %q", ErrBadToken, tok)
	}
	return tok, nil
}
