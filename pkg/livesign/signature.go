package livesign

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// Generator signs request URLs. It is immutable after New and safe for
// concurrent use as long as its Clock and TokenSource are.
type Generator struct {
	clock   Clock
	random  TokenSource
	logger  Logger
	onFault func(error)
}

// New creates a Generator, filling unset Config fields with defaults.
func New(cfg Config) *Generator {
	g := &Generator{
		clock:   cfg.Clock,
		random:  cfg.Random,
		logger:  cfg.Logger,
		onFault: cfg.OnFault,
	}
	if g.clock == nil {
		g.clock = ClockFunc(time.Now)
	}
	if g.random == nil {
		g.random = CryptoTokens
	}
	return g
}

var defaultGenerator = New(Config{})

// Generate signs rawURL with the wall clock and a crypto/rand nonce.
func Generate(rawURL, userAgent string) Result {
	return defaultGenerator.Generate(rawURL, userAgent)
}

// Generate produces the signature for rawURL.
//
// The signature is computed as follows:
//  1. Take the current Unix time in seconds and draw a 15 character nonce
//  2. Parse the query after the first '?', keeping only "k=v" segments
//  3. Sort keys and join them as "k=v&..." followed by the timestamp and nonce
//  4. Hash the joined string and append the hex timestamp
//
// userAgent does not contribute to the signature.
//
// Generate never fails. On a fault the returned Result has an empty
// Signature and a freshly drawn Timestamp and Random.
func (g *Generator) Generate(rawURL, userAgent string) Result {
	res, err := g.sign(rawURL, userAgent)
	if err != nil {
		g.report(rawURL, err)
		return g.fallback()
	}
	return res
}

// Verify recomputes the signature for rawURL using the timestamp and nonce
// of claimed, and compares it to claimed.Signature.
//
// A non-nil error is always a *Fault and means the inputs could not be
// signed at all.
func (g *Generator) Verify(rawURL string, claimed Result) (bool, error) {
	if !ValidToken(claimed.Random) {
		return false, &Fault{Stage: StageToken, Err: fmt.Errorf("%w: %q", ErrBadToken, claimed.Random)}
	}
	params, err := parseQuery(rawURL)
	if err != nil {
		return false, &Fault{Stage: StageQuery, Err: err}
	}
	if claimed.Signature == "" {
		return false, nil
	}

	want := digest(canonical(params, claimed.Timestamp, claimed.Random), claimed.Timestamp)
	ok := subtle.ConstantTimeCompare([]byte(want), []byte(claimed.Signature)) == 1
	g.debugf("livesign: verify %s: %t", rawURL, ok)
	return ok, nil
}

func (g *Generator) sign(rawURL, userAgent string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Fault{Stage: StagePanic, Err: fmt.Errorf("%v", r)}
		}
	}()

	timestamp := g.clock.Now().Unix()

	random, err := drawToken(g.random)
	if err != nil {
		return Result{}, &Fault{Stage: StageToken, Err: err}
	}

	params, err := parseQuery(rawURL)
	if err != nil {
		return Result{}, &Fault{Stage: StageQuery, Err: err}
	}

	base := canonical(params, timestamp, random)
	g.debugf("livesign: base=%q user_agent=%q", base, userAgent)

	return Result{
		Signature: digest(base, timestamp),
		Timestamp: timestamp,
		Random:    random,
	}, nil
}

// fallback draws a new timestamp and nonce for a faulted call. Nothing
// computed by the failed attempt is reused.
func (g *Generator) fallback() Result {
	return Result{
		Timestamp: g.safeNow().Unix(),
		Random:    g.safeToken(),
	}
}

func (g *Generator) safeNow() (t time.Time) {
	defer func() {
		if recover() != nil {
			t = time.Now()
		}
	}()
	return g.clock.Now()
}

func (g *Generator) safeToken() (tok string) {
	defer func() {
		if recover() != nil {
			tok = fallbackToken(TokenLength)
		}
	}()
	tok, err := drawToken(g.random)
	if err != nil {
		return fallbackToken(TokenLength)
	}
	return tok
}

func (g *Generator) report(rawURL string, err error) {
	if g.logger != nil {
		g.logger.Errorf("livesign: signing %s failed: %v", rawURL, err)
	}
	if g.onFault != nil {
		g.onFault(err)
	}
}

func (g *Generator) debugf(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debugf(format, args...)
	}
}
