// Package livesign generates request signatures for live-room API calls.
//
// # Overview
//
// A signature is derived from the query parameters of a request URL, a Unix
// timestamp and a 15 character base-36 nonce. The parameters are sorted by
// key, joined with the timestamp and nonce, and folded through a 32-bit
// rolling hash. The hex digest of that hash followed by the hex timestamp is
// the signature.
//
// # Quick Start
//
//	res := livesign.Generate("https://live.douyin.com/?room_id=123", userAgent)
//	fmt.Println(res.Signature, res.Timestamp, res.Random)
//
// # Deterministic Output
//
// The clock and token source can be pinned, which makes the result fully
// reproducible:
//
//	gen := livesign.New(livesign.Config{
//	    Clock:  livesign.FixedClock(time.Unix(1700000000, 0)),
//	    Random: livesign.FixedToken("abc123def456ghi"),
//	})
//	res := gen.Generate(url, userAgent)
//
// # Error Handling
//
// Generate never returns an error. When signing fails (for example on a
// malformed percent escape) the result carries an empty Signature together
// with a fresh timestamp and nonce, and the failure is reported through the
// configured Logger and OnFault hook:
//
//	gen := livesign.New(livesign.Config{
//	    OnFault: func(err error) {
//	        var f *livesign.Fault
//	        if errors.As(err, &f) {
//	            log.Printf("sign failed at %s: %v", f.Stage, f.Err)
//	        }
//	    },
//	})
//
// # Verification
//
// Verify recomputes a signature from a URL and a previously issued
// timestamp and nonce:
//
//	ok, err := gen.Verify(url, res)
//
// The hash is a toy and offers no integrity guarantees against an
// adversary. It exists to interoperate with clients that expect it.
package livesign
