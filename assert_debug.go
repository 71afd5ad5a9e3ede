//go:build ringlogdebug

package ringlog

// debugAssert panics with a ProtocolViolationError when cond is false.
// Enabled only under -tags ringlogdebug; see assert.go for the release
// no-op variant.
func debugAssert(cond bool, detail string) {
	if !cond {
		panic(&ProtocolViolationError{Detail: detail})
	}
}
