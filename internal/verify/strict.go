//go:build dwheap_strict

package verify

// strictMode is true when built with -tags dwheap_strict: Check panics on
// the first invariant violation instead of collecting it, for fuzz
// harnesses that want a stack trace pointing at the exact offending
// operation rather than a findings slice.
const strictMode = true
