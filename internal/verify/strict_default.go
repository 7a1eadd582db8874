//go:build !dwheap_strict

package verify

const strictMode = false
