//go:build tinygo

package app

// TinyGo has no goroutine dumps.
func captureStack() []byte { return nil }
