package util

import (
	"log/slog"
	"math/rand"
	"strings"
	"testing"
)

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewTestLogger returns a debug-level logger that writes through t.Log.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t: t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// ShuffledFrames returns frame ids 0..n-1 in a deterministic random order.
func ShuffledFrames(n int, seed int64) []FrameID {
	rng := rand.New(rand.NewSource(seed))
	frames := make([]FrameID, n)
	for i, p := range rng.Perm(n) {
		frames[i] = FrameID(p)
	}
	return frames
}
