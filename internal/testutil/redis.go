package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"studentblog/internal/cache"
)

// NewRedis starts an in-process Redis and returns a cache client connected to
// it. The server is stopped when the test ends.
func NewRedis(t testing.TB) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}
