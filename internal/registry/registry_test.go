package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-signage/lumen/internal/model"
)

type fakeConn struct {
	closed bool
	sent   []model.Envelope
}

func (f *fakeConn) Send(env model.Envelope) error {
	f.sent = append(f.sent, env)
	return nil
}
func (f *fakeConn) Close()       { f.closed = true }
func (f *fakeConn) Kind() string { return "fake" }

func TestRegisterReplacesPriorConnection(t *testing.T) {
	r := New()
	first := &fakeConn{}
	second := &fakeConn{}

	assert.Nil(t, r.Register("screen-1", first))
	assert.Equal(t, 1, r.Count())

	replaced := r.Register("screen-1", second)
	assert.Same(t, first, replaced)
	assert.True(t, first.closed, "replaced connection must be closed")
	assert.Equal(t, 1, r.Count(), "one live connection per screen id")

	got, ok := r.Get("screen-1")
	assert.True(t, ok)
	assert.Same(t, second, got)
}

func TestUnregisterIgnoresStaleHandle(t *testing.T) {
	r := New()
	first := &fakeConn{}
	second := &fakeConn{}
	r.Register("screen-1", first)
	r.Register("screen-1", second)

	// The replaced connection's late disconnect must not evict the successor.
	assert.False(t, r.Unregister("screen-1", first))
	assert.True(t, r.IsOnline("screen-1"))

	assert.True(t, r.Unregister("screen-1", second))
	assert.False(t, r.IsOnline("screen-1"))
}

func TestSnapshotIsDetached(t *testing.T) {
	r := New()
	r.Register("a", &fakeConn{})
	snap := r.Snapshot()

	r.Register("b", &fakeConn{})
	assert.Len(t, snap, 1, "snapshot must not see later registrations")
	assert.Equal(t, 2, r.Count())
}
