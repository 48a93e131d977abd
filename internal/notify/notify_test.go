package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	mu        sync.Mutex
	perm      Permission
	grantOn   Permission
	err       error
	shown     []string
	closed    int
	requested int
}

func (s *stubNotifier) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perm
}

func (s *stubNotifier) RequestPermission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requested++
	s.perm = s.grantOn
	return s.perm
}

func (s *stubNotifier) Notify(title, _ string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.shown = append(s.shown, title)
	return closeFunc(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed++
		return nil
	}), nil
}

func TestFanoutPermission(t *testing.T) {
	granted := &stubNotifier{perm: PermissionGranted}
	undecided := &stubNotifier{perm: PermissionDefault}
	denied := &stubNotifier{perm: PermissionDenied}

	assert.Equal(t, PermissionGranted, Fanout(denied, granted).Permission())
	assert.Equal(t, PermissionDefault, Fanout(denied, undecided).Permission())
	assert.Equal(t, PermissionDenied, Fanout(denied, nil).Permission())
	assert.Equal(t, PermissionDenied, Fanout().Permission())
}

func TestFanoutRequestsOnlyUndecided(t *testing.T) {
	granted := &stubNotifier{perm: PermissionGranted}
	undecided := &stubNotifier{perm: PermissionDefault, grantOn: PermissionGranted}

	assert.Equal(t, PermissionGranted, Fanout(granted, undecided).RequestPermission())
	assert.Zero(t, granted.requested)
	assert.Equal(t, 1, undecided.requested)
}

func TestFanoutNotifiesGrantedMembers(t *testing.T) {
	a := &stubNotifier{perm: PermissionGranted}
	b := &stubNotifier{perm: PermissionDenied}
	c := &stubNotifier{perm: PermissionGranted, err: errors.New("no display")}

	handle, err := Fanout(a, b, c).Notify("Done", "body")
	assert.ErrorContains(t, err, "no display")
	require.NotNil(t, handle)

	assert.Equal(t, []string{"Done"}, a.shown)
	assert.Empty(t, b.shown)

	require.NoError(t, handle.Close())
	require.NoError(t, handle.Close())
	assert.Equal(t, 1, a.closed)
}

func TestCallbackShowsAndHidesOnce(t *testing.T) {
	var shown []uint64
	var hidden []uint64
	cb := &Callback{
		OnShow: func(id uint64, title, body string) {
			assert.Equal(t, "Focus session complete", title)
			shown = append(shown, id)
		},
		OnHide: func(id uint64) { hidden = append(hidden, id) },
	}

	assert.Equal(t, PermissionGranted, cb.Permission())
	first, err := cb.Notify("Focus session complete", "")
	require.NoError(t, err)
	second, err := cb.Notify("Focus session complete", "")
	require.NoError(t, err)

	require.NoError(t, second.Close())
	require.NoError(t, first.Close())
	require.NoError(t, first.Close())

	assert.Equal(t, []uint64{1, 2}, shown)
	assert.Equal(t, []uint64{2, 1}, hidden)
}

func TestNoopIsDenied(t *testing.T) {
	var n Noop
	assert.Equal(t, PermissionDenied, n.RequestPermission())
	h, err := n.Notify("x", "y")
	require.NoError(t, err)
	assert.NoError(t, h.Close())
}

func TestPermissionString(t *testing.T) {
	assert.Equal(t, "default", PermissionDefault.String())
	assert.Equal(t, "granted", PermissionGranted.String())
	assert.Equal(t, "denied", PermissionDenied.String())
}
