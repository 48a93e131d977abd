package notify

import "sync/atomic"

// Callback forwards notifications to functions, e.g. an in-app banner. It is
// always permitted.
type Callback struct {
	OnShow func(id uint64, title, body string)
	OnHide func(id uint64)

	next atomic.Uint64
}

func (c *Callback) Permission() Permission        { return PermissionGranted }
func (c *Callback) RequestPermission() Permission { return PermissionGranted }

func (c *Callback) Notify(title, body string) (Handle, error) {
	id := c.next.Add(1)
	if c.OnShow != nil {
		c.OnShow(id, title, body)
	}
	return onceHandle(func() error {
		if c.OnHide != nil {
			c.OnHide(id)
		}
		return nil
	}), nil
}
