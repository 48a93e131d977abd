package notify

import "errors"

type fanout []Notifier

// Fanout sends every notification to each permitted notifier.
func Fanout(notifiers ...Notifier) Notifier {
	out := make(fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Permission is granted when any member is granted, undecided when any member
// is undecided, and denied otherwise.
func (f fanout) Permission() Permission {
	result := PermissionDenied
	for _, n := range f {
		switch n.Permission() {
		case PermissionGranted:
			return PermissionGranted
		case PermissionDefault:
			result = PermissionDefault
		}
	}
	return result
}

func (f fanout) RequestPermission() Permission {
	for _, n := range f {
		if n.Permission() == PermissionDefault {
			n.RequestPermission()
		}
	}
	return f.Permission()
}

func (f fanout) Notify(title, body string) (Handle, error) {
	var handles []Handle
	var errs []error
	for _, n := range f {
		if n.Permission() != PermissionGranted {
			continue
		}
		h, err := n.Notify(title, body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		handles = append(handles, h)
	}
	return onceHandle(func() error {
		var closeErrs []error
		for _, h := range handles {
			if err := h.Close(); err != nil {
				closeErrs = append(closeErrs, err)
			}
		}
		return errors.Join(closeErrs...)
	}), errors.Join(errs...)
}
