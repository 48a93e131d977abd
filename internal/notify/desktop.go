package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

const appName = "PomFlow"

// Desktop shows OS notifications through osascript on macOS and notify-send
// elsewhere. Permission is granted once the helper binary is found.
type Desktop struct {
	mu       sync.Mutex
	perm     Permission
	goos     string
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func (d *Desktop) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.perm
}

func (d *Desktop) RequestPermission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.perm != PermissionDefault {
		return d.perm
	}
	if _, err := d.lookPath(d.helper()); err != nil {
		d.perm = PermissionDenied
	} else {
		d.perm = PermissionGranted
	}
	return d.perm
}

func (d *Desktop) Notify(title, body string) (Handle, error) {
	if d.Permission() != PermissionGranted {
		return noopHandle, nil
	}

	var err error
	if d.goos == "darwin" {
		script := fmt.Sprintf(
			`display notification "%s" with title "%s"`,
			escapeAppleScript(body), escapeAppleScript(title),
		)
		err = d.run("osascript", "-e", script)
	} else {
		err = d.run("notify-send", "--app-name="+appName, "--expire-time=5000", title, body)
	}
	if err != nil {
		return noopHandle, err
	}
	// Neither helper can retract a popup; both expire on their own.
	return noopHandle, nil
}

func (d *Desktop) helper() string {
	if d.goos == "darwin" {
		return "osascript"
	}
	return "notify-send"
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
