package fileio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/turnip-editor/turnip/internal/errors"
)

// networkFSTypes are the /proc/mounts filesystem types treated as network
// mounts. A stat against a dead mount of one of these can block for minutes,
// so the probe checks reachability with a deadline first.
var networkFSTypes = map[string]bool{
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smbfs":      true,
	"smb3":       true,
	"fuse.sshfs": true,
	"ncpfs":      true,
	"afs":        true,
	"9p":         true,
}

// DefaultReachTimeout bounds how long CheckReachable waits for a mount to
// answer a stat before declaring it unreachable.
const DefaultReachTimeout = 3 * time.Second

// MountProbe classifies paths as local or network-mounted and checks whether
// a network mount is currently answering.
type MountProbe struct {
	// mountsPath is /proc/mounts in production; tests substitute a fixture.
	mountsPath string
}

// NewMountProbe creates a probe using the system mount table.
func NewMountProbe() *MountProbe {
	return &MountProbe{mountsPath: "/proc/mounts"}
}

// IsNetworkPath reports whether path sits on a network mount. On Linux the
// mount table decides; elsewhere only UNC-style paths are recognized.
func (p *MountProbe) IsNetworkPath(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	if runtime.GOOS != "linux" || p.mountsPath == "" {
		return strings.HasPrefix(abs, `\\`) || strings.HasPrefix(abs, "//")
	}

	mount := p.mountFor(abs)
	return mount != "" && networkFSTypes[p.fsTypeOf(mount)]
}

// MountPoint returns the mount point containing path, or empty when the
// mount table cannot be read.
func (p *MountProbe) MountPoint(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return p.mountFor(abs)
}

// CheckReachable verifies that the mount holding path answers a stat within
// the context deadline (or DefaultReachTimeout when the context has none).
// Local paths always pass. A silent mount yields ErrMountUnreachable.
func (p *MountProbe) CheckReachable(ctx context.Context, path string) error {
	if !p.IsNetworkPath(path) {
		return nil
	}

	target := p.MountPoint(path)
	if target == "" {
		target = filepath.Dir(path)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultReachTimeout)
		defer cancel()
	}

	// The stat runs in its own goroutine because a dead NFS mount blocks
	// in the kernel; the goroutine is abandoned on timeout.
	done := make(chan error, 1)
	go func() {
		_, err := os.Stat(target)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.NewFileError("network mount did not answer", errors.ErrMountUnreachable).
				WithPath(path)
		}
		return nil
	case <-ctx.Done():
		return errors.NewFileError("network mount timed out", errors.ErrMountUnreachable).
			WithPath(path)
	}
}

// mountFor returns the longest mount point that prefixes abs.
func (p *MountProbe) mountFor(abs string) string {
	entries := p.readMounts()
	best := ""
	for mount := range entries {
		if pathHasPrefix(abs, mount) && len(mount) > len(best) {
			best = mount
		}
	}
	return best
}

func (p *MountProbe) fsTypeOf(mount string) string {
	return p.readMounts()[mount]
}

// readMounts parses the mount table into mountpoint -> fstype.
func (p *MountProbe) readMounts() map[string]string {
	data, err := os.ReadFile(p.mountsPath)
	if err != nil {
		return nil
	}

	mounts := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mounts[unescapeMount(fields[1])] = fields[2]
	}
	return mounts
}

// unescapeMount decodes the octal escapes /proc/mounts uses for spaces,
// tabs, newlines, and backslashes in mount points.
func unescapeMount(s string) string {
	replacer := strings.NewReplacer(
		`\040`, " ",
		`\011`, "\t",
		`\012`, "\n",
		`\134`, `\`,
	)
	return replacer.Replace(s)
}

// pathHasPrefix reports whether path is inside dir on a component boundary.
func pathHasPrefix(path, dir string) bool {
	if dir == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == dir || strings.HasPrefix(path, dir+"/")
}
