package fileio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

const mountsFixture = `proc /proc proc rw,nosuid 0 0
/dev/sda1 / ext4 rw,relatime 0 0
/dev/sda2 /home ext4 rw,relatime 0 0
fileserver:/export /mnt/nfs nfs4 rw,vers=4.2 0 0
//fileserver/share /mnt/share\040drive cifs rw 0 0
`

func fixtureProbe(t *testing.T) *MountProbe {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mounts")
	if err := os.WriteFile(path, []byte(mountsFixture), 0644); err != nil {
		t.Fatal(err)
	}
	return &MountProbe{mountsPath: path}
}

func TestIsNetworkPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("mount table parsing is Linux-only")
	}
	probe := fixtureProbe(t)

	tests := []struct {
		path string
		want bool
	}{
		{"/home/user/notes.txt", false},
		{"/etc/hosts", false},
		{"/mnt/nfs/docs/a.txt", true},
		{"/mnt/nfs", true},
		{"/mnt/nfsx/a.txt", false}, // prefix must end on a component boundary
		{"/mnt/share drive/a.txt", true},
	}
	for _, tt := range tests {
		if got := probe.IsNetworkPath(tt.path); got != tt.want {
			t.Errorf("IsNetworkPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMountPointLongestPrefix(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("mount table parsing is Linux-only")
	}
	probe := fixtureProbe(t)

	if got := probe.MountPoint("/home/user/a.txt"); got != "/home" {
		t.Errorf("MountPoint = %q, want /home", got)
	}
	if got := probe.MountPoint("/var/log/syslog"); got != "/" {
		t.Errorf("MountPoint = %q, want /", got)
	}
}

func TestCheckReachableLocalPath(t *testing.T) {
	probe := fixtureProbe(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := probe.CheckReachable(ctx, "/home/user/a.txt"); err != nil {
		t.Errorf("local path should always be reachable, got %v", err)
	}
}

func TestUnescapeMount(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`/mnt/share\040drive`, "/mnt/share drive"},
		{`/plain`, "/plain"},
		{`/tab\011here`, "/tab\there"},
	}
	for _, tt := range tests {
		if got := unescapeMount(tt.in); got != tt.want {
			t.Errorf("unescapeMount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
