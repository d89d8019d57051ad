package browsers

import (
	"os"
	"runtime"
)

const (
	OSMac     = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// Host describes the machine that the browsers are installed on.
type Host struct {
	OS      string
	HomeDir string
}

func CurrentHost() Host {
	home, _ := os.UserHomeDir()
	return Host{OS: runtime.GOOS, HomeDir: home}
}

func (h Host) MacOS() bool   { return h.OS == OSMac }
func (h Host) Windows() bool { return h.OS == OSWindows }
func (h Host) Linux() bool   { return h.OS == OSLinux }
