package key

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies the host platform family for modifier mapping.
type Platform uint8

const (
	// PlatformLinux covers Linux and the BSDs.
	PlatformLinux Platform = iota
	// PlatformMac covers macOS.
	PlatformMac
	// PlatformWindows covers Windows.
	PlatformWindows
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PlatformLinux:
		return "linux"
	case PlatformMac:
		return "mac"
	case PlatformWindows:
		return "windows"
	default:
		return fmt.Sprintf("Platform(%d)", p)
	}
}

// KeepsMeta reports whether the physical meta key produces the abstract
// Meta modifier. On other platforms it is folded into Ctrl.
func (p Platform) KeepsMeta() bool {
	return p == PlatformMac
}

// ParsePlatform parses a platform name ("linux", "mac", "darwin", "macos",
// "windows", "win").
func ParsePlatform(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linux", "freebsd", "openbsd", "netbsd":
		return PlatformLinux, nil
	case "mac", "macos", "darwin", "osx":
		return PlatformMac, nil
	case "windows", "win":
		return PlatformWindows, nil
	default:
		return PlatformLinux, fmt.Errorf("unknown platform %q", name)
	}
}

// PlatformFromGOOS maps a GOOS value to a platform family.
// Unknown systems are treated as Linux.
func PlatformFromGOOS(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return PlatformMac
	case "windows":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

// CurrentPlatform returns the platform family of the running binary.
func CurrentPlatform() Platform {
	return PlatformFromGOOS(runtime.GOOS)
}
