// Package fingerprint collects the device metadata sent with a login call so
// the backend can enforce per-account device limits. A fingerprint is
// regenerated on every collection; the backend owns de-duplication.
package fingerprint

import (
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
)

// Fingerprint describes the runtime environment issuing a login.
type Fingerprint struct {
	DeviceID     string
	DeviceName   string
	DeviceType   string
	Client       string
	OS           string
	Platform     string
	TouchSupport bool
}

// Collect gathers a fresh fingerprint. client names the calling program
// ("sessionkit-probe/1.0" and the like); it stands in for a browser string.
func Collect(client string) Fingerprint {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "unknown-host"
	}
	if client == "" {
		client = "sessionkit"
	}

	return Fingerprint{
		DeviceID:     uuid.NewString(),
		DeviceName:   name,
		DeviceType:   deviceType(),
		Client:       client,
		OS:           runtime.GOOS,
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		TouchSupport: false,
	}
}

func deviceType() string {
	switch runtime.GOOS {
	case "android", "ios":
		return "mobile"
	default:
		return "desktop"
	}
}
