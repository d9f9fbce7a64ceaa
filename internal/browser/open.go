// Package browser opens URLs with the platform's default handler.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// startCommand launches a command without waiting for it. Replaced in tests.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens rawURL in the user's default browser. Only http and https URLs
// are accepted.
func Open(rawURL string) error {
	if rawURL == "" {
		return errors.New("browser.Open: empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("browser.Open: unsupported scheme %q", u.Scheme)
	}

	switch runtime.GOOS {
	case "darwin":
		return startCommand("open", rawURL)
	case "linux":
		return startCommand("xdg-open", rawURL)
	case "windows":
		return startCommand("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("browser.Open: unsupported OS: %s", runtime.GOOS)
	}
}
