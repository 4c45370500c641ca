// Package terminal renders the line-oriented REPL.
package terminal

import (
	"net/url"
	"os"

	"golang.org/x/term"
)

// extractHost extracts hostname and path from base URL for display
func extractHost(baseURL string) string {
	if baseURL == "" {
		return "default endpoint"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	host := u.Hostname()
	if u.Port() != "" {
		host += ":" + u.Port()
	}
	if host == "" {
		return baseURL
	}
	return host + u.Path
}

// StatusLine returns the bracketed banner shown above the first prompt
func StatusLine(baseURL, model string) string {
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	if username == "" {
		username = "user"
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	return statusStyle.Render("«"+Green(username)+"@"+hostname+" ─ "+Green(model)+"@"+extractHost(baseURL)+"»") + "\n"
}

// Prompt returns the input prompt
func Prompt() string {
	return Green("❯ ")
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
