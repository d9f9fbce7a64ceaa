package tui

import (
	"errors"
	"fmt"

	"github.com/naveenspark/studyhall/pkg/client"
)

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// errorText turns a submit failure into one line for the form. API errors
// show the server's detail; everything else its error string.
func errorText(err error) string {
	var reqErr *client.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("%s (HTTP %d)", reqErr.Message(), reqErr.StatusCode)
	}
	var parseErr *client.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("unreadable response from server (HTTP %d)", parseErr.StatusCode)
	}
	return err.Error()
}
