// Package htmlsanitize strips unsafe HTML from rich-text input.
//
// Task and template details arrive from the SPA's rich-text editor as
// HTML fragments. Everything user-authored is run through a bluemonday
// UGC policy before storage, so scripts, event handlers, and
// javascript: URLs never reach the database.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe HTML removed. Safe formatting tags
// (p, strong, em, lists, links with http/https hrefs) are preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
