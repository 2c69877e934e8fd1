package sanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// UGC keeps the safe markup subset of user generated content.
func UGC(s string) string {
	return ugcPolicy.Sanitize(s)
}

// Strict strips every tag, leaving plain text.
func Strict(s string) string {
	return strictPolicy.Sanitize(s)
}
