// Package sanitize strips unsafe markup from user-supplied free text.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of encoded markup are unwrapped.
const maxPasses = 8

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// Text keeps basic formatting and drops scripts, handlers and unsafe links.
// Characters such as & < and " come back as the user typed them. Entities are
// decoded after every pass, so markup hidden behind them is sanitized too.
func Text(s string) string {
	out := strings.TrimSpace(s)
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(ugc().Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	return strings.TrimSpace(ugc().Sanitize(out))
}
