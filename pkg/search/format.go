package search

import (
	"fmt"
	"strings"
)

// Format renders a lookup response as a numbered plain-text block for
// inclusion in a model observation.
func Format(resp *Response) string {
	if resp == nil || len(resp.Results) == 0 {
		query := ""
		if resp != nil {
			query = resp.Query
		}
		return fmt.Sprintf("No results for %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n", resp.Query)
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, r.Title, r.URL)
		if r.Content != "" {
			fmt.Fprintf(&b, "%s\n", r.Content)
		}
		if r.PublishedDate != "" {
			fmt.Fprintf(&b, "Published: %s\n", r.PublishedDate)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
