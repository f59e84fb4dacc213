package query

import (
	"fmt"
	"strings"
)

// FormatSources formats the cited documents into a numbered list.
// Duplicate URLs are listed once.
func FormatSources(sources []Source) string {
	var lines []string
	seenURLs := make(map[string]bool)
	index := 1

	for _, source := range sources {
		if source.URL != "" {
			if seenURLs[source.URL] {
				continue
			}
			seenURLs[source.URL] = true
		}

		title := source.Title
		if title == "" {
			title = "Source"
		}

		switch {
		case source.URL != "":
			lines = append(lines, fmt.Sprintf("[%d] %s - %s", index, title, source.URL))
		case source.Title != "":
			lines = append(lines, fmt.Sprintf("[%d] %s", index, title))
		default:
			continue
		}
		index++
	}

	return strings.Join(lines, "\n")
}
