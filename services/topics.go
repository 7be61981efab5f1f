package services

import (
	"strings"
	"unicode/utf8"

	"callforscience/models"
)

// TopicSuggestions returns the distinct topic keywords for lang across every
// parsed row, quarantined rows included, in first-seen order. Single-character
// tokens are dropped.
func TopicSuggestions(rows []*models.RawListing, lang string) []string {
	column := models.ColumnTopics
	if NormaliseLang(lang) == LangEN {
		column = models.ColumnTopicsEN
	}

	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		for _, kw := range strings.Split(r.Get(column), ";") {
			kw = strings.TrimSpace(kw)
			if utf8.RuneCountInString(kw) <= 1 {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
