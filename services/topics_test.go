package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"callforscience/models"
)

func TestTopicSuggestions(t *testing.T) {
	rows := []*models.RawListing{
		raw(2, map[string]string{models.ColumnTopics: "biología; química", models.ColumnTopicsEN: "biology; chemistry"}),
		raw(3, map[string]string{models.ColumnTopics: " química ;x; física;; ", models.ColumnTopicsEN: "chemistry; physics"}),
		raw(4, map[string]string{models.ColumnTopicsEN: ""}),
		// Quarantined rows still contribute suggestions.
		raw(5, map[string]string{models.ColumnJournal: "", models.ColumnTopics: "historia", models.ColumnTopicsEN: "history"}),
	}

	tests := []struct {
		lang string
		want []string
	}{
		{LangES, []string{"biología", "química", "física", "historia"}},
		{LangEN, []string{"biology", "chemistry", "physics", "history"}},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := TopicSuggestions(rows, tt.lang)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopicSuggestionsEmpty(t *testing.T) {
	if got := TopicSuggestions(nil, LangES); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}
