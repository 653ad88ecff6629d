package search

import "testing"

func TestEngineSearch(t *testing.T) {
	e, err := NewEngine("")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	docs := []TipDocument{
		{ID: "1", Title: "Always Stay Alert in Crowded Areas", Content: "Keep your belongings secure and be aware of your surroundings.", Category: "General Safety"},
		{ID: "2", Title: "Use Reputable Transportation", Content: "Use licensed taxis or official ride-sharing apps.", Category: "Transportation"},
		{ID: "3", Title: "Keep Emergency Numbers Handy", Content: "Save local emergency numbers and embassy contacts.", Category: "Emergency Prep"},
	}
	if err := e.IndexTips(docs); err != nil {
		t.Fatalf("IndexTips: %v", err)
	}

	t.Run("match by content", func(t *testing.T) {
		hits, err := e.Search("taxis", 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(hits) != 1 || hits[0].ID != "2" {
			t.Errorf("expected hit on doc 2, got %+v", hits)
		}
	})

	t.Run("no match", func(t *testing.T) {
		hits, err := e.Search("snowboarding", 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("expected no hits, got %+v", hits)
		}
	})
}
