package ageclass

import "testing"

func TestClassify(t *testing.T) {
	table := DefaultTable(2026)

	tests := []struct {
		name      string
		birthYear int
		sex       Sex
		wantLabel string
		wantNil   bool
	}{
		{"senioren II m boundary", 1965, Male, "Senioren II m", false}, // age 61
		{"senioren II lower edge", 1966, Male, "Senioren II m", false}, // age 60
		{"senioren I upper edge", 1967, Male, "Senioren I m", false},   // age 59
		{"senioren II upper edge", 1962, Male, "Senioren II m", false}, // age 64
		{"senioren III lower edge", 1961, Male, "Senioren III m", false},
		{"damen I", 1990, Female, "Damen I", false},
		{"herren II", 1980, Male, "Herren II", false},
		{"schueler", 2014, Male, "Schüler m", false},
		{"jugend w", 2010, Female, "Jugend w", false},
		{"junioren II m", 2009, Male, "Junioren II m", false},
		{"open-ended seniors", 1940, Male, "Senioren V m", false},
		{"missing birth year", 0, Male, "", true},
		{"unknown sex", 1980, Unknown, "", true},
		{"empty sex", 1980, Sex(""), "", true},
		{"born after season", 2030, Male, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Classify(tt.birthYear, tt.sex)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil class, got %q", got.Label)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected class %q, got nil", tt.wantLabel)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("expected label %q, got %q", tt.wantLabel, got.Label)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	table := DefaultTable(2026)
	first := table.Classify(1965, Male)
	second := table.Classify(1965, Male)
	if first == nil || second == nil {
		t.Fatal("expected non-nil classification")
	}
	if first.Label != second.Label {
		t.Errorf("classification not deterministic: %q vs %q", first.Label, second.Label)
	}
}

func TestClassify_TableIsSeasonVersioned(t *testing.T) {
	// The same shooter moves up a class when the season advances far enough.
	born := 1966
	if got := DefaultTable(2025).Classify(born, Male); got == nil || got.Label != "Senioren I m" {
		t.Fatalf("2025 season: expected Senioren I m, got %v", got)
	}
	if got := DefaultTable(2026).Classify(born, Male); got == nil || got.Label != "Senioren II m" {
		t.Fatalf("2026 season: expected Senioren II m, got %v", got)
	}
}
