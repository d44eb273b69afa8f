package constants

import (
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"groceries", Groceries, true},
		{"  Dining  ", Dining, true},
		{"GAS", Transport, true},
		{"pharmacy", Health, true},
		{"hotel", Travel, true},
		{"streaming", Entertainment, true},
		{"other", Other, true},
		{"crypto", Other, false},
		{"", Other, false},
	}

	for _, tt := range tests {
		got, ok := Canonicalize(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonicalize(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAsStringSlice(t *testing.T) {
	cats := AsStringSlice()
	if len(cats) != len(allCategories) {
		t.Fatalf("got %d categories, want %d", len(cats), len(allCategories))
	}
	if cats[0] != "groceries" || cats[len(cats)-1] != "other" {
		t.Errorf("unexpected ordering: %v", cats)
	}
}
