package usecase

import (
	"reflect"
	"testing"
)

func TestErrorCodeUsecase_Resolve(t *testing.T) {
	resolver := NewErrorCodeUsecase(newTestVocabulary(t))

	tests := []struct {
		name      string
		query     string
		wantOK    bool
		wantIssue string
	}{
		{name: "code", query: "E07", wantOK: true, wantIssue: "Motor controller overload"},
		{name: "lower case code", query: "e07", wantOK: true, wantIssue: "Motor controller overload"},
		{name: "padded code", query: "  E01 ", wantOK: true, wantIssue: "Hall sensor error"},
		{name: "symptom", query: "Battery Not Charging", wantOK: true, wantIssue: "Charger or battery management system issue"},
		{name: "partial symptom", query: "battery", wantOK: false},
		{name: "unknown code", query: "E99", wantOK: false},
		{name: "empty", query: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				record, ok := resolver.Resolve(tt.query)
				if ok != tt.wantOK {
					t.Fatalf("Resolve(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
				}
				if record.Issue != tt.wantIssue {
					t.Fatalf("Resolve(%q) issue = %q, want %q", tt.query, record.Issue, tt.wantIssue)
				}
			},
		)
	}
}

func TestErrorCodeUsecase_CaseInsensitiveCodesAreIdentical(t *testing.T) {
	resolver := NewErrorCodeUsecase(newTestVocabulary(t))

	upper, _ := resolver.Resolve("E07")
	lower, _ := resolver.Resolve("e07")
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("expected identical records, got %+v and %+v", upper, lower)
	}
}

func TestLookupToChatText(t *testing.T) {
	resolver := NewErrorCodeUsecase(newTestVocabulary(t))
	record, _ := resolver.Resolve("E07")

	want := "I'm experiencing: Motor controller overload. Error code: E07. Can you help me with this?"
	if got := LookupToChatText(record); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
