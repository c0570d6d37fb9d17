package local

import (
	"context"
	"testing"
)

func TestTextSet(t *testing.T) {
	set := NewSet("No results for %q", NewTrans(Rus, "Ничего не найдено по %q"))

	tests := []struct {
		name     string
		language Language
		expected string
	}{
		{"default", Eng, `No results for "E99"`},
		{"translated", Rus, `Ничего не найдено по "E99"`},
		{"unknown falls back", Language("de"), `No results for "E99"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := set.Format(tc.language, "E99"); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{
		"":      Eng,
		"en":    Eng,
		"ru-RU": Rus,
		"RU":    Rus,
	}
	for tag, expected := range tests {
		if got := ParseLanguage(tag); got != expected {
			t.Errorf("ParseLanguage(%q) = %q, expected %q", tag, got, expected)
		}
	}
}

func TestLanguageContext(t *testing.T) {
	if got := FromContext(context.Background()); got != Eng {
		t.Fatalf("expected %s by default, got %s", Eng, got)
	}
	ctx := WithLanguage(context.Background(), Rus)
	if got := FromContext(ctx); got != Rus {
		t.Fatalf("expected %s, got %s", Rus, got)
	}
	if got := FromContext(WithLanguage(ctx, Eng)); got != Eng {
		t.Fatalf("expected the latest language %s, got %s", Eng, got)
	}
}
