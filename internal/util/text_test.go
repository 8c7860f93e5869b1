package util

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "drops stopwords and short tokens",
			text: "The battery is ok but it died",
			want: []string{"battery", "died"},
		},
		{
			name: "lowercases and splits on punctuation",
			text: "Great SCREEN, terrible-battery!",
			want: []string{"great", "screen", "terrible", "battery"},
		},
		{
			name: "numbers are not tokens",
			text: "lasted 300 days",
			want: []string{"lasted", "days"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "only stopwords",
			text: "it was the very same",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeAllKeepsStopwords(t *testing.T) {
	got := TokenizeAll("The battery is OK")
	want := []string{"the", "battery", "is", "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokenizeAll = %v, want %v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("the") {
		t.Error("expected 'the' to be a stopword")
	}
	if IsStopword("battery") {
		t.Error("did not expect 'battery' to be a stopword")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"cut with ellipsis", "hello world", 8, "hello..."},
		{"tiny max", "hello", 2, "he"},
		{"multibyte runes", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}
