package tokenize

import (
	"slices"
	"testing"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty string",
			text: "",
			want: nil,
		},
		{
			name: "only punctuation",
			text: " ,.?! ",
			want: nil,
		},
		{
			name: "case folding and punctuation",
			text: "The population, the population, the population",
			want: []string{"the", "population", "the", "population", "the", "population"},
		},
		{
			name: "comma inside text",
			text: "It was a warm, bright day at the end of August.",
			want: []string{"it", "was", "a", "warm", "bright", "day", "at", "the", "end", "of", "august"},
		},
		{
			name: "typographic apostrophe splits",
			text: "I’ve fallen",
			want: []string{"i", "ve", "fallen"},
		},
		{
			name: "digits and underscores kept",
			text: "test_123 hello-world",
			want: []string{"test_123", "hello", "world"},
		},
		{
			name: "accented letters",
			text: "Café naïve",
			want: []string{"café", "naïve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Words(tt.text))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Words(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWordsStopsEarly(t *testing.T) {
	var got []string
	for token := range Words("one two three four") {
		got = append(got, token)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"one", "two"}) {
		t.Errorf("early break collected %q", got)
	}
}

func TestFields(t *testing.T) {
	got := Fields("The population,  the\tpopulation")
	want := []string{"The", "population,", "the", "population"}
	if !slices.Equal(got, want) {
		t.Errorf("Fields() = %q, want %q", got, want)
	}
}

func TestCount(t *testing.T) {
	got := Count(Words("The population, the population, the population"))
	if len(got) != 2 || got["the"] != 3 || got["population"] != 3 {
		t.Errorf("Count() = %v, want map[population:3 the:3]", got)
	}

	if empty := Count(Words("")); len(empty) != 0 {
		t.Errorf("Count() of empty text = %v, want empty map", empty)
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language string
		want     []string
	}{
		{
			name:     "english default",
			text:     "jumps running",
			language: "",
			want:     []string{"jump", "run"},
		},
		{
			name:     "unknown language passes through",
			text:     "jumps running",
			language: "klingon",
			want:     []string{"jumps", "running"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Stem(Words(tt.text), tt.language))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Stem() = %q, want %q", got, tt.want)
			}
		})
	}
}
