package match

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeWorklistText(t *testing.T) {
	got := Tokenize("CT Head W/O Contrast")
	want := []string{"ct", "head", "without", "contrast"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize mismatch: got %v want %v", got, want)
	}
}

func TestTokenizeSplitsInteriorPunctuation(t *testing.T) {
	got := Tokenize("CT Abd/Pelv non-contrast")
	want := []string{"ct", "abdomen", "pelvis", "non", "contrast"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize mismatch: got %v want %v", got, want)
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"CT Head W/O Contrast",
		"MRI Brain w/ and w/o contrast",
		"US Abd complete (LEFT)",
		"X-Ray Chest, 2 vws",
		"L-Spine 2 views",
		"",
	}
	for _, in := range inputs {
		first := Tokenize(in)
		second := Tokenize(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Tokenize(%q) not idempotent: %v then %v", in, first, second)
		}
	}
}

// Every abbreviation key must expand to its canonical form regardless of
// surrounding case and punctuation. Laterality expansions land in the
// stopword set and disappear entirely.
func TestAbbreviationExpansionTotal(t *testing.T) {
	for key, want := range abbreviations {
		got := Tokenize(strings.ToUpper(key) + ".")
		if stopwords[want] {
			if len(got) != 0 {
				t.Errorf("Tokenize(%q): expected stopworded expansion to vanish, got %v", key, got)
			}
			continue
		}
		if len(got) != 1 || got[0] != want {
			t.Errorf("Tokenize(%q): got %v want [%s]", key, got, want)
		}
	}
}

func TestStopwordsDropped(t *testing.T) {
	got := Tokenize("the LEFT and RIGHT of a bilateral knee")
	want := []string{"knee"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize mismatch: got %v want %v", got, want)
	}
}

func TestStrip(t *testing.T) {
	cases := map[string]string{
		"CT Head without contrast": "ctheadwithoutcontrast",
		"  X-Ray: Chest (2)  ":     "xraychest2",
		"":                         "",
	}
	for in, want := range cases {
		if got := Strip(in); got != want {
			t.Errorf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}
