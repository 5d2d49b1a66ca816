package match

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nao1215/causelist/internal/model"
)

func entry(lines ...string) model.Entry {
	return model.Entry{Page: 1, Lines: lines}
}

func TestMatch_SplitName(t *testing.T) {
	t.Parallel()

	entries := []model.Entry{
		entry("1", "FMAT/330/2023", "RAM KUMAR VS STATE OF WEST BENGAL", "MR. SYED NURUL", "AREFIN"),
		entry("2", "WPA/12/2024", "SHYAM VS UNION OF INDIA", "MS. ANITA BOSE"),
	}

	got, err := Match(entries, "Syed Nurul Arefin")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := []string{"1\nFMAT/330/2023\nRAM KUMAR VS STATE OF WEST BENGAL\nMR. SYED NURUL\nAREFIN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %q, want %q", got, want)
	}
}

func TestMatch_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	entries := []model.Entry{
		entry("1", "A VS B", "SYED NURUL AREFIN"),
		entry("2", "C VS D", "syed  nurul\tarefin"),
		entry("3", "E VS F", "SOMEONE ELSE"),
	}

	first, err := Match(entries, "Syed Nurul Arefin")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Match(entries, "syed   nurul arefin")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %q vs %q", first, second)
	}
	if len(first) != 2 {
		t.Errorf("matches = %d, want 2", len(first))
	}
}

func TestMatcher_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		advocate string
		text     string
		want     bool
	}{
		{name: "exact", advocate: "Anita Bose", text: "ANITA BOSE", want: true},
		{name: "title in request", advocate: "Mr. Syed Nurul Arefin", text: "SYED NURUL AREFIN", want: true},
		{name: "title in text", advocate: "Anita Bose", text: "MS.ANITA BOSE", want: true},
		{name: "reversed order", advocate: "Anita Bose", text: "BOSE, ANITA", want: true},
		{name: "tokens spread over lines", advocate: "Anita Bose", text: "BOSE\nFOR ANITA", want: true},
		{name: "partial word", advocate: "Sen", text: "SENGUPTA", want: true},
		{name: "name glued to next word", advocate: "Syed Nurul Arefin", text: "SYED NURUL AREFINFOR APPELLANT", want: true},
		{name: "tokens glued to other words", advocate: "Anita Bose", text: "BOSEFOR ANITAS", want: true},
		{name: "missing token", advocate: "Anita Bose", text: "ANITA SEN", want: false},
		{name: "punctuation in name", advocate: "P.K. Das", text: "P. K. DAS", want: true},
		{name: "full width characters", advocate: "Ａｎｉｔａ Bose", text: "ANITA BOSE", want: true},
		{name: "empty text", advocate: "Anita", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := New(tt.advocate)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := m.Matches(tt.text); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatch_KeepsOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	entries := []model.Entry{
		entry("1", "X", "A. BOSE"),
		entry("2", "Y", "OTHER"),
		entry("3", "Z", "A. BOSE"),
		entry("3", "Z", "A. BOSE"),
	}

	got, err := Match(entries, "A Bose")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1\nX\nA. BOSE", "3\nZ\nA. BOSE", "3\nZ\nA. BOSE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %q, want %q", got, want)
	}
}

func TestMatch_NoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := Match([]model.Entry{entry("1", "A VS B")}, "Nobody")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Match() = %#v, want empty non-nil slice", got)
	}
}

func TestNew_EmptyName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "Mr.", "...", "Dr Mrs"} {
		_, err := New(name)
		var invalid *model.InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("New(%q) error = %v, want InvalidInputError", name, err)
			continue
		}
		if invalid.Field != "advocate" {
			t.Errorf("Field = %q, want advocate", invalid.Field)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  Mr.  SYED\nNurul   Arefin ": "syed nurul arefin",
		"D'Souza":                      "d souza",
		"STRASSE":                      "strasse",
		"Dr. A.K. Roy":                 "a k roy",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
