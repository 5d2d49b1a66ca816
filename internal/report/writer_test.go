package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/causelist/internal/model"
)

func successResponse() *model.Response {
	return &model.Response{
		Date:     "15052025",
		Side:     "Appellate Side",
		Advocate: "Syed Nurul Arefin",
		CourtURL: "https://www.calcuttahighcourt.gov.in",
		Output: []string{
			"1\nFMAT/330/2023\nRAM KUMAR VS STATE\nMR. SYED NURUL\nAREFIN",
			"7\nWPA/5/2025\nX VS Y\nSYED NURUL AREFIN",
		},
	}
}

func unavailableResponse() *model.Response {
	return &model.Response{
		Date:     "17052025",
		Side:     "Original Side",
		Advocate: "Anita Bose",
		CourtURL: "https://www.calcuttahighcourt.gov.in",
		Output:   []string{model.UnavailableMessage},
	}
}

func emptyResponse() *model.Response {
	resp := successResponse()
	resp.Output = []string{}
	return resp
}

func TestFormatHearingDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		want string
	}{
		{"15052025", "Thursday, 15th of May, 2025"},
		{"01012025", "Wednesday, 1st of January, 2025"},
		{"02062025", "Monday, 2nd of June, 2025"},
		{"23052025", "Friday, 23rd of May, 2025"},
		{"11062025", "Wednesday, 11th of June, 2025"},
		{"12062025", "Thursday, 12th of June, 2025"},
		{"13062025", "Friday, 13th of June, 2025"},
		{"31122025", "Wednesday, 31st of December, 2025"},
		{"31022025", "Date: 31022025"},
		{"bad", "Date: bad"},
	}

	for _, tt := range tests {
		if got := FormatHearingDate(tt.date); got != tt.want {
			t.Errorf("FormatHearingDate(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("single response uses the envelope field names", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(successResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		for _, key := range []string{"Date", "Side", "Advocate", "Court_URL", "Output"} {
			if _, ok := got[key]; !ok {
				t.Errorf("missing key %q in %s", key, buf.String())
			}
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("empty output is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(emptyResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"Output":[]`) {
			t.Errorf("output = %s, want empty Output array", buf.String())
		}
	})

	t.Run("several responses form an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		if _, err := w.Write(successResponse(), unavailableResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var got []model.Response
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[1].Output[0] != model.UnavailableMessage {
			t.Errorf("Output = %q", got[1].Output)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists matching entries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf, WithGenerator("causelist test")).Write(successResponse())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero byte count")
		}

		out := buf.String()
		for _, want := range []string{
			"# In The High Court at Calcutta",
			"## Appellate Jurisdiction",
			"Thursday, 15th of May, 2025",
			"Found 2 match(es)",
			"MR. SYED NURUL\nAREFIN",
			"causelist test",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("unavailable list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(unavailableResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, model.UnavailableMessage) {
			t.Errorf("output missing unavailable message:\n%s", out)
		}
		if !strings.Contains(out, "Original Jurisdiction") {
			t.Errorf("output missing jurisdiction:\n%s", out)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(emptyResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No matches found") {
			t.Errorf("output:\n%s", buf.String())
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("full output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(successResponse(), unavailableResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"IN THE HIGH COURT AT CALCUTTA",
			"Hearing Date: Thursday, 15th of May, 2025",
			"2 match(es) found",
			"[2]",
			"UNAVAILABLE - " + model.UnavailableMessage,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("quiet output holds only entries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithQuiet(true)).Write(successResponse()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		want := successResponse().Output[0] + "\n\n" + successResponse().Output[1] + "\n"
		if buf.String() != want {
			t.Errorf("output = %q, want %q", buf.String(), want)
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(...*model.Response) (int, error) {
	return 0, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	m := NewMultiWriter(NewJSONWriter(&a), NewSimpleWriter(&b))
	n, err := m.Write(successResponse())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != a.Len()+b.Len() {
		t.Errorf("n = %d, want %d", n, a.Len()+b.Len())
	}

	var c bytes.Buffer
	m = NewMultiWriter(failingWriter{}, NewJSONWriter(&c))
	if _, err := m.Write(successResponse()); err == nil {
		t.Error("expected error")
	}
	if c.Len() != 0 {
		t.Error("writer after failure was used")
	}
}
