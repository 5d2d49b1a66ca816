package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestOutcomeOutput(t *testing.T) {
	t.Parallel()

	t.Run("success with nil entries serializes as empty array", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(Success(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"Output":[]}` {
			t.Errorf("unexpected JSON %s", data)
		}
	})

	t.Run("unavailable carries the sentinel text", func(t *testing.T) {
		t.Parallel()

		out := Unavailable(ReasonWeekendOrFetchFailure).Output()
		if len(out) != 1 || out[0] != UnavailableMessage {
			t.Errorf("unexpected output %v", out)
		}
	})

	t.Run("response envelope keeps published field names", func(t *testing.T) {
		t.Parallel()

		req := FetchRequest{
			Date:         "23052025",
			Side:         SideAppellate,
			AdvocateName: "Syed Nurul Arefin",
			BaseURL:      "https://www.calcuttahighcourt.gov.in",
		}
		resp := NewResponse(req, Success([]string{"1\nFMAT/330/2023"}))
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"Date":"23052025","Side":"Appellate Side","Advocate":"Syed Nurul Arefin",` +
			`"Court_URL":"https://www.calcuttahighcourt.gov.in","Output":["1\nFMAT/330/2023"]}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
		if resp.Unavailable() {
			t.Error("expected success response")
		}
	})
}

func TestUnavailableError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch: %w", NewUnavailableError("GET failed", cause))

	if !errors.Is(err, ErrUnavailable) {
		t.Error("expected errors.Is(err, ErrUnavailable)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected underlying cause to be preserved")
	}

	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatal("expected UnavailableError")
	}
	if unavailable.Reason != ReasonWeekendOrFetchFailure {
		t.Errorf("unexpected reason %q", unavailable.Reason)
	}
}

func TestCorruptDocumentError(t *testing.T) {
	t.Parallel()

	cause := errors.New("xref missing")
	err := &CorruptDocumentError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrapped")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("corrupt document must not be reported as a fetch failure")
	}
	if IsInvalidInput(err) {
		t.Error("corrupt document is not an input error")
	}
}
