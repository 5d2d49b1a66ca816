package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/causelist/internal/database"
	"github.com/nao1215/causelist/internal/extract"
	"github.com/nao1215/causelist/internal/fetcher"
	"github.com/nao1215/causelist/internal/locator"
	"github.com/nao1215/causelist/internal/model"
	"github.com/nao1215/causelist/internal/pipeline"
	"github.com/nao1215/causelist/internal/testutil"
)

const testKey = "test-key"

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeRunner returns a fixed outcome and remembers the last request.
type fakeRunner struct {
	mu      sync.Mutex
	outcome *model.Outcome
	err     error
	calls   int
	last    model.FetchRequest
}

func (f *fakeRunner) Run(_ context.Context, req model.FetchRequest) (*model.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.outcome, f.err
}

func (f *fakeRunner) snapshot() (int, model.FetchRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.last
}

type fakeHistory struct {
	mu      sync.Mutex
	records []*database.LookupRecord
}

func (h *fakeHistory) Record(_ context.Context, r *database.LookupRecord) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return int64(len(h.records)), nil
}

func (h *fakeHistory) all() []*database.LookupRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*database.LookupRecord(nil), h.records...)
}

func newTestServer(t *testing.T, runner pipeline.Runner, opts ...Option) *httptest.Server {
	t.Helper()

	opts = append([]Option{WithAPIKey(testKey), WithLogger(quietLogger)}, opts...)
	server := httptest.NewServer(NewServer(runner, opts...).Handler())
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, server *httptest.Server, headerKey, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		server.URL+"/fetch-cause-list", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if headerKey != "" {
		req.Header.Set(APIKeyHeader, headerKey)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, data)
	}
	return body
}

const validBody = `{"date":"15052025","side":"Appellate Side","advocate":"Syed Nurul Arefin"}`

func TestHealth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRunner{})

	resp, err := server.Client().Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"status": "healthy", "service": ServiceName}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body = %v, want %v", body, want)
	}
}

func TestFetchCauseList_Success(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: model.Success([]string{"1\nFMAT/330/2023\nMR. SYED NURUL\nAREFIN"})}
	history := &fakeHistory{}
	server := newTestServer(t, runner, WithHistory(history))

	status, data := post(t, server, testKey, validBody)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, data)
	}

	var resp model.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	want := model.Response{
		Date:     "15052025",
		Side:     "Appellate Side",
		Advocate: "Syed Nurul Arefin",
		CourtURL: "https://www.calcuttahighcourt.gov.in",
		Output:   []string{"1\nFMAT/330/2023\nMR. SYED NURUL\nAREFIN"},
	}
	if !reflect.DeepEqual(resp, want) {
		t.Errorf("response = %+v, want %+v", resp, want)
	}

	if records := history.all(); len(records) != 1 || records[0].MatchCount != 1 {
		t.Errorf("history = %+v", records)
	}

	keys := []string{`"Date"`, `"Side"`, `"Advocate"`, `"Court_URL"`, `"Output"`}
	last := -1
	for _, k := range keys {
		i := bytes.Index(data, []byte(k))
		if i <= last {
			t.Errorf("field %s out of order in %s", k, data)
		}
		last = i
	}
}

func TestFetchCauseList_Unavailable(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: model.Unavailable(model.ReasonWeekendOrFetchFailure)}
	server := newTestServer(t, runner)

	status, data := post(t, server, testKey, validBody)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var resp model.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resp.Output, []string{model.UnavailableMessage}) {
		t.Errorf("Output = %v", resp.Output)
	}
}

func TestFetchCauseList_EmptySuccess(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRunner{outcome: model.Success(nil)})

	status, data := post(t, server, testKey, validBody)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !bytes.Contains(data, []byte(`"Output":[]`)) {
		t.Errorf("body = %s, want empty Output array", data)
	}
}

func TestFetchCauseList_BaseURL(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: model.Success(nil)}
	server := newTestServer(t, runner, WithDefaultBaseURL("https://mirror.example"))

	if status, _ := post(t, server, testKey, validBody); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if _, last := runner.snapshot(); last.BaseURL != "https://mirror.example" {
		t.Errorf("default BaseURL = %q", last.BaseURL)
	}

	body := `{"date":"15052025","side":"as","advocate":"X","base_url":"https://other.example/"}`
	if status, _ := post(t, server, testKey, body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if _, last := runner.snapshot(); last.BaseURL != "https://other.example" || last.Side != model.SideAppellate {
		t.Errorf("request = %+v", last)
	}
}

func TestFetchCauseList_Auth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		body      string
		wantCode  int
		wantError string
	}{
		{name: "missing key", body: validBody, wantCode: http.StatusUnauthorized, wantError: "API key required"},
		{name: "wrong header key", header: "nope", body: validBody, wantCode: http.StatusUnauthorized, wantError: "Invalid API key"},
		{
			name:      "wrong body key",
			body:      `{"date":"15052025","side":"Appellate Side","advocate":"X","api_key":"nope"}`,
			wantCode:  http.StatusUnauthorized,
			wantError: "Invalid API key",
		},
		{
			name:     "body key",
			body:     `{"date":"15052025","side":"Appellate Side","advocate":"X","api_key":"` + testKey + `"}`,
			wantCode: http.StatusOK,
		},
		{name: "header key", header: testKey, body: validBody, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t, &fakeRunner{outcome: model.Success(nil)})
			status, data := post(t, server, tt.header, tt.body)
			if status != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", status, tt.wantCode, data)
			}
			if tt.wantError != "" {
				if got := decodeError(t, data).Error; got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			}
		})
	}
}

func TestFetchCauseList_NoServerKey(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: model.Success(nil)}
	server := httptest.NewServer(NewServer(runner, WithLogger(quietLogger)).Handler())
	t.Cleanup(server.Close)

	status, _ := post(t, server, "anything", validBody)
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if calls, _ := runner.snapshot(); calls != 0 {
		t.Errorf("runner called %d times", calls)
	}
}

func TestFetchCauseList_BadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "not JSON", body: "date=15052025", wantError: "Bad request"},
		{name: "empty body", body: "", wantError: "Bad request"},
		{name: "missing advocate", body: `{"date":"15052025","side":"Appellate Side"}`, wantError: "Missing required fields"},
		{name: "blank date", body: `{"date":"  ","side":"Appellate Side","advocate":"X"}`, wantError: "Missing required fields"},
		{name: "bad date", body: `{"date":"31022025","side":"Appellate Side","advocate":"X"}`, wantError: "Invalid date format"},
		{name: "short date", body: `{"date":"1505202","side":"Appellate Side","advocate":"X"}`, wantError: "Invalid date format"},
		{name: "bad side", body: `{"date":"15052025","side":"Criminal Side","advocate":"X"}`, wantError: "Invalid side"},
		{name: "bad base URL", body: `{"date":"15052025","side":"Appellate Side","advocate":"X","base_url":"ftp://x"}`, wantError: "Invalid base URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{outcome: model.Success(nil)}
			server := newTestServer(t, runner)

			status, data := post(t, server, testKey, tt.body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", status, data)
			}
			body := decodeError(t, data)
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if body.Message == "" {
				t.Error("message is empty")
			}
			if calls, _ := runner.snapshot(); calls != 0 {
				t.Errorf("runner called %d times", calls)
			}
		})
	}
}

func TestFetchCauseList_RunnerErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid input from runner", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{err: model.NewInvalidInputError("advocate", "contains no letters or digits")}
		server := newTestServer(t, runner)

		status, data := post(t, server, testKey, `{"date":"15052025","side":"Appellate Side","advocate":"..."}`)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d", status)
		}
		if got := decodeError(t, data).Error; got != "Invalid advocate" {
			t.Errorf("error = %q", got)
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, &fakeRunner{err: errors.New("boom")})

		status, data := post(t, server, testKey, validBody)
		if status != http.StatusInternalServerError {
			t.Fatalf("status = %d", status)
		}
		if strings.Contains(string(data), "boom") {
			t.Errorf("internal error leaked: %s", data)
		}
	})
}

func TestFetchCauseList_BodyTooLarge(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRunner{outcome: model.Success(nil)}, WithMaxBodySize(32))

	status, _ := post(t, server, testKey, validBody)
	if status != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", status)
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRunner{})

	tests := []struct {
		method    string
		path      string
		wantCode  int
		wantError string
	}{
		{method: http.MethodGet, path: "/nope", wantCode: http.StatusNotFound, wantError: "Not found"},
		{method: http.MethodGet, path: "/fetch-cause-list", wantCode: http.StatusMethodNotAllowed, wantError: "Method not allowed"},
		{method: http.MethodPost, path: "/health", wantCode: http.StatusMethodNotAllowed, wantError: "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequestWithContext(context.Background(), tt.method, server.URL+tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := server.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			data, _ := io.ReadAll(resp.Body)
			if got := decodeError(t, data).Error; got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestFetchCauseList_EndToEnd(t *testing.T) {
	t.Parallel()

	pdf := testutil.BuildTextPDF([]string{
		"1",
		"FMAT/330/2023",
		"RAM KUMAR VS STATE OF WEST BENGAL",
		"MR. SYED NURUL",
		"AREFIN",
		"2",
		"WPA/12/2024",
		"MS. ANITA BOSE",
	})
	court := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/downloads/old_cause_lists/AS/cla15052025.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	t.Cleanup(court.Close)

	runner := pipeline.NewCauseList(
		locator.Default(),
		fetcher.New(court.Client(), fetcher.WithLogger(quietLogger)),
		extract.New(extract.WithLogger(quietLogger)),
		pipeline.WithLogger(quietLogger),
	)

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	server := newTestServer(t, runner, WithDefaultBaseURL(court.URL), WithHistory(db))

	status, data := post(t, server, testKey, validBody)
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, data)
	}
	var resp model.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	want := []string{"1\nFMAT/330/2023\nRAM KUMAR VS STATE OF WEST BENGAL\nMR. SYED NURUL\nAREFIN"}
	if !reflect.DeepEqual(resp.Output, want) {
		t.Errorf("Output = %q, want %q", resp.Output, want)
	}

	status, data = post(t, server, testKey, `{"date":"16052025","side":"Appellate Side","advocate":"Arefin"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !bytes.Contains(data, []byte(model.UnavailableMessage)) {
		t.Errorf("body = %s, want sentinel", data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records, err := db.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Status != "unavailable" || records[1].MatchCount != 1 {
		t.Errorf("history = %+v", records)
	}
}
