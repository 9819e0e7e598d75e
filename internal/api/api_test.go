package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/soundforge/beatscan/internal/analyze"
	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/models"
	"github.com/soundforge/beatscan/internal/scanner"
	"github.com/soundforge/beatscan/internal/testutil"
)

// fakeAnalyzer serves canned probe results keyed by base filename; files
// not in the table fail analysis.
type fakeAnalyzer struct {
	files map[string]struct {
		dur float64
		sr  int
	}
}

func (f *fakeAnalyzer) Analyze(_ context.Context, path string, _ analyze.Options) (*models.SampleRecord, error) {
	base := filepath.Base(path)
	info, ok := f.files[base]
	if !ok {
		return nil, errors.New("unreadable container")
	}
	sr := info.sr
	return &models.SampleRecord{
		Filename:        base,
		Path:            path,
		DurationSeconds: info.dur,
		SampleRate:      &sr,
	}, nil
}

func defaultFake() *fakeAnalyzer {
	return &fakeAnalyzer{files: map[string]struct {
		dur float64
		sr  int
	}{
		"a.wav":  {2.0, 44100},
		"c.flac": {5.5, 48000},
	}}
}

func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()
	db := testutil.TestDB(t)
	svc := scanner.NewService(defaultFake(), db, testutil.Logger())
	return NewRouter(svc, testutil.Logger(), authToken != "", authToken, nil)
}

func organizeBody(t *testing.T, dir string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"directory":  dir,
		"user_id":    1,
		"project_id": 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestOrganizeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.wav", "x")
	testutil.WriteFile(t, dir, "b.mp3", "x") // undecodable
	testutil.WriteFile(t, dir, "c.flac", "x")

	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader(organizeBody(t, dir)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var rep models.BatchReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rep.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(rep.Samples))
	}
	if rep.Samples[0].Filename != "a.wav" || rep.Samples[1].Filename != "c.flac" {
		t.Errorf("order = [%s %s], want [a.wav c.flac]",
			rep.Samples[0].Filename, rep.Samples[1].Filename)
	}
	if rep.Samples[0].DurationSeconds != 2.0 || rep.Samples[1].DurationSeconds != 5.5 {
		t.Errorf("durations = %v/%v, want 2.0/5.5",
			rep.Samples[0].DurationSeconds, rep.Samples[1].DurationSeconds)
	}
	if rep.Message != "Processed 2 samples" {
		t.Errorf("message = %q", rep.Message)
	}
}

func TestOrganizeInvalidJSON(t *testing.T) {
	router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader([]byte("{nope")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestOrganizeMissingFields(t *testing.T) {
	router := testEnv(t, "")
	body, _ := json.Marshal(map[string]any{"directory": ""})
	req := httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestOrganizeBadTheme(t *testing.T) {
	router := testEnv(t, "")
	body, _ := json.Marshal(map[string]any{
		"directory": t.TempDir(), "user_id": 1, "project_id": 1, "theme": "neon",
	})
	req := httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestOrganizeMissingDirectory(t *testing.T) {
	router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/organize",
		bytes.NewReader(organizeBody(t, filepath.Join(t.TempDir(), "missing"))))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for discovery failure, body = %s", w.Code, w.Body.String())
	}
}

// failingOrganizer always fails its scan with a fixed error.
type failingOrganizer struct{ err error }

func (f failingOrganizer) Scan(context.Context, scanner.Request) (*models.BatchReport, error) {
	return nil, f.err
}

func TestOrganizeFatalScanFailureIs5xx(t *testing.T) {
	svc := failingOrganizer{err: &apperr.DiscoveryError{
		Root: "/gone",
		Err:  errors.New("no such directory"),
	}}
	router := NewRouter(svc, testutil.Logger(), false, "", nil)

	req := httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader(organizeBody(t, "/gone")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code < 500 {
		t.Fatalf("status = %d, want 5xx for a scan that cannot run", w.Code)
	}
}

func TestOrganizeAuth(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.wav", "x")
	router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader(organizeBody(t, dir)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/organize", bytes.NewReader(organizeBody(t, dir)))
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status with token = %d, body = %s", w.Code, w.Body.String())
	}
}
