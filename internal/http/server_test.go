package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"billsplit/internal/roster/memory"
)

func newTestServer(t *testing.T, names ...string) *Server {
	t.Helper()
	store := memory.New(names)
	srv := NewServer(":0", store, store)
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.rateLimiter.stop()
	})
	return srv
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t, "Alice", "Bob")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Split the Bill") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestSplitMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/split", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestSplitProportional(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"name":   {"Alice", "Bob"},
		"amount": {"10", "30"},
		"other":  {"8"},
	}
	rr := postForm(srv, "/split", form)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	for _, want := range []string{"Alice", "Bob", "12.00", "36.00", "48.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "split:computed") {
		t.Errorf("missing split:computed trigger, got %q", rr.Header().Get("HX-Trigger"))
	}
}

func TestSplitExpressionAmounts(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"name":   {"Alice", "Bob"},
		"amount": {"7+5/2", "2*2*2"},
		"other":  {""},
	}
	rr := postForm(srv, "/split", form)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "9.50") || !strings.Contains(body, "8.00") {
		t.Errorf("expression amounts not evaluated:\n%s", body)
	}
}

func TestSplitInvalidExpressionWarnsAndCountsZero(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"name":   {"Alice", "Bob"},
		"amount": {"import os", "10"},
		"other":  {"2"},
	}
	rr := postForm(srv, "/split", form)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "warning") {
		t.Errorf("expected warning for invalid expression:\n%s", body)
	}
	// Alice contributes 0 so Bob absorbs all charges
	if !strings.Contains(body, "12.00") {
		t.Errorf("expected Bob to owe 12.00:\n%s", body)
	}
}

func TestSplitEmptyOutcomeKeepsWarnings(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"name":   {"Alice"},
		"amount": {"import os"},
		"other":  {""},
	}
	rr := postForm(srv, "/split", form)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Nothing to calculate") {
		t.Errorf("expected empty outcome message:\n%s", body)
	}
	// The invalid entry counted as zero, but the user must still see why
	if !strings.Contains(body, "warning") || !strings.Contains(body, "invalid amount") {
		t.Errorf("expected invalid amount warning alongside the empty outcome:\n%s", body)
	}
}

func TestSplitNothingToCalculate(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/split", url.Values{})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Nothing to calculate") {
		t.Errorf("expected empty outcome message:\n%s", rr.Body.String())
	}
}

func TestSplitEqualFallback(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"name":   {"Alice", "Bob"},
		"amount": {"0", "0"},
		"other":  {"10"},
	}
	rr := postForm(srv, "/split", form)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "split equally") {
		t.Errorf("expected equal split note:\n%s", body)
	}
	if strings.Count(body, "5.00") < 2 {
		t.Errorf("expected both shares to be 5.00:\n%s", body)
	}
}

func TestEvaluateHandler(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/evaluate", url.Values{"expression": {"2+2*2"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "6") {
		t.Errorf("expected 6 in body: %s", rr.Body.String())
	}

	rr = postForm(srv, "/evaluate", url.Values{"expression": {"1+"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestEvaluateAcceptsJSONBody(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{"expression":"3*4"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "12") {
		t.Errorf("expected 12 in body: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{"expression":`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rr.Code)
	}
}

func TestPeopleListAndAdd(t *testing.T) {
	srv := newTestServer(t, "Alice")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/people", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Alice") {
		t.Errorf("expected Alice in options: %s", rr.Body.String())
	}

	rr = postForm(srv, "/people", url.Values{"person_name": {"Bob"}})
	if rr.Code != 200 {
		t.Fatalf("add status=%d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "person:added") {
		t.Errorf("missing person:added trigger")
	}

	// Cache was invalidated, so the new name shows up
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/people", nil)
	srv.Handler.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), "Bob") {
		t.Errorf("expected Bob in options after add: %s", rr.Body.String())
	}

	// Duplicate and blank names are rejected
	rr = postForm(srv, "/people", url.Values{"person_name": {"Bob"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate add status=%d, want 422", rr.Code)
	}
	rr = postForm(srv, "/people", url.Values{"person_name": {"   "}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank add status=%d, want 422", rr.Code)
	}
}
