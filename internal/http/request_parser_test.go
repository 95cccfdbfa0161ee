package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseParticipants(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want []Participant
	}{
		{
			name: "paired fields preserve order",
			form: url.Values{
				"name":   {"Alice", "Bob", "Cara"},
				"amount": {"10", "20.5", "1+2"},
			},
			want: []Participant{
				{Name: "Alice", Amount: "10"},
				{Name: "Bob", Amount: "20.5"},
				{Name: "Cara", Amount: "1+2"},
			},
		},
		{
			name: "extra amounts dropped",
			form: url.Values{
				"name":   {"Alice"},
				"amount": {"10", "20"},
			},
			want: []Participant{{Name: "Alice", Amount: "10"}},
		},
		{
			name: "extra names dropped",
			form: url.Values{
				"name":   {"Alice", "Bob"},
				"amount": {"10"},
			},
			want: []Participant{{Name: "Alice", Amount: "10"}},
		},
		{
			name: "whitespace trimmed",
			form: url.Values{
				"name":   {"  Alice  "},
				"amount": {"  10  "},
			},
			want: []Participant{{Name: "Alice", Amount: "10"}},
		},
		{
			name: "empty form",
			form: url.Values{},
			want: []Participant{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParticipants(tt.form)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d participants, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("participant[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRequirePOST(t *testing.T) {
	if resp := RequirePOST(httptest.NewRequest(http.MethodPost, "/", nil)); resp != nil {
		t.Error("POST should be allowed")
	}
	if resp := RequirePOST(httptest.NewRequest(http.MethodGet, "/", nil)); resp == nil {
		t.Error("GET should be rejected")
	}
}

func TestRequestBodyParser(t *testing.T) {
	t.Run("form body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("expression=1%2B2&name=Alice"))
		p := NewRequestBodyParser(req)
		if err := p.Parse(); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if p.IsJSON() {
			t.Error("form body reported as JSON")
		}
		if got := p.Get("expression"); got != "1+2" {
			t.Errorf("Get(expression) = %q, want 1+2", got)
		}
		if got := p.Get("name"); got != "Alice" {
			t.Errorf("Get(name) = %q, want Alice", got)
		}
	})

	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"expression":"2*3"}`))
		p := NewRequestBodyParser(req)
		if err := p.Parse(); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !p.IsJSON() {
			t.Error("JSON body not detected")
		}
		if got := p.Get("expression"); got != "2*3" {
			t.Errorf("Get(expression) = %q, want 2*3", got)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		p := NewRequestBodyParser(req)
		if err := p.Parse(); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if got := p.Get("anything"); got != "" {
			t.Errorf("Get on empty body = %q, want empty", got)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"broken`))
		p := NewRequestBodyParser(req)
		if err := p.Parse(); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keep\ttabs", "keep\ttabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
