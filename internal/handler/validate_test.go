package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateCreateTask_PassesBodyThrough(t *testing.T) {
	body := `{"title":"hello","description":"world"}`

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body in next handler: %v", err)
		}
		seen = string(b)
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ValidateCreateTask(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected next handler to run, got %d body=%s", rec.Code, rec.Body.String())
	}
	if seen != body {
		t.Errorf("body changed by middleware: got %q want %q", seen, body)
	}
}

func TestValidateCreateTask_ShortCircuits(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{}`},
		{"empty title", `{"title":""}`},
		{"whitespace title", `{"title":" \t "}`},
		{"numeric description", `{"title":"x","description":7}`},
		{"object description", `{"title":"x","description":{"a":1}}`},
		{"not json", `title=x`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(c.body))
			rec := httptest.NewRecorder()
			ValidateCreateTask(next).ServeHTTP(rec, req)

			if nextCalled {
				t.Fatalf("next handler must not run for %q", c.body)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestValidateCreateTask_NullDescriptionAllowed(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"x","description":null}`))
	rec := httptest.NewRecorder()
	ValidateCreateTask(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("null description should pass validation, got %d body=%s", rec.Code, rec.Body.String())
	}
}
