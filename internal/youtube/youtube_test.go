package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", true},
		{"not a url", "", true},
		{"", "", true},
		{"tooshort", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractVideoID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestTranscript_JoinsSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/timedtext" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			t.Errorf("unexpected video id %s", r.URL.Query().Get("v"))
		}
		if r.URL.Query().Get("fmt") != "json3" {
			t.Errorf("unexpected fmt %s", r.URL.Query().Get("fmt"))
		}
		w.Write([]byte(`{"events":[
			{"segs":[{"utf8":"Hello "},{"utf8":"world."}]},
			{"segs":[{"utf8":"Second line."}]},
			{"segs":[{"utf8":"\n"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(nil)
	c.baseURL = srv.URL

	text, err := c.Transcript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello world. Second line." {
		t.Errorf("unexpected transcript: %q", text)
	}
}

func TestTranscript_LanguageFallback(t *testing.T) {
	var langs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		langs = append(langs, lang)
		if lang != "id" {
			// Missing tracks come back as an empty 200 body.
			return
		}
		w.Write([]byte(`{"events":[{"segs":[{"utf8":"halo dunia"}]}]}`))
	}))
	defer srv.Close()

	c := NewClient([]string{"en", "id"})
	c.baseURL = srv.URL

	text, err := c.Transcript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "halo dunia" {
		t.Errorf("unexpected transcript: %q", text)
	}
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "id" {
		t.Errorf("unexpected language order: %v", langs)
	}
}

func TestTranscript_NoneAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Empty body for every language.
	}))
	defer srv.Close()

	c := NewClient([]string{"en", "id"})
	c.baseURL = srv.URL

	_, err := c.Transcript(context.Background(), "dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("expected error when no track exists")
	}
	if !strings.Contains(err.Error(), "no transcript") {
		t.Errorf("expected friendly error, got %q", err)
	}
}

func TestTranscript_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient([]string{"en"})
	c.baseURL = srv.URL

	_, err := c.Transcript(context.Background(), "dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("expected error on 503")
	}
}
