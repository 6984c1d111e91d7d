package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

func TestGet_Success(t *testing.T) {
	// WHAT: a GET with query params reaches the server and decodes.
	// WHY: adapters build every search request through Get/PostJSON/PostForm.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "mulkiyet" {
			t.Errorf("query: got %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer c.Close()

	resp, err := c.Get(context.Background(), "/search", url.Values{"q": {"mulkiyet"}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d", resp.StatusCode)
	}
}

func TestPostJSON_NonOKStatus(t *testing.T) {
	// WHAT: a non-2xx response maps to an UpstreamStatus tool error.
	// WHY: spec.md §4.1's HTTPStatusError contract.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	defer c.Close()

	_, err := c.PostJSON(context.Background(), "/x", map[string]string{"a": "b"})
	if err == nil {
		t.Fatal("expected error")
	}
	if toolerr.KindOf(err) != toolerr.UpstreamStatus {
		t.Errorf("kind: got %v", toolerr.KindOf(err))
	}
}

func TestCookieJar_PersistsAcrossCalls(t *testing.T) {
	// WHAT: cookies set by one call are sent on the next.
	// WHY: each adapter reuses one Client, so a session cookie set by an
	// upstream must survive into that adapter's later calls.
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sess"); err == nil && c.Value == "abc" {
			sawCookie = true
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "abc"})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	defer c.Close()

	if _, err := c.Get(context.Background(), "/a", nil); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, err := c.Get(context.Background(), "/b", nil); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !sawCookie {
		t.Error("expected cookie jar to carry the session cookie to the second request")
	}
}

func TestPostForm_EncodesFields(t *testing.T) {
	// WHAT: form fields are sent as application/x-www-form-urlencoded.
	// WHY: the jurisdictional-disputes adapter posts a plain HTML form.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content-type: got %q", ct)
		}
		r.ParseForm()
		if r.FormValue("bolum") != "Hukuk Bölümü" {
			t.Errorf("bolum: got %q", r.FormValue("bolum"))
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	defer c.Close()

	_, err := c.PostForm(context.Background(), "/Arama/Search", url.Values{"bolum": {"Hukuk Bölümü"}})
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
}
