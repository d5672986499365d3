package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/hubdeck/hubdeck/internal/grid"
)

type tokenFunc func() string

func (f tokenFunc) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: f()}, nil
}

func staticToken(s string) oauth2.TokenSource {
	return tokenFunc(func() string { return s })
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"url":"https://github.com/login/oauth"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok-123"))
	if _, err := c.AuthURL(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestEmptyTokenSendsNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"url":"x"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	if _, err := c.AuthURL(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want unset", gotAuth)
	}
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	_, err := c.Verify(context.Background())

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", se.StatusCode)
	}
	if se.Message != "token expired" {
		t.Errorf("message = %q", se.Message)
	}
}

func TestUndecodableResponseIsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!DOCTYPE html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	_, err := c.Collections(context.Background())
	if !errors.Is(err, grid.ErrBadShape) {
		t.Fatalf("error = %v, want ErrBadShape", err)
	}
}

func TestExchangeCallbackMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"isAuthenticated":true,"username":"octo"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	_, err := c.ExchangeCallback(context.Background(), "code", "state")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("error = %v, want ErrMissingToken", err)
	}
}

func TestExchangeCallbackSendsCodeAndState(t *testing.T) {
	var gotCode, gotState string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCode = r.URL.Query().Get("code")
		gotState = r.URL.Query().Get("state")
		w.Write([]byte(`{"token":"tok-xyz","isAuthenticated":true,"username":"octo"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	payload, err := c.ExchangeCallback(context.Background(), "c1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCode != "c1" || gotState != "s1" {
		t.Errorf("query = (%q, %q)", gotCode, gotState)
	}
	if payload.Token != "tok-xyz" {
		t.Errorf("token = %q", payload.Token)
	}
}

func TestCollectionsCachedForProcessLifetime(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"collections":[{"title":"Repositories","collectionName":"repository","fields":["name"]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	for i := 0; i < 3; i++ {
		cols, err := c.Collections(context.Background())
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(cols) != 1 || cols[0].CollectionName != "repository" {
			t.Fatalf("fetch %d: %+v", i, cols)
		}
	}
	if calls != 1 {
		t.Errorf("backend calls = %d, want 1", calls)
	}
}

func TestEmptyCollectionsCachedToo(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"collections":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	for i := 0; i < 3; i++ {
		cols, err := c.Collections(context.Background())
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(cols) != 0 {
			t.Fatalf("fetch %d: %+v", i, cols)
		}
	}
	if calls != 1 {
		t.Errorf("backend calls = %d, want 1 (an empty declaration is still a successful fetch)", calls)
	}
}

func TestCollectionsMissingArrayIsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	if _, err := c.Collections(context.Background()); !errors.Is(err, grid.ErrBadShape) {
		t.Fatalf("error = %v, want ErrBadShape", err)
	}
}

func TestFetchWindowQueryAndDecode(t *testing.T) {
	var gotPath, gotStart, gotEnd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("startRow")
		gotEnd = r.URL.Query().Get("endRow")
		w.Write([]byte(`{"rows":[{"_id":"c1","message":"fix"}],"lastRowIndex":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	fetcher := c.CollectionSource()

	req, err := grid.BuildRequest("Commit", grid.Query{StartRow: 0, EndRow: 25}, nil)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	window, err := fetcher.FetchRows(context.Background(), req)
	if err != nil {
		t.Fatalf("FetchRows: %v", err)
	}

	if gotPath != "/github/collections/Commit" {
		t.Errorf("path = %q", gotPath)
	}
	if gotStart != "0" || gotEnd != "25" {
		t.Errorf("window params = (%s, %s)", gotStart, gotEnd)
	}
	if window.LastRowIndex != 1 || len(window.Rows) != 1 {
		t.Errorf("window = %+v", window)
	}
	if window.Rows[0].ID() != "c1" {
		t.Errorf("row id = %q", window.Rows[0].ID())
	}
}

func TestFetchWindowMissingTotalIsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	req, err := grid.BuildRequest("repository", grid.Query{StartRow: 0, EndRow: 25}, nil)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if _, err := c.RepoSource().FetchRows(context.Background(), req); !errors.Is(err, grid.ErrBadShape) {
		t.Fatalf("error = %v, want ErrBadShape", err)
	}
}

func TestRepoSourcePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"rows":[],"lastRowIndex":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	req, err := grid.BuildRequest("repository", grid.Query{StartRow: 0, EndRow: 25}, nil)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if _, err := c.RepoSource().FetchRows(context.Background(), req); err != nil {
		t.Fatalf("FetchRows: %v", err)
	}
	if gotPath != "/github/repos" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestSyncPostsAndIgnoresBody(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	if err := c.Sync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/github/sync" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}
