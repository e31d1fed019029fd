package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendExtractsTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><title>\n  Nutella - 400 g  </title></head><body>hi</body></html>")
	}))
	defer srv.Close()

	res, err := Send(context.Background(), &Request{URL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", res.StatusCode)
	}
	if res.Title != "Nutella - 400 g" {
		t.Fatalf("unexpected title %q", res.Title)
	}
	if res.Length == 0 {
		t.Fatal("response length should be set")
	}
}

func TestSendWithoutTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":1}`)
	}))
	defer srv.Close()

	res, err := Send(context.Background(), &Request{URL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Title != "" {
		t.Fatalf("expected no title, got %q", res.Title)
	}
}

func TestSendForwardsHeaders(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	_, err := Send(context.Background(), &Request{
		URL:     srv.URL,
		Headers: []Header{{Name: "User-Agent", Value: "ecobasket/1.0"}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if gotUA != "ecobasket/1.0" {
		t.Fatalf("custom header not sent, got %q", gotUA)
	}
}
