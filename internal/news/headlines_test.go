package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const searchPage = `<html><body>
<article><h3>Gold climbs on weak dollar</h3><a href="./a1">x</a></article>
<article><h4>Fed minutes in focus</h4></article>
<article><a href="./a3">Traders eye support at 2000</a></article>
<article><div>no title here</div></article>
</body></html>`

func TestHeadlinesParsesTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "XAUUSD")
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	got := f.Headlines(context.Background(), "XAUUSD")

	assert.Equal(t, []string{
		"Gold climbs on weak dollar",
		"Fed minutes in focus",
		"Traders eye support at 2000",
	}, got)
}

func TestHeadlinesMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithMaxResults(2))
	got := f.Headlines(context.Background(), "XAUUSD")
	assert.Len(t, got, 2)
}

func TestHeadlinesSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	assert.Nil(t, f.Headlines(context.Background(), "XAUUSD"))
}

func TestHeadlinesSwallowsConnectionFailure(t *testing.T) {
	f := NewFetcher(WithBaseURL("http://127.0.0.1:1"))
	assert.Nil(t, f.Headlines(context.Background(), "XAUUSD"))
}
