package uniprot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/isoflow-go/internal/config"
)

func testClient(url string, retries int) *Client {
	cfg := config.NewUniProtConfig().WithBaseURL(url)
	c := NewClient(cfg)
	c.maxRetries = retries
	c.initialDelay = time.Millisecond
	return c
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Q9TEST.rdf", r.URL.Path)
		assert.Equal(t, "application/rdf+xml", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("<rdf:RDF/>"))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL, 0).Fetch(context.Background(), "Q9TEST")
	require.NoError(t, err)
	assert.Equal(t, "<rdf:RDF/>", string(body))
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL, 3).Fetch(context.Background(), "P04637")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 2).Fetch(context.Background(), "P04637")
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchStopsOnNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Fetch(context.Background(), "NOPE")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "NOPE", notFound.Accession)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRejectsInvalidAccession(t *testing.T) {
	c := testClient("http://127.0.0.1:1", 0)
	for _, id := range []string{"", "../etc/passwd", "P04637.rdf", "a b"} {
		_, err := c.Fetch(context.Background(), id)
		var invalid *InvalidAccessionError
		assert.True(t, errors.As(err, &invalid), id)
	}
}

func TestFetchHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL, 3).Fetch(ctx, "P04637")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestURL(t *testing.T) {
	c := NewClient(config.NewUniProtConfig())
	assert.Equal(t, "https://rest.uniprot.org/uniprotkb/P04637.rdf", c.URL("P04637"))
}
