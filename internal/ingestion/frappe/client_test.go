package frappe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const samplePage = `{"message": [
	{"bookID": "1", "title": "Harry Potter and the Half-Blood Prince", "authors": "J.K. Rowling/Mary GrandPré",
	 "average_rating": "4.57", "isbn": "0439785960", "isbn13": "9780439785969", "language_code": "eng",
	 "  num_pages": "652", "ratings_count": "2095690", "text_reviews_count": "27591",
	 "publication_date": "9/16/2006", "publisher": "Scholastic Inc."},
	{"bookID": 4, "title": "Harry Potter and the Chamber of Secrets", "authors": "J.K. Rowling",
	 "average_rating": 4.42, "isbn": "0439554896", "isbn13": "9780439554893", "language_code": "eng",
	 "  num_pages": 352, "ratings_count": 6333, "text_reviews_count": 244,
	 "publication_date": "11/1/2003", "publisher": ""},
	{"bookID": "abc", "title": "Broken", "authors": "Nobody"}
]}`

func newTestClient(url string) *Client {
	c := NewClient(url, 1000, zap.NewNop())
	c.initialDelay = time.Millisecond
	return c
}

func TestFetchPage(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"title":     q.Get("title"),
			"authors":   q.Get("authors"),
			"publisher": q.Get("publisher"),
			"page":      q.Get("page"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).FetchPage(context.Background(), Query{Title: "harry", Publisher: "Scholastic"}, 3)
	require.NoError(t, err)

	assert.Equal(t, "harry", gotQuery["title"])
	assert.Equal(t, "", gotQuery["authors"])
	assert.Equal(t, "Scholastic", gotQuery["publisher"])
	assert.Equal(t, "3", gotQuery["page"])

	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 3, page.Size)
	require.Len(t, page.Books, 2)
	require.Len(t, page.Errors, 1)

	first := page.Books[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 652, first.NumPages)
	assert.Equal(t, 4.57, first.AverageRating)
	assert.Equal(t, 2095690, first.RatingsCount)
	assert.Equal(t, "9780439785969", first.ISBN13)
	assert.Equal(t, "9/16/2006", first.PublicationDate)

	second := page.Books[1]
	assert.Equal(t, int64(4), second.ID)
	assert.Equal(t, 352, second.NumPages)
	assert.Equal(t, "", second.Publisher)
}

func TestFetchPage_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": []}`))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).FetchPage(context.Background(), Query{}, 1)
	require.NoError(t, err)
	assert.Zero(t, page.Size)
	assert.Empty(t, page.Books)
}

func TestFetchPage_IncompleteRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": [
			{"bookID": "12", "title": "T", "authors": "A"},
			{"bookID": "13", "title": "T", "authors": "A", "average_rating": "4", "isbn": "1", "isbn13": "2",
			 "language_code": "eng", "  num_pages": "3000000000", "ratings_count": "1", "text_reviews_count": "1",
			 "publication_date": "1/1/2000", "publisher": "P"}
		]}`))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).FetchPage(context.Background(), Query{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Size)
	assert.Empty(t, page.Books)
	require.Len(t, page.Errors, 2)
	assert.Contains(t, page.Errors[0].Error(), "record 0: average_rating is missing")
	assert.Contains(t, page.Errors[1].Error(), "num_pages")
}

func TestFetchPage_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"message": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPage(context.Background(), Query{}, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchPage_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad query", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPage(context.Background(), Query{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchPage_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPage(context.Background(), Query{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestFetchPage_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).FetchPage(ctx, Query{}, 1)
	assert.Error(t, err)
}
