package web

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_RenderEveryPage(t *testing.T) {
	r, err := Templates()
	require.NoError(t, err)

	pages := []string{
		"index", "books", "book_detail", "book_form", "import", "members",
		"member_form", "amount", "issue", "return", "transactions", "reports", "error",
	}
	for _, page := range pages {
		t.Run(page, func(t *testing.T) {
			data := map[string]any{
				"Title":  "Page",
				"Values": map[string]string{},
				"Errors": map[string]string{},
			}
			w := httptest.NewRecorder()
			require.NoError(t, r.Instance(page, data).Render(w))
			assert.Contains(t, w.Body.String(), "<title>Page · LibraryHub</title>")
		})
	}
}

func TestTemplates_UnknownPage(t *testing.T) {
	r, err := Templates()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance("missing", nil).Render(w))
	assert.Contains(t, w.Body.String(), "500")
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)

	_, err = dict(1, 2)
	assert.Error(t, err)
}

func TestDateFunc(t *testing.T) {
	date := funcs()["date"].(func(any) string)
	ts := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-04", date(ts))
	assert.Equal(t, "2024-03-04", date(&ts))
	assert.Equal(t, "", date((*time.Time)(nil)))
	assert.Equal(t, "", date(time.Time{}))
}
