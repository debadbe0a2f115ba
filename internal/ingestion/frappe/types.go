package frappe

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"libraryhub/internal/http-api/models"
)

// Query filters the catalog. Empty fields match everything.
type Query struct {
	Title     string
	Authors   string
	ISBN      string
	Publisher string
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("title", q.Title)
	v.Set("authors", q.Authors)
	v.Set("isbn", q.ISBN)
	v.Set("publisher", q.Publisher)
	return v
}

// Page is one decoded page of the catalog.
// Size counts every record the source sent, readable or not; zero means the catalog is exhausted.
type Page struct {
	Number int
	Size   int
	Books  []models.Book
	Errors []error
}

type response struct {
	Message []map[string]interface{} `json:"message"`
}

// Limits of the books table columns a record is stored in.
const (
	maxTextLength = 500
	maxCount      = math.MaxInt32
)

// parseRecord maps one catalog record onto a Book. Keys are matched after
// trimming whitespace since the source pads some of them. Every column of the
// books table must be present and fit its column type. Copy counts are left
// for the caller.
func parseRecord(raw map[string]interface{}) (models.Book, error) {
	rec := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		rec[strings.TrimSpace(k)] = v
	}

	var (
		b   models.Book
		err error
	)
	if b.ID, err = intField(rec, "bookID"); err != nil {
		return b, err
	}
	if b.ID <= 0 {
		return b, fmt.Errorf("bookID must be positive, got %d", b.ID)
	}
	if b.Title, err = stringField(rec, "title"); err != nil {
		return b, err
	}
	if b.Title == "" {
		return b, errors.New("title is missing")
	}
	if b.Authors, err = stringField(rec, "authors"); err != nil {
		return b, err
	}
	if b.Authors == "" {
		return b, errors.New("authors is missing")
	}

	if b.AverageRating, err = floatField(rec, "average_rating"); err != nil {
		return b, err
	}
	if b.NumPages, err = countField(rec, "num_pages"); err != nil {
		return b, err
	}
	if b.RatingsCount, err = countField(rec, "ratings_count"); err != nil {
		return b, err
	}
	if b.TextReviewsCount, err = countField(rec, "text_reviews_count"); err != nil {
		return b, err
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{"isbn", &b.ISBN},
		{"isbn13", &b.ISBN13},
		{"language_code", &b.LanguageCode},
		{"publication_date", &b.PublicationDate},
		{"publisher", &b.Publisher},
	} {
		if *f.dst, err = stringField(rec, f.key); err != nil {
			return b, err
		}
	}
	return b, nil
}

// stringField reads a text column. The key must be present; an empty value is allowed.
func stringField(rec map[string]interface{}, key string) (string, error) {
	var s string
	switch v := rec[key].(type) {
	case nil:
		return "", fmt.Errorf("%s is missing", key)
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	default:
		s = strings.TrimSpace(fmt.Sprint(v))
	}
	if n := utf8.RuneCountInString(s); n > maxTextLength {
		return "", fmt.Errorf("%s: %d characters is longer than %d", key, n, maxTextLength)
	}
	return s, nil
}

// countField reads a non-negative whole number that fits an INTEGER column.
func countField(rec map[string]interface{}, key string) (int, error) {
	n, err := intField(rec, key)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxCount {
		return 0, fmt.Errorf("%s: %d is out of range", key, n)
	}
	return int(n), nil
}

// intField reads a whole number sent either as a JSON number or a numeric string.
func intField(rec map[string]interface{}, key string) (int64, error) {
	f, err := floatField(rec, key)
	if err != nil {
		return 0, err
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s: %v is out of range", key, f)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %v is not a whole number", key, f)
	}
	return int64(f), nil
}

// floatField reads a finite number. A missing or empty value is an error.
func floatField(rec map[string]interface{}, key string) (float64, error) {
	var f float64
	switch v := rec[key].(type) {
	case nil:
		return 0, fmt.Errorf("%s is missing", key)
	case float64:
		f = v
	case json.Number, string:
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			return 0, fmt.Errorf("%s is missing", key)
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%s: %q is not a number", key, s)
		}
	default:
		return 0, fmt.Errorf("%s: unexpected type %T", key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %v is not a finite number", key, f)
	}
	return f, nil
}
