package dto

import (
	"strings"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"
	"libraryhub/internal/ingestion/frappe"
)

// BookFields are the editable catalog fields shared by the add and edit forms.
type BookFields struct {
	Title            string   `form:"title" binding:"required,max=500"`
	Authors          string   `form:"authors" binding:"required,max=500"`
	AverageRating    *float64 `form:"average_rating" binding:"required,gte=0,lte=5"`
	ISBN             string   `form:"isbn" binding:"required,isbnchars,max=500"`
	ISBN13           string   `form:"isbn13" binding:"required,isbnchars,max=500"`
	LanguageCode     string   `form:"language_code" binding:"required,max=500"`
	NumPages         *int     `form:"num_pages" binding:"required,gte=0,lte=2147483647"`
	RatingsCount     *int     `form:"ratings_count" binding:"required,gte=0,lte=2147483647"`
	TextReviewsCount *int     `form:"text_reviews_count" binding:"required,gte=0,lte=2147483647"`
	PublicationDate  string   `form:"publication_date" binding:"required,max=500"`
	Publisher        string   `form:"publisher" binding:"required,max=500"`
	TotalCount       *int     `form:"total_count" binding:"required,gte=0,lte=2147483647"`
}

// CreateBookForm used for POST /addbooks
type CreateBookForm struct {
	BookID *int64 `form:"bookID" binding:"required,gt=0"`
	BookFields
}

// EditBookForm used for POST /editbook/:id; the id comes from the path.
type EditBookForm struct {
	BookFields
}

func (f BookFields) toModel(id int64) models.Book {
	return models.Book{
		ID:               id,
		Title:            strings.TrimSpace(f.Title),
		Authors:          strings.TrimSpace(f.Authors),
		AverageRating:    deref(f.AverageRating),
		ISBN:             strings.TrimSpace(f.ISBN),
		ISBN13:           strings.TrimSpace(f.ISBN13),
		LanguageCode:     strings.TrimSpace(f.LanguageCode),
		NumPages:         deref(f.NumPages),
		RatingsCount:     deref(f.RatingsCount),
		TextReviewsCount: deref(f.TextReviewsCount),
		PublicationDate:  strings.TrimSpace(f.PublicationDate),
		Publisher:        strings.TrimSpace(f.Publisher),
		TotalCount:       deref(f.TotalCount),
	}
}

func (f CreateBookForm) ToModel() models.Book {
	return f.BookFields.toModel(deref(f.BookID))
}

func (f EditBookForm) ToModel(id int64) models.Book {
	return f.BookFields.toModel(id)
}

// MemberForm used for POST /addmember and /editmember/:id
type MemberForm struct {
	Name  string `form:"name" binding:"required,max=500"`
	Email string `form:"email" binding:"required,email,max=500"`
}

// AmountForm used for POST /addamount/:id
type AmountForm struct {
	Amount *float64 `form:"amount" binding:"required,gt=0,lte=9999999999"`
}

// IssueForm used for POST /issuebooks
type IssueForm struct {
	BookID   *int64   `form:"bookID" binding:"required,gt=0"`
	MemberID *int64   `form:"memberID" binding:"required,gt=0"`
	DayFee   *float64 `form:"day_fee" binding:"required,gte=0,lte=9999999999"`
}

func (f IssueForm) ToRequest() service.IssueRequest {
	return service.IssueRequest{
		BookID:   deref(f.BookID),
		MemberID: deref(f.MemberID),
		DayFee:   deref(f.DayFee),
	}
}

// ReturnForm used for POST /returnbook/:id
type ReturnForm struct {
	AmountPaid *float64 `form:"amount_paid" binding:"required,gte=0,lte=9999999999"`
}

// ImportForm used for POST /importBooks
type ImportForm struct {
	Title           string `form:"title"`
	Authors         string `form:"authors"`
	ISBN            string `form:"isbn"`
	Publisher       string `form:"publisher"`
	NumberOfBooks   int    `form:"number_of_books" binding:"required,gte=1,lte=1000"`
	QuantityPerBook int    `form:"quantity_per_book" binding:"required,gte=1,lte=1000"`
}

func (f ImportForm) ToRequest() service.ImportRequest {
	return service.ImportRequest{
		Query: frappe.Query{
			Title:     strings.TrimSpace(f.Title),
			Authors:   strings.TrimSpace(f.Authors),
			ISBN:      strings.TrimSpace(f.ISBN),
			Publisher: strings.TrimSpace(f.Publisher),
		},
		NumberOfBooks:   f.NumberOfBooks,
		QuantityPerBook: f.QuantityPerBook,
	}
}

// SearchForm used for POST /search
type SearchForm struct {
	Search string `form:"search"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
