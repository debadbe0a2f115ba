package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

type BookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id int64, b *models.Book) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]models.Book, error)
}

type bookService struct {
	books  repository.BookRepository
	cache  Cache
	logger *zap.Logger
}

func NewBookService(books repository.BookRepository, cache Cache, logger *zap.Logger) BookService {
	return &bookService{books: books, cache: cache, logger: logger}
}

func (s *bookService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// Create adds a book with every copy on the shelf and no rental history.
func (s *bookService) Create(ctx context.Context, b *models.Book) error {
	if err := validateBook(b); err != nil {
		return err
	}
	b.AvailableCount = b.TotalCount
	b.RentCount = 0

	if err := s.books.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrBookExists
		}
		if errors.Is(err, repository.ErrInvalidValue) {
			return invalid("a field value is too large to store")
		}
		return err
	}
	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("book added", zap.Int64("book_id", b.ID), zap.String("title", b.Title))
	return nil
}

// Update overwrites the editable fields. The available count is reset to the new
// total; rent_count is kept.
func (s *bookService) Update(ctx context.Context, id int64, b *models.Book) error {
	b.ID = id
	if err := validateBook(b); err != nil {
		return err
	}
	b.AvailableCount = b.TotalCount

	if err := s.books.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookNotFound
		}
		if errors.Is(err, repository.ErrInvalidValue) {
			return invalid("a field value is too large to store")
		}
		return err
	}
	invalidateReports(ctx, s.cache, s.logger)
	return nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrBookNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrBookInUse
		}
		return err
	}
	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("book deleted", zap.Int64("book_id", id))
	return nil
}

// Search matches the query against title or authors, case-insensitively.
func (s *bookService) Search(ctx context.Context, query string) ([]models.Book, error) {
	return s.books.Search(ctx, strings.TrimSpace(query))
}

func validateBook(b *models.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Authors = strings.TrimSpace(b.Authors)
	switch {
	case b.ID <= 0:
		return invalid("book id must be positive")
	case b.Title == "":
		return invalid("title is required")
	case b.Authors == "":
		return invalid("authors is required")
	case b.TotalCount < 0:
		return invalid("total count must not be negative")
	}
	return nil
}
