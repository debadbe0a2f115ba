package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/ingestion/frappe"
)

// CatalogSource is the external catalog books are imported from.
type CatalogSource interface {
	FetchPage(ctx context.Context, q frappe.Query, page int) (*frappe.Page, error)
}

type ImportRequest struct {
	Query           frappe.Query
	NumberOfBooks   int
	QuantityPerBook int
}

type ImportResult struct {
	Imported  int
	Skipped   int
	Malformed int
	Pages     int
	Notice    Notice
}

type ImportService interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

type importService struct {
	source   CatalogSource
	books    repository.BookRepository
	cache    Cache
	maxPages int
	logger   *zap.Logger
}

func NewImportService(source CatalogSource, books repository.BookRepository, cache Cache, maxPages int, logger *zap.Logger) ImportService {
	if maxPages <= 0 {
		maxPages = 100
	}
	return &importService{
		source:   source,
		books:    books,
		cache:    cache,
		maxPages: maxPages,
		logger:   logger.With(zap.String("component", "import")),
	}
}

// Import walks the catalog page by page and inserts books not already held,
// stopping once NumberOfBooks are added, the catalog runs dry or maxPages is hit.
// Each book commits on its own; if a page fetch fails the books added so far stay
// and the partial result is returned with the error.
func (s *importService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.NumberOfBooks < 1 {
		return nil, invalid("number of books must be at least 1")
	}
	if req.QuantityPerBook < 1 {
		return nil, invalid("quantity per book must be at least 1")
	}

	result := &ImportResult{}
	err := s.run(ctx, req, result)

	if result.Imported > 0 {
		invalidateReports(ctx, s.cache, s.logger)
	}
	msg := fmt.Sprintf("New Books Added: %d", result.Imported)
	if err != nil {
		result.Notice = Warning(msg + ". The import stopped early: " + err.Error())
	} else {
		result.Notice = Success(msg)
	}

	s.logger.Info("import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("malformed", result.Malformed),
		zap.Int("pages", result.Pages),
		zap.Error(err),
	)
	return result, err
}

func (s *importService) run(ctx context.Context, req ImportRequest, result *ImportResult) error {
	for page := 1; result.Imported < req.NumberOfBooks; page++ {
		if page > s.maxPages {
			s.logger.Warn("page limit reached before the requested count",
				zap.Int("max_pages", s.maxPages), zap.Int("imported", result.Imported))
			return nil
		}

		p, err := s.source.FetchPage(ctx, req.Query, page)
		if err != nil {
			return err
		}
		result.Pages++
		if p.Size == 0 {
			return nil
		}

		for _, perr := range p.Errors {
			result.Malformed++
			s.logger.Warn("skipping malformed catalog record", zap.Int("page", page), zap.Error(perr))
		}

		for i := range p.Books {
			if result.Imported >= req.NumberOfBooks {
				return nil
			}
			b := p.Books[i]

			exists, err := s.books.Exists(ctx, b.ID)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			b.TotalCount = req.QuantityPerBook
			b.AvailableCount = req.QuantityPerBook
			b.RentCount = 0
			if err := s.books.Create(ctx, &b); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					result.Skipped++
					continue
				}
				if errors.Is(err, repository.ErrInvalidValue) {
					result.Malformed++
					s.logger.Warn("skipping catalog record the books table rejected",
						zap.Int("page", page), zap.Int64("book_id", b.ID), zap.Error(err))
					continue
				}
				return err
			}
			result.Imported++
		}
	}
	return nil
}
