package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"libraryhub/internal/http-api/models"
)

type BookRepository interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]models.Book, error)

	// CheckoutCopy takes one available copy and bumps rent_count in a single
	// conditional update. It returns ErrConflict when no copy is available.
	CheckoutCopy(ctx context.Context, id int64) error
	// ReturnCopy puts one copy back on the shelf.
	ReturnCopy(ctx context.Context, id int64) error

	TopRented(ctx context.Context, limit int) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).Order("book_id").Find(&list).Error; err != nil {
		return nil, translate("list books", err)
	}
	return list, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, "book_id = ?", id).Error; err != nil {
		return nil, translate("get book", err)
	}
	return &b, nil
}

func (r *bookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("book_id = ?", id).
		Count(&count).Error; err != nil {
		return false, translate("check book", err)
	}
	return count > 0, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	return translate("create book", r.db.WithContext(ctx).Create(b).Error)
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	res := r.db.WithContext(ctx).
		Model(b).
		Select("title", "authors", "average_rating", "isbn", "isbn13", "language_code",
			"num_pages", "ratings_count", "text_reviews_count", "publication_date",
			"publisher", "total_count", "available_count").
		Updates(b)
	if res.Error != nil {
		return translate("update book", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("update book", ErrNotFound)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, "book_id = ?", id)
	if res.Error != nil {
		return translate("delete book", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete book", ErrNotFound)
	}
	return nil
}

// Search matches the trimmed query as a case-insensitive substring of title or authors.
func (r *bookRepository) Search(ctx context.Context, query string) ([]models.Book, error) {
	var list []models.Book
	query = strings.TrimSpace(query)
	if query == "" {
		return list, nil
	}

	p := "%" + escapeLike(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR authors ILIKE ?", p, p).
		Order("book_id").
		Find(&list).Error; err != nil {
		return nil, translate("search books", err)
	}
	return list, nil
}

func (r *bookRepository) CheckoutCopy(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("book_id = ? AND available_count > 0", id).
		Updates(map[string]interface{}{
			"available_count": gorm.Expr("available_count - 1"),
			"rent_count":      gorm.Expr("rent_count + 1"),
		})
	if res.Error != nil {
		return translate("checkout copy", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("checkout copy", ErrConflict)
	}
	return nil
}

func (r *bookRepository) ReturnCopy(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("book_id = ?", id).
		Update("available_count", gorm.Expr("available_count + 1"))
	if res.Error != nil {
		return translate("return copy", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("return copy", ErrNotFound)
	}
	return nil
}

func (r *bookRepository) TopRented(ctx context.Context, limit int) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Order("rent_count DESC").
		Order("book_id").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, translate("top rented books", err)
	}
	return list, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
