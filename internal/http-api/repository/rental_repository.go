package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"libraryhub/internal/http-api/models"
)

type RentalRepository interface {
	// List returns every rental, newest first, with book and member preloaded.
	List(ctx context.Context) ([]models.Rental, error)
	GetByID(ctx context.Context, id int64) (*models.Rental, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Rental, error)
	Create(ctx context.Context, r *models.Rental) error
	// Close stamps the return on an open rental. A rental that is already
	// returned is left untouched and ErrConflict is returned.
	Close(ctx context.Context, id int64, amountPaid, totalAmount float64, returnedAt time.Time) error
	Recent(ctx context.Context, limit int) ([]models.Rental, error)
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) List(ctx context.Context) ([]models.Rental, error) {
	var list []models.Rental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		Order("rent_date DESC").
		Order("rent_id DESC").
		Find(&list).Error; err != nil {
		return nil, translate("list rentals", err)
	}
	return list, nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*models.Rental, error) {
	var rent models.Rental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		First(&rent, "rent_id = ?", id).Error; err != nil {
		return nil, translate("get rental", err)
	}
	return &rent, nil
}

func (r *rentalRepository) GetForUpdate(ctx context.Context, id int64) (*models.Rental, error) {
	var rent models.Rental
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rent, "rent_id = ?", id).Error; err != nil {
		return nil, translate("lock rental", err)
	}
	return &rent, nil
}

func (r *rentalRepository) Create(ctx context.Context, rent *models.Rental) error {
	return translate("create rental", r.db.WithContext(ctx).Omit(clause.Associations).Create(rent).Error)
}

func (r *rentalRepository) Close(ctx context.Context, id int64, amountPaid, totalAmount float64, returnedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("rent_id = ? AND return_date IS NULL", id).
		Updates(map[string]interface{}{
			"amount_paid":  amountPaid,
			"total_amount": totalAmount,
			"return_date":  returnedAt,
		})
	if res.Error != nil {
		return translate("close rental", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("close rental", ErrConflict)
	}
	return nil
}

func (r *rentalRepository) Recent(ctx context.Context, limit int) ([]models.Rental, error) {
	var list []models.Rental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		Order("rent_date DESC").
		Order("rent_id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, translate("recent rentals", err)
	}
	return list, nil
}
