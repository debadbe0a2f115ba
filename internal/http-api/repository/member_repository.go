package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"libraryhub/internal/http-api/models"
)

type MemberRepository interface {
	List(ctx context.Context) ([]models.Member, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	// GetForUpdate reads the member and holds a row lock until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, m *models.Member) error
	UpdateContact(ctx context.Context, id int64, name, email string) error
	// SaveBalance persists total_books_rented, debt and amount_paid.
	SaveBalance(ctx context.Context, m *models.Member) error
	Delete(ctx context.Context, id int64) error
	TopPaying(ctx context.Context, limit int) ([]models.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) List(ctx context.Context) ([]models.Member, error) {
	var list []models.Member
	if err := r.db.WithContext(ctx).Order("member_id").Find(&list).Error; err != nil {
		return nil, translate("list members", err)
	}
	return list, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).First(&m, "member_id = ?", id).Error; err != nil {
		return nil, translate("get member", err)
	}
	return &m, nil
}

func (r *memberRepository) GetForUpdate(ctx context.Context, id int64) (*models.Member, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "member_id = ?", id).Error; err != nil {
		return nil, translate("lock member", err)
	}
	return &m, nil
}

func (r *memberRepository) Create(ctx context.Context, m *models.Member) error {
	return translate("create member", r.db.WithContext(ctx).Create(m).Error)
}

func (r *memberRepository) UpdateContact(ctx context.Context, id int64, name, email string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("member_id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email})
	if res.Error != nil {
		return translate("update member", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("update member", ErrNotFound)
	}
	return nil
}

func (r *memberRepository) SaveBalance(ctx context.Context, m *models.Member) error {
	res := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("member_id = ?", m.ID).
		Updates(map[string]interface{}{
			"total_books_rented": m.TotalBooksRented,
			"debt":               m.Debt,
			"amount_paid":        m.AmountPaid,
		})
	if res.Error != nil {
		return translate("save member balance", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("save member balance", ErrNotFound)
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Member{}, "member_id = ?", id)
	if res.Error != nil {
		return translate("delete member", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete member", ErrNotFound)
	}
	return nil
}

func (r *memberRepository) TopPaying(ctx context.Context, limit int) ([]models.Member, error) {
	var list []models.Member
	if err := r.db.WithContext(ctx).
		Order("amount_paid DESC").
		Order("member_id").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, translate("top paying members", err)
	}
	return list, nil
}
