package models

import "time"

type Member struct {
	ID               int64     `json:"member_id" gorm:"column:member_id;primaryKey;autoIncrement"`
	Name             string    `json:"name" gorm:"size:500;not null"`
	Email            string    `json:"email" gorm:"size:500;not null"`
	RegDate          time.Time `json:"reg_date" gorm:"not null"`
	TotalBooksRented int       `json:"total_books_rented" gorm:"not null;default:0"`
	Debt             float64   `json:"debt" gorm:"type:numeric(12,2);not null;default:0"`
	AmountPaid       float64   `json:"amount_paid" gorm:"type:numeric(12,2);not null;default:0"`
}

func (Member) TableName() string {
	return "members"
}
