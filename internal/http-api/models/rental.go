package models

import "time"

// Rental is one checkout-to-return cycle. ReturnDate stays nil while the book is out.
type Rental struct {
	ID          int64      `json:"rent_id" gorm:"column:rent_id;primaryKey;autoIncrement"`
	BookID      int64      `json:"book_id" gorm:"not null;index"`
	MemberID    int64      `json:"member_id" gorm:"not null;index"`
	RentDate    time.Time  `json:"rent_date" gorm:"not null;index"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	AmountPaid  float64    `json:"amount_paid" gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount float64    `json:"total_amount" gorm:"type:numeric(12,2);not null;default:0"`
	DayFee      float64    `json:"day_fee" gorm:"type:numeric(12,2);not null;default:0"`

	// Associations
	Book   *Book   `json:"book,omitempty" gorm:"foreignKey:BookID;references:ID"`
	Member *Member `json:"member,omitempty" gorm:"foreignKey:MemberID;references:ID"`
}

func (Rental) TableName() string {
	return "rentals"
}

func (r Rental) IsReturned() bool {
	return r.ReturnDate != nil
}
