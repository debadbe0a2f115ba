package models

// Book is one catalog title with its copy accounting.
// ID is assigned by the caller (manual entry or the import source), never by the database.
type Book struct {
	ID               int64   `json:"book_id" gorm:"column:book_id;primaryKey;autoIncrement:false"`
	Title            string  `json:"title" gorm:"size:500;not null"`
	Authors          string  `json:"authors" gorm:"size:500;not null"`
	AverageRating    float64 `json:"average_rating" gorm:"not null"`
	ISBN             string  `json:"isbn" gorm:"column:isbn;size:500;not null"`
	ISBN13           string  `json:"isbn13" gorm:"column:isbn13;size:500;not null"`
	LanguageCode     string  `json:"language_code" gorm:"size:500;not null"`
	NumPages         int     `json:"num_pages" gorm:"not null"`
	RatingsCount     int     `json:"ratings_count" gorm:"not null"`
	TextReviewsCount int     `json:"text_reviews_count" gorm:"not null"`
	PublicationDate  string  `json:"publication_date" gorm:"size:500;not null"`
	Publisher        string  `json:"publisher" gorm:"size:500;not null"`
	TotalCount       int     `json:"total_count" gorm:"not null;default:0"`
	AvailableCount   int     `json:"available_count" gorm:"not null;default:0"`
	RentCount        int     `json:"rent_count" gorm:"not null;default:0"`
}

func (Book) TableName() string {
	return "books"
}

// Rented is the number of copies currently out.
func (b Book) Rented() int {
	if n := b.TotalCount - b.AvailableCount; n > 0 {
		return n
	}
	return 0
}
