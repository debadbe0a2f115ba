package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles the repositories that share one connection or transaction.
type Repos struct {
	Books   BookRepository
	Members MemberRepository
	Rentals RentalRepository
}

func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Books:   NewBookRepository(db),
		Members: NewMemberRepository(db),
		Rentals: NewRentalRepository(db),
	}
}

// Transactor runs fn inside one database transaction. Returning an error
// from fn rolls back every write made through the Repos it received.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Repos) error) error
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Repos returns repositories bound to the pool, outside any transaction.
func (s *Store) Repos() Repos {
	return NewRepos(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
