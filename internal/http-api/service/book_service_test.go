package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

func TestBookService_Create(t *testing.T) {
	books := new(MockBookRepository)
	cache := newMemoryCache()
	svc := NewBookService(books, cache, zap.NewNop())

	books.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.ID == 42 && b.Title == "Dune" && b.AvailableCount == 3 && b.RentCount == 0
	})).Return(nil)

	err := svc.Create(context.Background(), &models.Book{ID: 42, Title: " Dune ", Authors: "Frank Herbert", TotalCount: 3, RentCount: 9})
	require.NoError(t, err)
	books.AssertExpectations(t)
	assert.Equal(t, 1, cache.deletes)
}

func TestBookService_Create_Duplicate(t *testing.T) {
	books := new(MockBookRepository)
	books.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("create book: %w", repository.ErrDuplicate))

	cache := newMemoryCache()

	err := NewBookService(books, cache, zap.NewNop()).Create(context.Background(), &models.Book{ID: 1, Title: "T", Authors: "A"})
	assert.ErrorIs(t, err, ErrBookExists)
	assert.Zero(t, cache.deletes)
}

func TestBookService_Create_ValueDoesNotFit(t *testing.T) {
	books := new(MockBookRepository)
	books.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("create book: %w: integer out of range", repository.ErrInvalidValue))

	err := NewBookService(books, nil, zap.NewNop()).Create(context.Background(), &models.Book{ID: 1, Title: "T", Authors: "A"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "too large to store")
}

func TestBookService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		book models.Book
	}{
		{"zero id", models.Book{Title: "T", Authors: "A"}},
		{"blank title", models.Book{ID: 1, Title: " ", Authors: "A"}},
		{"no authors", models.Book{ID: 1, Title: "T"}},
		{"negative total", models.Book{ID: 1, Title: "T", Authors: "A", TotalCount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := new(MockBookRepository)
			err := NewBookService(books, nil, zap.NewNop()).Create(context.Background(), &tt.book)
			assert.ErrorIs(t, err, ErrInvalidInput)
			books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBookService_Update_ResetsAvailability(t *testing.T) {
	books := new(MockBookRepository)
	cache := newMemoryCache()
	svc := NewBookService(books, cache, zap.NewNop())

	books.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.ID == 7 && b.TotalCount == 5 && b.AvailableCount == 5
	})).Return(nil)

	err := svc.Update(context.Background(), 7, &models.Book{Title: "T", Authors: "A", TotalCount: 5, AvailableCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)
	books.AssertExpectations(t)
}

func TestBookService_Update_NotFound(t *testing.T) {
	books := new(MockBookRepository)
	books.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	err := NewBookService(books, nil, zap.NewNop()).Update(context.Background(), 7, &models.Book{Title: "T", Authors: "A"})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{"deleted", nil, nil},
		{"missing", fmt.Errorf("delete book: %w", repository.ErrNotFound), ErrBookNotFound},
		{"has rentals", fmt.Errorf("delete book: %w", repository.ErrReferenced), ErrBookInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := new(MockBookRepository)
			books.On("Delete", mock.Anything, int64(3)).Return(tt.repoErr)

			err := NewBookService(books, nil, zap.NewNop()).Delete(context.Background(), 3)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBookService_Get(t *testing.T) {
	books := new(MockBookRepository)
	books.On("GetByID", mock.Anything, int64(1)).Return(&models.Book{ID: 1, Title: "T"}, nil)
	books.On("GetByID", mock.Anything, int64(2)).Return(nil, repository.ErrNotFound)
	svc := NewBookService(books, nil, zap.NewNop())

	b, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "T", b.Title)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookService_Search_TrimsQuery(t *testing.T) {
	books := new(MockBookRepository)
	books.On("Search", mock.Anything, "potter").Return([]models.Book{{ID: 1}}, nil)

	list, err := NewBookService(books, nil, zap.NewNop()).Search(context.Background(), "  potter ")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
