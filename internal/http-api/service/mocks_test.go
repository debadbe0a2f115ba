package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/ingestion/frappe"
)

// --- REPOSITORY MOCKS ---

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookRepository) Search(ctx context.Context, query string) ([]models.Book, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) CheckoutCopy(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookRepository) ReturnCopy(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookRepository) TopRented(ctx context.Context, limit int) ([]models.Book, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Book), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetForUpdate(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) UpdateContact(ctx context.Context, id int64, name, email string) error {
	return m.Called(ctx, id, name, email).Error(0)
}

func (m *MockMemberRepository) SaveBalance(ctx context.Context, member *models.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMemberRepository) TopPaying(ctx context.Context, limit int) ([]models.Member, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Member), args.Error(1)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) List(ctx context.Context) ([]models.Rental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Rental), args.Error(1)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id int64) (*models.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) GetForUpdate(ctx context.Context, id int64) (*models.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) Create(ctx context.Context, r *models.Rental) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRentalRepository) Close(ctx context.Context, id int64, amountPaid, totalAmount float64, returnedAt time.Time) error {
	return m.Called(ctx, id, amountPaid, totalAmount, returnedAt).Error(0)
}

func (m *MockRentalRepository) Recent(ctx context.Context, limit int) ([]models.Rental, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Rental), args.Error(1)
}

// fakeTx runs the callback against the mocks directly and counts calls.
type fakeTx struct {
	repos repository.Repos
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	f.calls++
	return fn(f.repos)
}

type mockSet struct {
	books   *MockBookRepository
	members *MockMemberRepository
	rentals *MockRentalRepository
	tx      *fakeTx
}

func newMockSet() *mockSet {
	s := &mockSet{
		books:   new(MockBookRepository),
		members: new(MockMemberRepository),
		rentals: new(MockRentalRepository),
	}
	s.tx = &fakeTx{repos: s.repos()}
	return s
}

func (s *mockSet) repos() repository.Repos {
	return repository.Repos{Books: s.books, Members: s.members, Rentals: s.rentals}
}

// --- CACHE ---

type memoryCache struct {
	data    map[string][]byte
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.deletes++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// --- CATALOG ---

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) FetchPage(ctx context.Context, q frappe.Query, page int) (*frappe.Page, error) {
	args := m.Called(ctx, q, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*frappe.Page), args.Error(1)
}
