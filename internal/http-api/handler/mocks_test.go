package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/handler"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"
	"libraryhub/web"
)

// --- SERVICE MOCKS ---

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookService) Update(ctx context.Context, id int64, b *models.Book) error {
	return m.Called(ctx, id, b).Error(0)
}

func (m *MockBookService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookService) Search(ctx context.Context, query string) ([]models.Book, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Book), args.Error(1)
}

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) List(ctx context.Context) ([]models.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Member), args.Error(1)
}

func (m *MockMemberService) Get(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Create(ctx context.Context, name, email string) (*models.Member, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Update(ctx context.Context, id int64, name, email string) error {
	return m.Called(ctx, id, name, email).Error(0)
}

func (m *MockMemberService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMemberService) RecordPayment(ctx context.Context, id int64, amount float64) (*service.PaymentResult, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentResult), args.Error(1)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) List(ctx context.Context) ([]models.Rental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Rental), args.Error(1)
}

func (m *MockRentalService) Issue(ctx context.Context, req service.IssueRequest) (*models.Rental, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalService) Quote(ctx context.Context, rentalID int64) (*service.ReturnQuote, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnQuote), args.Error(1)
}

func (m *MockRentalService) Return(ctx context.Context, rentalID int64, tendered float64) (*service.ReturnResult, error) {
	args := m.Called(ctx, rentalID, tendered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnResult), args.Error(1)
}

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Import(ctx context.Context, req service.ImportRequest) (*service.ImportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context) (*service.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

// --- SETUP ---

type testApp struct {
	router  *gin.Engine
	books   *MockBookService
	members *MockMemberService
	rentals *MockRentalService
	imports *MockImportService
	reports *MockReportService
}

func newTestApp(t *testing.T, checks map[string]handler.HealthCheck) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	views, err := web.Templates()
	require.NoError(t, err)

	app := &testApp{
		books:   new(MockBookService),
		members: new(MockMemberService),
		rentals: new(MockRentalService),
		imports: new(MockImportService),
		reports: new(MockReportService),
	}
	app.router = handler.NewRouter(handler.Services{
		Books:   app.books,
		Members: app.members,
		Rentals: app.rentals,
		Imports: app.imports,
		Reports: app.reports,
	}, views, checks, handler.Options{}, zap.NewNop())

	t.Cleanup(func() {
		app.books.AssertExpectations(t)
		app.members.AssertExpectations(t)
		app.rentals.AssertExpectations(t)
		app.imports.AssertExpectations(t)
		app.reports.AssertExpectations(t)
	})
	return app
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return serve(a, httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(a, req)
}

func serve(a *testApp, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// noticeOf decodes the notice a redirect left for the next page.
func noticeOf(t *testing.T, w *httptest.ResponseRecorder) service.Notice {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name != middleware.NoticeCookie {
			continue
		}
		payload, err := base64.RawURLEncoding.DecodeString(c.Value)
		require.NoError(t, err)
		var n service.Notice
		require.NoError(t, json.Unmarshal(payload, &n))
		return n
	}
	t.Fatal("no notice cookie set")
	return service.Notice{}
}
