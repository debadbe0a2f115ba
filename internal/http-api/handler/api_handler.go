package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"
)

// APIHandler serves read-only JSON views of the catalog, members, rentals and reports.
type APIHandler struct {
	responder
	books   service.BookService
	members service.MemberService
	rentals service.RentalService
	reports service.ReportService
}

func NewAPIHandler(books service.BookService, members service.MemberService, rentals service.RentalService, reports service.ReportService, opts Options, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		responder: newResponder(opts, logger),
		books:     books,
		members:   members,
		rentals:   rentals,
		reports:   reports,
	}
}

func (h *APIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books", h.ListBooks)
	rg.GET("/books/:id", h.GetBook)
	rg.GET("/members", h.ListMembers)
	rg.GET("/rentals", h.ListRentals)
	rg.GET("/rentals/:id/quote", h.Quote)
	rg.GET("/reports", h.Reports)
}

func (h *APIHandler) ListBooks(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.books.List(ctx)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *APIHandler) GetBook(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.jsonError(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.books.Get(ctx, id)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": book})
}

func (h *APIHandler) ListMembers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.members.List(ctx)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *APIHandler) ListRentals(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.rentals.List(ctx)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *APIHandler) Quote(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.jsonError(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	quote, err := h.rentals.Quote(ctx, id)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"rent_id":       quote.Rental.ID,
		"rent_date":     quote.Rental.RentDate,
		"day_fee":       quote.Rental.DayFee,
		"days_borrowed": quote.DaysBorrowed,
		"amount_due":    quote.AmountDue,
	}})
}

func (h *APIHandler) Reports(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	report, err := h.reports.Summary(ctx)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (h *APIHandler) jsonError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("api request failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": userMessage(err)})
}
