package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/service"
)

type RentalHandler struct {
	responder
	svc service.RentalService
}

func NewRentalHandler(svc service.RentalService, opts Options, logger *zap.Logger) *RentalHandler {
	return &RentalHandler{responder: newResponder(opts, logger), svc: svc}
}

func (h *RentalHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/transactions", h.List)
	r.GET("/issuebooks", h.IssueForm)
	r.POST("/issuebooks", h.Issue)
	r.GET("/returnbook/:id", h.ReturnForm)
	r.POST("/returnbook/:id", h.Return)
}

func (h *RentalHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	rentals, err := h.svc.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "transactions", gin.H{"Title": "Transactions", "Rentals": rentals})
}

func (h *RentalHandler) IssueForm(c *gin.Context) {
	h.render(c, http.StatusOK, "issue", gin.H{"Title": "Issue Book"})
}

func (h *RentalHandler) Issue(c *gin.Context) {
	var in dto.IssueForm
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, "issue", gin.H{
			"Title":  "Issue Book",
			"Values": postedValues(c),
			"Errors": dto.FieldErrors(err),
		})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	_, err := h.svc.Issue(ctx, in.ToRequest())
	switch {
	case err == nil:
		h.redirect(c, "/transactions", service.Success("Book Issued"))
	case errors.Is(err, service.ErrDebtLimit):
		h.redirect(c, "/transactions", service.Danger(userMessage(err)))
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrBookUnavailable),
		errors.Is(err, service.ErrInvalidInput):
		h.render(c, statusFor(err), "issue", gin.H{
			"Title":   "Issue Book",
			"Values":  postedValues(c),
			"Message": userMessage(err),
		})
	default:
		h.fail(c, err)
	}
}

func (h *RentalHandler) ReturnForm(c *gin.Context) {
	h.renderReturn(c, http.StatusOK, nil, nil)
}

func (h *RentalHandler) Return(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var in dto.ReturnForm
	if bindErr := c.ShouldBind(&in); bindErr != nil {
		h.renderReturn(c, http.StatusBadRequest, postedValues(c), dto.FieldErrors(bindErr))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	result, err := h.svc.Return(ctx, id, *in.AmountPaid)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyReturned) {
			h.redirect(c, "/transactions", service.Warning(userMessage(err)))
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/transactions", result.Notice)
}

// renderReturn shows the confirmation screen with a fresh quote.
func (h *RentalHandler) renderReturn(c *gin.Context, status int, values, errs map[string]string) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	quote, err := h.svc.Quote(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyReturned) {
			h.redirect(c, "/transactions", service.Warning(userMessage(err)))
			return
		}
		h.fail(c, err)
		return
	}
	data := gin.H{"Title": "Return Book", "Quote": quote}
	if values != nil {
		data["Values"] = values
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, status, "return", data)
}
