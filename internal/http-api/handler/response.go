package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"
)

// Options tunes request handling shared by every handler.
type Options struct {
	NoticeTTL      time.Duration
	RequestTimeout time.Duration
	ImportTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.NoticeTTL <= 0 {
		o.NoticeTTL = 30 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.ImportTimeout <= 0 {
		o.ImportTimeout = 2 * time.Minute
	}
	return o
}

// responder holds the page helpers the HTML handlers share.
type responder struct {
	opts   Options
	logger *zap.Logger
}

func newResponder(opts Options, logger *zap.Logger) responder {
	return responder{opts: opts.withDefaults(), logger: logger}
}

func (r responder) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), r.opts.RequestTimeout)
}

// render fills the keys the layout reads and renders page.
func (r responder) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if n, ok := middleware.NoticeFrom(c); ok {
		data["Notice"] = n
	}
	for _, key := range []string{"Values", "Errors"} {
		if _, ok := data[key]; !ok {
			data[key] = map[string]string{}
		}
	}
	c.HTML(status, page, data)
}

// redirect sends the browser to location with a notice for the next page.
func (r responder) redirect(c *gin.Context, location string, n service.Notice) {
	middleware.SetNotice(c, n, r.opts.NoticeTTL)
	c.Redirect(http.StatusSeeOther, location)
}

// fail renders the error page for err. Unexpected errors are logged and their
// text is kept out of the page.
func (r responder) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	r.render(c, status, "error", gin.H{
		"Title":   http.StatusText(status),
		"Code":    status,
		"Message": userMessage(err),
	})
}

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, param)
	}
	return id, nil
}

// postedValues echoes submitted fields back into a re-rendered form.
func postedValues(c *gin.Context) map[string]string {
	out := map[string]string{}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrRentalNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBookExists),
		errors.Is(err, service.ErrBookInUse),
		errors.Is(err, service.ErrMemberInUse),
		errors.Is(err, service.ErrBookUnavailable),
		errors.Is(err, service.ErrAlreadyReturned):
		return http.StatusConflict
	case errors.Is(err, service.ErrDebtLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	var dl *service.DebtLimitError
	switch {
	case errors.As(err, &dl):
		return fmt.Sprintf("Member has a debt of more than %g. Please clear the debt to rent a book.", dl.Limit)
	case errors.Is(err, service.ErrBookNotFound):
		return "Book not found"
	case errors.Is(err, service.ErrMemberNotFound):
		return "Member not found"
	case errors.Is(err, service.ErrRentalNotFound):
		return "Rental not found"
	case errors.Is(err, service.ErrBookUnavailable):
		return "Book not available"
	case errors.Is(err, service.ErrBookExists):
		return "A book with this ID already exists"
	case errors.Is(err, service.ErrBookInUse):
		return "This book has rental records and cannot be deleted"
	case errors.Is(err, service.ErrMemberInUse):
		return "This member has rental records and cannot be deleted"
	case errors.Is(err, service.ErrAlreadyReturned):
		return "This rental has already been returned"
	case errors.Is(err, service.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
		return strings.ToUpper(msg[:1]) + msg[1:]
	case errors.Is(err, context.DeadlineExceeded):
		return "The request took too long. Please try again."
	default:
		return "Internal server error"
	}
}
