package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"
)

type BookHandler struct {
	responder
	svc     service.BookService
	imports service.ImportService
}

func NewBookHandler(svc service.BookService, imports service.ImportService, opts Options, logger *zap.Logger) *BookHandler {
	return &BookHandler{responder: newResponder(opts, logger), svc: svc, imports: imports}
}

func (h *BookHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/books", h.List)
	r.GET("/book/:id", h.Detail)
	r.GET("/addbooks", h.AddForm)
	r.POST("/addbooks", h.Add)
	r.GET("/editbook/:id", h.EditForm)
	r.POST("/editbook/:id", h.Edit)
	r.GET("/deletebook/:id", h.Delete)
	r.POST("/deletebook/:id", h.Delete)
	r.GET("/importBooks", h.ImportForm)
	r.POST("/importBooks", h.Import)
	r.POST("/search", h.Search)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	books, err := h.svc.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "books", gin.H{"Title": "Books", "Books": books})
}

func (h *BookHandler) Detail(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "book_detail", gin.H{"Title": book.Title, "Book": book})
}

func (h *BookHandler) AddForm(c *gin.Context) {
	h.renderBookForm(c, http.StatusOK, 0, nil, nil)
}

func (h *BookHandler) Add(c *gin.Context) {
	var in dto.CreateBookForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderBookForm(c, http.StatusBadRequest, 0, postedValues(c), dto.FieldErrors(err))
		return
	}
	book := in.ToModel()
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Create(ctx, &book); err != nil {
		switch {
		case errors.Is(err, service.ErrBookExists):
			h.renderBookForm(c, http.StatusConflict, 0, postedValues(c), map[string]string{"bookID": userMessage(err)})
		case errors.Is(err, service.ErrInvalidInput):
			h.renderBookForm(c, http.StatusBadRequest, 0, postedValues(c), map[string]string{"_form": userMessage(err)})
		default:
			h.fail(c, err)
		}
		return
	}
	h.redirect(c, "/books", service.Success("Book Added"))
}

func (h *BookHandler) EditForm(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderBookForm(c, http.StatusOK, id, bookValues(book), nil)
}

func (h *BookHandler) Edit(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var in dto.EditBookForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderBookForm(c, http.StatusBadRequest, id, postedValues(c), dto.FieldErrors(err))
		return
	}
	book := in.ToModel(id)
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Update(ctx, id, &book); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.renderBookForm(c, http.StatusBadRequest, id, postedValues(c), map[string]string{"_form": userMessage(err)})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/books", service.Success("Book Updated"))
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrBookInUse) {
			h.redirect(c, "/books", service.Danger(userMessage(err)))
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/books", service.Success("Book Deleted"))
}

func (h *BookHandler) Search(c *gin.Context) {
	var in dto.SearchForm
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	books, err := h.svc.Search(ctx, in.Search)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "books", gin.H{"Title": "Search", "Books": books, "Query": in.Search})
}

var importFields = []struct{ Name, Label, Type string }{
	{"title", "Title", "text"},
	{"authors", "Authors", "text"},
	{"isbn", "ISBN", "text"},
	{"publisher", "Publisher", "text"},
	{"number_of_books", "Number of books", "number"},
	{"quantity_per_book", "Quantity per book", "number"},
}

func (h *BookHandler) ImportForm(c *gin.Context) {
	h.renderImportForm(c, http.StatusOK, map[string]string{"number_of_books": "20", "quantity_per_book": "1"}, nil)
}

func (h *BookHandler) Import(c *gin.Context) {
	var in dto.ImportForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderImportForm(c, http.StatusBadRequest, postedValues(c), dto.FieldErrors(err))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.ImportTimeout)
	defer cancel()

	result, err := h.imports.Import(ctx, in.ToRequest())
	if err != nil {
		if result != nil {
			h.logger.Warn("import stopped early", zap.Int("imported", result.Imported), zap.Error(err))
			h.redirect(c, "/books", result.Notice)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			h.renderImportForm(c, http.StatusBadRequest, postedValues(c), map[string]string{"_form": userMessage(err)})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/books", result.Notice)
}

func (h *BookHandler) renderBookForm(c *gin.Context, status int, id int64, values, errs map[string]string) {
	data := gin.H{"Title": "Add Book", "Action": "/addbooks", "Creating": true}
	if id > 0 {
		data = gin.H{"Title": "Edit Book", "Action": "/editbook/" + strconv.FormatInt(id, 10), "Creating": false}
	}
	if values != nil {
		data["Values"] = values
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, status, "book_form", data)
}

func (h *BookHandler) renderImportForm(c *gin.Context, status int, values, errs map[string]string) {
	data := gin.H{"Title": "Import Books", "Fields": importFields, "Values": values}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, status, "import", data)
}

func bookValues(b *models.Book) map[string]string {
	return map[string]string{
		"title":              b.Title,
		"authors":            b.Authors,
		"average_rating":     strconv.FormatFloat(b.AverageRating, 'f', -1, 64),
		"isbn":               b.ISBN,
		"isbn13":             b.ISBN13,
		"language_code":      b.LanguageCode,
		"num_pages":          strconv.Itoa(b.NumPages),
		"ratings_count":      strconv.Itoa(b.RatingsCount),
		"text_reviews_count": strconv.Itoa(b.TextReviewsCount),
		"publication_date":   b.PublicationDate,
		"publisher":          b.Publisher,
		"total_count":        strconv.Itoa(b.TotalCount),
	}
}
