package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Books   service.BookService
	Members service.MemberService
	Rentals service.RentalService
	Imports service.ImportService
	Reports service.ReportService
}

// NewRouter builds the gin engine with middleware, views and every route.
// checks feeds /check-conn; "database" is treated as required.
func NewRouter(svcs Services, views render.HTMLRender, checks map[string]HealthCheck, opts Options, logger *zap.Logger) *gin.Engine {
	dto.RegisterValidators()

	r := gin.New()
	r.HTMLRender = views
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Notices())

	r.GET("/check-conn", Health(checks, "database"))

	NewReportHandler(svcs.Reports, opts, logger).RegisterRoutes(r)
	NewBookHandler(svcs.Books, svcs.Imports, opts, logger).RegisterRoutes(r)
	NewMemberHandler(svcs.Members, opts, logger).RegisterRoutes(r)
	NewRentalHandler(svcs.Rentals, opts, logger).RegisterRoutes(r)

	api := r.Group("/api")
	NewAPIHandler(svcs.Books, svcs.Members, svcs.Rentals, svcs.Reports, opts, logger).RegisterRoutes(api)

	pages := newResponder(opts, logger)
	r.NoRoute(func(c *gin.Context) {
		pages.render(c, http.StatusNotFound, "error", gin.H{
			"Title":   "Not Found",
			"Code":    http.StatusNotFound,
			"Message": "Page not found",
		})
	})
	return r
}
