package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"
)

type MemberHandler struct {
	responder
	svc service.MemberService
}

func NewMemberHandler(svc service.MemberService, opts Options, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{responder: newResponder(opts, logger), svc: svc}
}

func (h *MemberHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/members", h.List)
	r.GET("/addmember", h.AddForm)
	r.POST("/addmember", h.Add)
	r.GET("/editmember/:id", h.EditForm)
	r.POST("/editmember/:id", h.Edit)
	r.GET("/deletemember/:id", h.Delete)
	r.POST("/deletemember/:id", h.Delete)
	r.GET("/addamount/:id", h.AmountForm)
	r.POST("/addamount/:id", h.AddAmount)
}

func (h *MemberHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	members, err := h.svc.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "members", gin.H{"Title": "Members", "Members": members})
}

func (h *MemberHandler) AddForm(c *gin.Context) {
	h.renderMemberForm(c, http.StatusOK, 0, nil, nil)
}

func (h *MemberHandler) Add(c *gin.Context) {
	var in dto.MemberForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderMemberForm(c, http.StatusBadRequest, 0, postedValues(c), dto.FieldErrors(err))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if _, err := h.svc.Create(ctx, in.Name, in.Email); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.renderMemberForm(c, http.StatusBadRequest, 0, postedValues(c), map[string]string{"name": userMessage(err)})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/members", service.Success("New Member Added"))
}

func (h *MemberHandler) EditForm(c *gin.Context) {
	member, ok := h.loadMember(c)
	if !ok {
		return
	}
	h.renderMemberForm(c, http.StatusOK, member.ID, map[string]string{"name": member.Name, "email": member.Email}, nil)
}

func (h *MemberHandler) Edit(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var in dto.MemberForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderMemberForm(c, http.StatusBadRequest, id, postedValues(c), dto.FieldErrors(err))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Update(ctx, id, in.Name, in.Email); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.renderMemberForm(c, http.StatusBadRequest, id, postedValues(c), map[string]string{"name": userMessage(err)})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/members", service.Success("Member Updated"))
}

func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrMemberInUse) {
			h.redirect(c, "/members", service.Danger(userMessage(err)))
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/members", service.Success("Member Deleted"))
}

func (h *MemberHandler) AmountForm(c *gin.Context) {
	member, ok := h.loadMember(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "amount", gin.H{"Title": "Add Amount", "Member": member})
}

func (h *MemberHandler) AddAmount(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var in dto.AmountForm
	if bindErr := c.ShouldBind(&in); bindErr != nil {
		member, ok := h.loadMember(c)
		if !ok {
			return
		}
		h.render(c, http.StatusBadRequest, "amount", gin.H{
			"Title":  "Add Amount",
			"Member": member,
			"Values": postedValues(c),
			"Errors": dto.FieldErrors(bindErr),
		})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	result, err := h.svc.RecordPayment(ctx, id, *in.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, "/members", result.Notice)
}

// loadMember fetches the member named by the :id path parameter and renders
// the error page itself when that fails.
func (h *MemberHandler) loadMember(c *gin.Context) (*models.Member, bool) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	member, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return member, true
}

func (h *MemberHandler) renderMemberForm(c *gin.Context, status int, id int64, values, errs map[string]string) {
	data := gin.H{"Title": "Add Member", "Action": "/addmember"}
	if id > 0 {
		data = gin.H{"Title": "Edit Member", "Action": "/editmember/" + strconv.FormatInt(id, 10)}
	}
	if values != nil {
		data["Values"] = values
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, status, "member_form", data)
}
