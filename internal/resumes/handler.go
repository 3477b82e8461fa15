package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/shared/authz"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id", h.rename)
	rg.DELETE("/resumes/:id", h.remove)
	rg.PUT("/resumes/:id/contact", h.setContact)
	rg.GET("/resumes/:id/contact", h.getContact)
}

type createRequest struct {
	Title string `json:"title"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	c.Set("resumeId", resume.ID)
	respond.Created(c, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	all, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}
	out := make([]ResumeResponse, 0, len(all))
	for _, resume := range all {
		out = append(out, toResponse(resume))
	}
	respond.OK(c, gin.H{"resumes": out})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) rename(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Rename(c.Request.Context(), userID, c.Param("id"), req.Title)
	if err != nil {
		writeError(c, err, "failed to rename resume")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

type contactRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Links    string `json:"links"`
}

func (h *Handler) setContact(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	info, err := h.Svc.SetContactInfo(c.Request.Context(), userID, ContactInfo{
		ResumeID: c.Param("id"),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Links:    req.Links,
	})
	if err != nil {
		writeError(c, err, "failed to save contact info")
		return
	}
	respond.OK(c, toContactResponse(info))
}

func (h *Handler) getContact(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	info, err := h.Svc.ContactInfo(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load contact info")
		return
	}
	respond.OK(c, toContactResponse(info))
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, authz.ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, respond.CodeAccessDenied, "resume does not belong to the caller", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, err.Error())
	}
}
