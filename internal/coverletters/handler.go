package coverletters

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

// RegisterRoutes attaches cover letter and template routes to the router
// group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/cover-letters", h.create)
	rg.GET("/jobs/:id/cover-letters", h.list)
	rg.GET("/cover-letters/:id", h.get)
	rg.PATCH("/cover-letters/:id", h.update)
	rg.POST("/cover-letters/:id/current", h.setCurrent)
	rg.DELETE("/cover-letters/:id", h.remove)

	rg.POST("/cover-letter-templates", h.createTemplate)
	rg.GET("/cover-letter-templates", h.listTemplates)
	rg.PATCH("/cover-letter-templates/:id", h.updateTemplate)
	rg.POST("/cover-letter-templates/:id/default", h.setDefaultTemplate)
	rg.DELETE("/cover-letter-templates/:id", h.removeTemplate)
}

type coverLetterRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	TemplateID *string `json:"templateId"`
}

type templateRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")

	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	letter, err := h.Svc.Create(c.Request.Context(), userID, jobID, CreateInput{
		Title:      req.Title,
		Content:    req.Content,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		writeError(c, err, "failed to create cover letter")
		return
	}
	c.Set("jobId", jobID)
	respond.Created(c, toCoverLetterResponse(letter))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")

	letters, err := h.Svc.List(c.Request.Context(), userID, jobID)
	if err != nil {
		writeError(c, err, "failed to list cover letters")
		return
	}
	respond.OK(c, gin.H{"coverLetters": toCoverLetterResponses(letters)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	letter, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load cover letter")
		return
	}
	respond.OK(c, toCoverLetterResponse(letter))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	letter, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), UpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(c, err, "failed to update cover letter")
		return
	}
	respond.OK(c, toCoverLetterResponse(letter))
}

func (h *Handler) setCurrent(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	letter, err := h.Svc.SetAsCurrent(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to set current cover letter")
		return
	}
	respond.OK(c, toCoverLetterResponse(letter))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete cover letter")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) createTemplate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	tpl, err := h.Svc.CreateTemplate(c.Request.Context(), userID, TemplateInput{
		Title:     req.Title,
		Content:   req.Content,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeError(c, err, "failed to create template")
		return
	}
	respond.Created(c, toTemplateResponse(tpl))
}

func (h *Handler) listTemplates(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	templates, err := h.Svc.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list templates")
		return
	}
	respond.OK(c, gin.H{"templates": toTemplateResponses(templates)})
}

func (h *Handler) updateTemplate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	tpl, err := h.Svc.UpdateTemplate(c.Request.Context(), userID, c.Param("id"), TemplateInput{
		Title:     req.Title,
		Content:   req.Content,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeError(c, err, "failed to update template")
		return
	}
	respond.OK(c, toTemplateResponse(tpl))
}

func (h *Handler) setDefaultTemplate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.SetDefaultTemplate(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to set default template")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) removeTemplate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DeleteTemplate(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete template")
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSchemaUnprovisioned):
		respond.Error(c, http.StatusServiceUnavailable, respond.CodeSchemaUnprovisioned,
			"cover letter storage is not provisioned; run the cover letter migration before writing", nil)
	case errors.Is(err, authz.ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, respond.CodeAccessDenied, "resource does not belong to the caller", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, authz.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "cover letter not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, err.Error())
	}
}
