package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/resumes"
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

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.PATCH("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.remove)
}

type jobRequest struct {
	ResumeID  *string `json:"resumeId"`
	Title     string  `json:"title"`
	Company   string  `json:"company"`
	Location  string  `json:"location"`
	URL       string  `json:"url"`
	Status    string  `json:"status"`
	Notes     string  `json:"notes"`
	AppliedAt string  `json:"appliedAt"`
}

// JobResponse is the outward-facing representation of a job.
type JobResponse struct {
	ID        string     `json:"id"`
	ResumeID  *string    `json:"resumeId,omitempty"`
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	Location  string     `json:"location"`
	URL       string     `json:"url"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toResponse(job Job) JobResponse {
	return JobResponse{
		ID:        job.ID,
		ResumeID:  job.ResumeID,
		Title:     job.Title,
		Company:   job.Company,
		Location:  job.Location,
		URL:       job.URL,
		Status:    job.Status,
		Notes:     job.Notes,
		AppliedAt: job.AppliedAt,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func (req jobRequest) toInput() (Input, error) {
	var appliedAt *time.Time
	if req.AppliedAt != "" {
		t, err := time.Parse(time.RFC3339, req.AppliedAt)
		if err != nil {
			return Input{}, err
		}
		appliedAt = &t
	}
	return Input{
		ResumeID:  req.ResumeID,
		Title:     req.Title,
		Company:   req.Company,
		Location:  req.Location,
		URL:       req.URL,
		Status:    req.Status,
		Notes:     req.Notes,
		AppliedAt: appliedAt,
	}, nil
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "appliedAt must be RFC3339", nil)
		return
	}

	job, err := h.Svc.Create(c.Request.Context(), userID, input)
	if err != nil {
		writeError(c, err, "failed to create job")
		return
	}
	c.Set("jobId", job.ID)
	respond.Created(c, toResponse(job))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	all, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list jobs")
		return
	}
	out := make([]JobResponse, 0, len(all))
	for _, job := range all {
		out = append(out, toResponse(job))
	}
	respond.OK(c, gin.H{"jobs": out})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load job")
		return
	}
	respond.OK(c, toResponse(job))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "appliedAt must be RFC3339", nil)
		return
	}

	job, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to update job")
		return
	}
	respond.OK(c, toResponse(job))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete job")
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, authz.ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, respond.CodeAccessDenied, "job does not belong to the caller", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, err.Error())
	}
}
