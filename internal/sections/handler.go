package sections

import (
	"errors"
	"net/http"
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

// RegisterRoutes attaches section routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/sections", h.list)
	rg.PUT("/resumes/:id/summary", h.upsertSummary)
	rg.POST("/resumes/:id/experiences", h.createExperience)
	rg.PATCH("/experiences/:id", h.updateExperience)
	rg.DELETE("/experiences/:id", h.deleteExperience)
	rg.POST("/resumes/:id/educations", h.createEducation)
	rg.PATCH("/educations/:id", h.updateEducation)
	rg.DELETE("/educations/:id", h.deleteEducation)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	views, err := h.Svc.List(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to list sections")
		return
	}
	out := make([]SectionResponse, 0, len(views))
	for _, view := range views {
		out = append(out, toSectionResponse(view))
	}
	respond.OK(c, gin.H{"sections": out})
}

type summaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) upsertSummary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	view, err := h.Svc.UpsertSummary(c.Request.Context(), userID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		writeError(c, err, "failed to save summary")
		return
	}
	respond.OK(c, toSectionResponse(view))
}

type experienceRequest struct {
	SectionID    string  `json:"sectionId"`
	SectionTitle string  `json:"sectionTitle"`
	JobTitle     string  `json:"jobTitle"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Description  string  `json:"description"`
}

func (req experienceRequest) toInput() (ExperienceInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return ExperienceInput{}, err
	}
	end, clearEnd, err := parseEndDate(req.EndDate)
	if err != nil {
		return ExperienceInput{}, err
	}
	return ExperienceInput{
		SectionID:    req.SectionID,
		Title:        req.SectionTitle,
		JobTitle:     req.JobTitle,
		Company:      req.Company,
		Location:     req.Location,
		StartDate:    start,
		EndDate:      end,
		ClearEndDate: clearEnd,
		Description:  req.Description,
	}, nil
}

// parseEndDate keeps "no endDate in the request" apart from an explicit
// empty value, which marks the entry as ongoing again.
func parseEndDate(raw *string) (*time.Time, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if *raw == "" {
		return nil, true, nil
	}
	t, err := parseDate(*raw)
	return t, false, err
}

func (h *Handler) createExperience(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "dates must be YYYY-MM-DD", nil)
		return
	}

	exp, err := h.Svc.CreateExperience(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to create experience")
		return
	}
	respond.Created(c, toExperienceResponse(exp))
}

func (h *Handler) updateExperience(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "dates must be YYYY-MM-DD", nil)
		return
	}

	exp, err := h.Svc.UpdateExperience(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to update experience")
		return
	}
	respond.OK(c, toExperienceResponse(exp))
}

func (h *Handler) deleteExperience(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DeleteExperience(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete experience")
		return
	}
	respond.NoContent(c)
}

type educationRequest struct {
	SectionID    string  `json:"sectionId"`
	SectionTitle string  `json:"sectionTitle"`
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldOfStudy"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Description  string  `json:"description"`
}

func (req educationRequest) toInput() (EducationInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return EducationInput{}, err
	}
	end, clearEnd, err := parseEndDate(req.EndDate)
	if err != nil {
		return EducationInput{}, err
	}
	return EducationInput{
		SectionID:    req.SectionID,
		Title:        req.SectionTitle,
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    start,
		EndDate:      end,
		ClearEndDate: clearEnd,
		Description:  req.Description,
	}, nil
}

func (h *Handler) createEducation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "dates must be YYYY-MM-DD", nil)
		return
	}

	edu, err := h.Svc.CreateEducation(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to create education")
		return
	}
	respond.Created(c, toEducationResponse(edu))
}

func (h *Handler) updateEducation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "dates must be YYYY-MM-DD", nil)
		return
	}

	edu, err := h.Svc.UpdateEducation(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		writeError(c, err, "failed to update education")
		return
	}
	respond.OK(c, toEducationResponse(edu))
}

func (h *Handler) deleteEducation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DeleteEducation(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete education")
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSectionQuotaExceeded):
		respond.Error(c, http.StatusConflict, respond.CodeSectionQuota,
			"no section is available: the system permits a single miscellaneous section without a summary across all resumes, and it is currently in use elsewhere", nil)
	case errors.Is(err, authz.ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, respond.CodeAccessDenied, "resource does not belong to the caller", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, err.Error())
	}
}
