package genstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/coverletters"
	"jobtrack-backend/internal/jobs"
	"jobtrack-backend/internal/llm"
	"jobtrack-backend/internal/shared/authz"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
)

// Handler exposes generation as a server-sent event stream. A client
// disconnect cancels the in-flight generation through the request context.
type Handler struct {
	Ctrl    *Controller
	Jobs    *jobs.Service
	Letters *coverletters.Service
}

func NewHandler(ctrl *Controller, jobsSvc *jobs.Service, letters *coverletters.Service) *Handler {
	return &Handler{Ctrl: ctrl, Jobs: jobsSvc, Letters: letters}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/cover-letters/generate", h.generate)
	rg.POST("/jobs/:id/cover-letters/generate/cancel", h.cancel)
	rg.GET("/jobs/:id/cover-letters/generate/state", h.state)
}

type generateRequest struct {
	TemplateID *string `json:"templateId"`
	ResumeText string  `json:"resumeText"`
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")

	// An empty body is allowed; generation works from the job alone.
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
			return
		}
	}

	job, err := h.Jobs.Get(c.Request.Context(), userID, jobID)
	if err != nil {
		writeError(c, err)
		return
	}

	input := llm.GenerateInput{
		JobTitle:      job.Title,
		Company:       job.Company,
		JobNotes:      job.Notes,
		ResumeText:    req.ResumeText,
		PromptVersion: llm.DefaultPromptVersion,
	}
	if req.TemplateID != nil {
		tpl, err := h.Letters.GetTemplate(c.Request.Context(), userID, *req.TemplateID)
		if err != nil {
			writeError(c, err)
			return
		}
		input.TemplateContent = tpl.Content
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	state, genErr := h.Ctrl.Generate(c.Request.Context(), jobID, input, Callbacks{
		OnChunk: func(chunk string) {
			writeEvent(c, "chunk", gin.H{"content": chunk})
		},
		OnDone: func(full string) {
			letter, err := h.Letters.Create(c.Request.Context(), userID, jobID, coverletters.CreateInput{
				Title:      fmt.Sprintf("Generated for %s", job.Title),
				Content:    full,
				TemplateID: req.TemplateID,
			})
			if err != nil {
				writeEvent(c, "error", gin.H{"code": respond.CodeSchemaUnprovisioned, "message": err.Error()})
				return
			}
			writeEvent(c, "done", gin.H{
				"coverLetterId": letter.ID,
				"version":       letter.Version,
			})
		},
		OnError: func(err error) {
			writeEvent(c, "error", gin.H{"code": respond.CodeStreamFailed, "message": err.Error()})
		},
	})
	if state == StateCancelled {
		writeEvent(c, "cancelled", gin.H{"jobId": jobID})
	}
	_ = genErr // already relayed through OnError
}

func (h *Handler) cancel(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")

	if _, err := h.Jobs.Get(c.Request.Context(), userID, jobID); err != nil {
		writeError(c, err)
		return
	}
	h.Ctrl.Cancel(jobID)
	respond.OK(c, gin.H{"state": string(h.Ctrl.State(jobID))})
}

func (h *Handler) state(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")

	if _, err := h.Jobs.Get(c.Request.Context(), userID, jobID); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"state": string(h.Ctrl.State(jobID))})
}

func writeEvent(c *gin.Context, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
	c.Writer.Flush()
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, respond.CodeAccessDenied, "job does not belong to the caller", nil)
	case errors.Is(err, jobs.ErrNotFound), errors.Is(err, coverletters.ErrNotFound), errors.Is(err, authz.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "job not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to start generation", err.Error())
	}
}
