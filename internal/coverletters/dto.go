package coverletters

import "time"

type CoverLetterResponse struct {
	ID         string  `json:"id"`
	JobID      string  `json:"jobId"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	TemplateID *string `json:"templateId,omitempty"`
	Version    int     `json:"version"`
	IsCurrent  bool    `json:"isCurrent"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

func toCoverLetterResponse(l CoverLetter) CoverLetterResponse {
	return CoverLetterResponse{
		ID:         l.ID,
		JobID:      l.JobID,
		Title:      l.Title,
		Content:    l.Content,
		TemplateID: l.TemplateID,
		Version:    l.Version,
		IsCurrent:  l.IsCurrent,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.Format(time.RFC3339),
	}
}

func toCoverLetterResponses(letters []CoverLetter) []CoverLetterResponse {
	out := make([]CoverLetterResponse, 0, len(letters))
	for _, l := range letters {
		out = append(out, toCoverLetterResponse(l))
	}
	return out
}

type TemplateResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toTemplateResponse(t Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

func toTemplateResponses(templates []Template) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateResponse(t))
	}
	return out
}
