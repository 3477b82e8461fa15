package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactInfoResponse is the outward-facing contact block.
type ContactInfoResponse struct {
	ResumeID string `json:"resumeId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Links    string `json:"links"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ID:        resume.ID,
		Title:     resume.Title,
		CreatedAt: resume.CreatedAt,
		UpdatedAt: resume.UpdatedAt,
	}
}

func toContactResponse(info ContactInfo) ContactInfoResponse {
	return ContactInfoResponse{
		ResumeID: info.ResumeID,
		FullName: info.FullName,
		Email:    info.Email,
		Phone:    info.Phone,
		Location: info.Location,
		Links:    info.Links,
	}
}
