package dto

import (
	"time"

	"github.com/visen-app/visen-api/internal/models"
)

// AnalyzeResumeRequest carries the multipart form fields accompanying a
// resume upload.
type AnalyzeResumeRequest struct {
	CompanyName    string `form:"company_name" json:"companyName"`
	JobTitle       string `form:"job_title" json:"jobTitle" validate:"required"`
	JobDescription string `form:"job_description" json:"jobDescription" validate:"required"`
}

// ResumeSummary is the list-view projection of a resume record.
type ResumeSummary struct {
	ID           string    `json:"id"`
	CompanyName  string    `json:"companyName"`
	JobTitle     string    `json:"jobTitle"`
	ImagePath    string    `json:"imagePath"`
	OverallScore *int      `json:"overallScore,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewResumeSummary projects a record into its list view.
func NewResumeSummary(record models.ResumeRecord) ResumeSummary {
	summary := ResumeSummary{
		ID:          record.ID,
		CompanyName: record.CompanyName,
		JobTitle:    record.JobTitle,
		ImagePath:   record.ImagePath,
		CreatedAt:   record.CreatedAt,
	}
	if record.Scored() {
		score := record.Feedback.OverallScore
		summary.OverallScore = &score
	}
	return summary
}
