package models

import "time"

// Tip classification used inside feedback categories.
const (
	TipTypeGood    = "good"
	TipTypeImprove = "improve"
)

// Tip is a single piece of guidance within a feedback category.
type Tip struct {
	Type string `json:"type"`
	Tip  string `json:"tip"`
}

// CategoryFeedback scores one aspect of a resume.
type CategoryFeedback struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

// Feedback is the structured scoring result produced by the model for a
// resume. All scores are integers in [0,100].
type Feedback struct {
	OverallScore int              `json:"overallScore"`
	ToneAndStyle CategoryFeedback `json:"toneAndStyle"`
	Content      CategoryFeedback `json:"content"`
	Structure    CategoryFeedback `json:"structure"`
	Skills       CategoryFeedback `json:"skills"`
	ATS          CategoryFeedback `json:"ATS"`
}

// ResumeRecord is one uploaded resume plus its job context and, once scoring
// completes, the attached feedback. Stored under key "resume:<id>". All
// fields except Feedback are immutable after creation.
type ResumeRecord struct {
	ID             string    `json:"id"`
	ResumePath     string    `json:"resumePath"`
	ImagePath      string    `json:"imagePath"`
	CompanyName    string    `json:"companyName"`
	JobTitle       string    `json:"jobTitle"`
	JobDescription string    `json:"jobDescription"`
	CreatedAt      time.Time `json:"createdAt"`
	Feedback       *Feedback `json:"feedback,omitempty"`
}

// Scored reports whether feedback has been attached to the record.
func (r ResumeRecord) Scored() bool {
	return r.Feedback != nil
}
