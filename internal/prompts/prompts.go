// Package prompts builds the instruction text sent to the generative model.
// Every prompt pins the exact JSON shape the response parser expects.
package prompts

import (
	"fmt"
	"strings"

	"github.com/visen-app/visen-api/internal/models"
)

const questionShape = `[
  {
    "question": "Tell me about a time...",
    "category": "behavioral",
    "difficulty": "medium",
    "tips": ["Use STAR method", "Focus on impact", "Be specific with metrics"]
  }
]`

// ResumeFeedback builds the scoring instructions for an uploaded resume.
func ResumeFeedback(jobTitle, jobDescription string) string {
	b := strings.Builder{}
	b.WriteString("You are an expert in ATS (Applicant Tracking Systems) and resume analysis.\n")
	b.WriteString("Analyze and rate this resume for the following role and suggest how to improve it.\n")
	b.WriteString("Ratings can be low if the resume is bad; be thorough and detailed, the user can take criticism.\n\n")
	fmt.Fprintf(&b, "Job title: %s\n", jobTitle)
	fmt.Fprintf(&b, "Job description:\n%s\n\n", jobDescription)
	b.WriteString(`Return a JSON object with this exact structure (all scores are integers 0-100, tip type is "good" or "improve"):
{
  "overallScore": 85,
  "toneAndStyle": {"score": 80, "tips": [{"type": "good", "tip": "..."}, {"type": "improve", "tip": "..."}]},
  "content": {"score": 80, "tips": []},
  "structure": {"score": 80, "tips": []},
  "skills": {"score": 80, "tips": []},
  "ATS": {"score": 80, "tips": []}
}
Return ONLY the JSON object, no other text.`)
	return b.String()
}

// StandaloneQuestions builds the generation prompt for a practice session
// created from raw job context.
func StandaloneQuestions(jobTitle, jobDescription string, count int) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Generate %d interview questions for a %s position.\n\n", count, jobTitle)
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)
	b.WriteString(`Create a balanced mix of:
- Behavioral questions (STAR method)
- Technical questions (role-specific)
- Situational questions (problem-solving)

For EACH question, provide:
1. The question text
2. Category: "behavioral", "technical", or "situational"
3. Difficulty: "easy", "medium", or "hard"
4. 2-3 tips for answering well

Return as JSON array ONLY (no other text):
`)
	b.WriteString(questionShape)
	return b.String()
}

// ResumeLinkedQuestions builds the generation prompt for a session derived
// from an analyzed resume. The mix is fixed: 4 behavioral, 3 technical,
// 3 situational.
func ResumeLinkedQuestions(record models.ResumeRecord) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Based on this resume for a %s at %s, generate 10 interview questions.\n\n", record.JobTitle, record.CompanyName)
	b.WriteString("Resume details:\n")
	fmt.Fprintf(&b, "- Job Title: %s\n", record.JobTitle)
	fmt.Fprintf(&b, "- Company: %s\n", record.CompanyName)
	fmt.Fprintf(&b, "- Job Description: %s\n\n", record.JobDescription)
	b.WriteString(`Generate a mix of:
- 4 behavioral questions (STAR method)
- 3 technical questions (role-specific)
- 3 situational questions (problem-solving)

For EACH question, provide:
1. The question
2. Category (behavioral/technical/situational)
3. Difficulty (easy/medium/hard)
4. 2-3 tips for answering

Return as JSON array with this structure:
`)
	b.WriteString(questionShape)
	b.WriteString("\n\nReturn ONLY the JSON array, no other text.")
	return b.String()
}

// AnswerEvaluation builds the scoring prompt for one submitted answer.
func AnswerEvaluation(question models.Question, answer string) string {
	b := strings.Builder{}
	b.WriteString("Evaluate this interview answer:\n\n")
	fmt.Fprintf(&b, "Question: %s\n", question.Question)
	fmt.Fprintf(&b, "Category: %s\n", question.Category)
	fmt.Fprintf(&b, "Difficulty: %s\n\n", question.Difficulty)
	fmt.Fprintf(&b, "Answer: %s\n\n", answer)
	b.WriteString(`Provide:
1. Score out of 100
2. Strengths (what was good)
3. Areas for improvement
4. Suggested better answer

Return as JSON:
{
  "score": 85,
  "strengths": ["Clear structure", "Good examples"],
  "improvements": ["Could add more metrics", "Expand on outcome"],
  "suggestedAnswer": "Here's a better version..."
}

Return ONLY JSON, no other text.`)
	return b.String()
}
