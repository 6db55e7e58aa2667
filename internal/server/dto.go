package server

import (
	"time"

	"decidemate/internal/domain"
)

// Request payloads

type CreateDecisionRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Category        domain.Category `json:"category" enum:"financial,career,relationships,health,business,personal,other"`
	ConfidenceLevel int             `json:"confidenceLevel" minimum:"1" maximum:"10"`
	ExpectedOutcome string          `json:"expectedOutcome,omitempty"`
	ReviewDate      time.Time       `json:"reviewDate" format:"date-time"`
	Tags            []string        `json:"tags,omitempty"`
}

type UpdateDecisionRequest struct {
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *domain.Category `json:"category,omitempty" enum:"financial,career,relationships,health,business,personal,other"`
	ConfidenceLevel *int             `json:"confidenceLevel,omitempty" minimum:"1" maximum:"10"`
	ExpectedOutcome *string          `json:"expectedOutcome,omitempty"`
	ReviewDate      *time.Time       `json:"reviewDate,omitempty" format:"date-time"`
	Tags            []string         `json:"tags,omitempty"`
}

type OutcomeRequest struct {
	Description    string `json:"description,omitempty"`
	Rating         int    `json:"rating" minimum:"1" maximum:"10"`
	LessonsLearned string `json:"lessonsLearned,omitempty"`
}

type SetPremiumRequest struct {
	Premium bool `json:"premium"`
}

// Response payloads

type ImportResponse struct {
	Added int `json:"added"`
}

type PremiumResponse struct {
	Premium       bool `json:"premium"`
	FreeTierLimit int  `json:"freeTierLimit"`
	CanCreate     bool `json:"canCreate"`
}

type HighlightsResponse struct {
	MostActiveDay string `json:"mostActiveDay"`
	BestCategory  string `json:"bestCategory"`
	WorstCategory string `json:"worstCategory"`
}

type InsightsResponse struct {
	Insights []string `json:"insights"`
}

func (r UpdateDecisionRequest) toInput() domain.UpdateInput {
	return domain.UpdateInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		ConfidenceLevel: r.ConfidenceLevel,
		ExpectedOutcome: r.ExpectedOutcome,
		ReviewDate:      r.ReviewDate,
		Tags:            r.Tags,
	}
}

func (r CreateDecisionRequest) toInput() domain.CreateInput {
	return domain.CreateInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		ConfidenceLevel: r.ConfidenceLevel,
		ExpectedOutcome: r.ExpectedOutcome,
		ReviewDate:      r.ReviewDate,
		Tags:            r.Tags,
	}
}
