package domain

import "time"

// Category classifies a decision. The set is fixed; stats are reported per
// category and unknown values are rejected at the create/update boundary.
type Category string

const (
	CategoryFinancial     Category = "financial"
	CategoryCareer        Category = "career"
	CategoryRelationships Category = "relationships"
	CategoryHealth        Category = "health"
	CategoryBusiness      Category = "business"
	CategoryPersonal      Category = "personal"
	CategoryOther         Category = "other"
)

// Categories returns all categories in their canonical reporting order.
func Categories() []Category {
	return []Category{
		CategoryFinancial,
		CategoryCareer,
		CategoryRelationships,
		CategoryHealth,
		CategoryBusiness,
		CategoryPersonal,
		CategoryOther,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Outcome is the realized result of a decision, recorded at review time.
// It is owned by its Decision; ReviewedAt is set on submission.
type Outcome struct {
	Description    string    `json:"description"`
	Rating         int       `json:"rating" minimum:"1" maximum:"10"`
	LessonsLearned string    `json:"lessonsLearned"`
	ReviewedAt     time.Time `json:"reviewedAt" format:"date-time"`
}

// Decision is a journaled choice with a stated confidence level, reviewed
// later against what actually happened. JSON keys are camelCase to stay
// compatible with exports from earlier versions of the journal.
type Decision struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        Category  `json:"category" enum:"financial,career,relationships,health,business,personal,other"`
	ConfidenceLevel int       `json:"confidenceLevel" minimum:"1" maximum:"10"`
	ExpectedOutcome string    `json:"expectedOutcome"`
	ReviewDate      time.Time `json:"reviewDate" format:"date-time"`
	CreatedAt       time.Time `json:"createdAt" format:"date-time"`
	UpdatedAt       time.Time `json:"updatedAt" format:"date-time"`
	Outcome         *Outcome  `json:"outcome,omitempty"`
	Tags            []string  `json:"tags"`
	IsArchived      bool      `json:"isArchived,omitempty"`
}

// Reviewed reports whether an outcome has been recorded.
func (d Decision) Reviewed() bool { return d.Outcome != nil }

// Filter selects a decision subset. Archived records are excluded from
// every filter except FilterArchived.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPending  Filter = "pending"
	FilterReviewed Filter = "reviewed"
	FilterArchived Filter = "archived"
)

// Valid reports whether f is a known filter.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterReviewed, FilterArchived:
		return true
	}
	return false
}

// CreateInput holds the caller-supplied fields for a new decision. ID and
// timestamps are assigned by the repository.
type CreateInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        Category  `json:"category"`
	ConfidenceLevel int       `json:"confidenceLevel"`
	ExpectedOutcome string    `json:"expectedOutcome"`
	ReviewDate      time.Time `json:"reviewDate"`
	Tags            []string  `json:"tags,omitempty"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Category        *Category  `json:"category,omitempty"`
	ConfidenceLevel *int       `json:"confidenceLevel,omitempty"`
	ExpectedOutcome *string    `json:"expectedOutcome,omitempty"`
	ReviewDate      *time.Time `json:"reviewDate,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	IsArchived      *bool      `json:"isArchived,omitempty"`
}

// OutcomeInput holds the caller-supplied fields for a review submission;
// ReviewedAt is assigned by the repository.
type OutcomeInput struct {
	Description    string `json:"description"`
	Rating         int    `json:"rating"`
	LessonsLearned string `json:"lessonsLearned"`
}

// APIKey identifies a stored server API key. KeyHash is a sha256 hex digest;
// the raw key is shown once at creation and never persisted.
type APIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	KeyHash   string    `json:"keyHash"`
	CreatedAt time.Time `json:"createdAt" format:"date-time"`
}

// ConfidenceLabels maps confidence levels to their display names.
var ConfidenceLabels = map[int]string{
	1:  "Very Uncertain",
	2:  "Quite Uncertain",
	3:  "Somewhat Uncertain",
	4:  "Slightly Uncertain",
	5:  "Neutral",
	6:  "Slightly Confident",
	7:  "Somewhat Confident",
	8:  "Quite Confident",
	9:  "Very Confident",
	10: "Extremely Confident",
}

// OutcomeLabels maps outcome ratings to their display names.
var OutcomeLabels = map[int]string{
	1:  "Terrible",
	2:  "Very Poor",
	3:  "Poor",
	4:  "Below Average",
	5:  "Average",
	6:  "Above Average",
	7:  "Good",
	8:  "Very Good",
	9:  "Excellent",
	10: "Outstanding",
}
