package types

import "github.com/google/uuid"

// SelectionConfig bounds the output of the diversity-constrained selector.
// A zero cap means unconstrained. MinPerCompany, when above 1, drops
// companies whose admitted bullet count falls below the floor.
type SelectionConfig struct {
	MaxBullets     int `json:"maxBullets" validate:"required,gt=0"`
	MaxPerCompany  int `json:"maxPerCompany,omitempty" validate:"omitempty,gte=0"`
	MaxPerPosition int `json:"maxPerPosition,omitempty" validate:"omitempty,gte=0"`
	MinPerCompany  int `json:"minPerCompany,omitempty" validate:"omitempty,gte=0"`
}

// DefaultSelectionConfig mirrors the defaults used for a one-page resume.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{
		MaxBullets:     18,
		MaxPerCompany:  6,
		MaxPerPosition: 4,
	}
}

// BulletScore pairs a bullet identifier with a relevance score. It is the
// common currency between the heuristic scorer, the LLM judge, and the
// diversity selector.
type BulletScore struct {
	BulletID string  `json:"id"`
	Score    float64 `json:"score"`
}

// ScoredBullet is a selected bullet with its full hierarchy context
// attached, ready for rendering.
type ScoredBullet struct {
	Bullet            Bullet  `json:"bullet"`
	Score             float64 `json:"score"`
	CompanyID         string  `json:"companyId"`
	CompanyName       string  `json:"companyName,omitempty"`
	CompanyLocation   string  `json:"companyLocation,omitempty"`
	CompanyDateStart  string  `json:"companyDateStart"`
	CompanyDateEnd    string  `json:"companyDateEnd,omitempty"`
	PositionID        string  `json:"positionId"`
	PositionName      string  `json:"positionName"`
	PositionDateStart string  `json:"positionDateStart"`
	PositionDateEnd   string  `json:"positionDateEnd,omitempty"`
}

// SalaryPeriod is the pay period attached to an extracted salary range.
type SalaryPeriod string

// Valid salary periods.
const (
	SalaryAnnual  SalaryPeriod = "annual"
	SalaryMonthly SalaryPeriod = "monthly"
	SalaryWeekly  SalaryPeriod = "weekly"
	SalaryDaily   SalaryPeriod = "daily"
	SalaryHourly  SalaryPeriod = "hourly"
)

// ValidSalaryPeriod reports whether p is one of the fixed enumeration.
func ValidSalaryPeriod(p SalaryPeriod) bool {
	switch p {
	case SalaryAnnual, SalaryMonthly, SalaryWeekly, SalaryDaily, SalaryHourly:
		return true
	}
	return false
}

// SalaryInfo is an optional enrichment extracted from the model output.
// It is cosmetic: validation failures degrade it to nil, never abort a parse.
type SalaryInfo struct {
	Currency string       `json:"currency"`
	Period   SalaryPeriod `json:"period"`
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
}

// SelectionMetadata describes how a selection result was produced.
type SelectionMetadata struct {
	RequestID  uuid.UUID `json:"requestId"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model,omitempty"`
	TokensUsed int       `json:"tokensUsed,omitempty"`
	Attempts   int       `json:"attempts"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// SelectionResult is the pipeline's output: the admitted bullets with full
// context, the judge's reasoning, and optional extracted enrichments.
type SelectionResult struct {
	Bullets   []ScoredBullet    `json:"bullets"`
	Reasoning string            `json:"reasoning"`
	JobTitle  *string           `json:"jobTitle"`
	Salary    *SalaryInfo       `json:"salary"`
	Metadata  SelectionMetadata `json:"metadata"`
}
