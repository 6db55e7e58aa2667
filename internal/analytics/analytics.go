// Package analytics derives statistics and heuristic insights from the
// journal's non-archived record set. Everything here is a pure function of
// the records; nothing is persisted.
package analytics

import (
	"context"
	"fmt"
	"math"

	"decidemate/internal/domain"
)

// Source supplies the full record set. *repo.Repository satisfies it.
type Source interface {
	GetAll(ctx context.Context) ([]domain.Decision, error)
}

type Engine struct {
	Source Source
}

func New(src Source) *Engine {
	return &Engine{Source: src}
}

// OverallStats aggregates across all non-archived decisions.
// ConfidenceCalibration is mean(confidence - outcome rating) over reviewed
// records: positive means overconfident, negative underconfident.
type OverallStats struct {
	TotalDecisions        int     `json:"totalDecisions"`
	ReviewedDecisions     int     `json:"reviewedDecisions"`
	PendingDecisions      int     `json:"pendingDecisions"`
	AverageConfidence     float64 `json:"averageConfidence"`
	AverageOutcome        float64 `json:"averageOutcome"`
	ReviewCompletionRate  float64 `json:"reviewCompletionRate"`
	ConfidenceCalibration float64 `json:"confidenceCalibration"`
}

// CategoryStats aggregates one category's non-archived decisions.
// SuccessRate is the percentage of reviewed decisions rated 7 or higher.
type CategoryStats struct {
	Category          domain.Category `json:"category"`
	Count             int             `json:"count"`
	AverageConfidence float64         `json:"averageConfidence"`
	AverageOutcome    float64         `json:"averageOutcome"`
	SuccessRate       float64         `json:"successRate"`
}

// DayStats is the decision count for one day of the week.
type DayStats struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func active(decisions []domain.Decision) []domain.Decision {
	res := decisions[:0:0]
	for _, d := range decisions {
		if !d.IsArchived {
			res = append(res, d)
		}
	}
	return res
}

// OverallStats computes the aggregate stats. All-zero on an empty journal.
func (e *Engine) OverallStats(ctx context.Context) (OverallStats, error) {
	decisions, err := e.Source.GetAll(ctx)
	if err != nil {
		return OverallStats{}, err
	}
	return overallStats(active(decisions)), nil
}

func overallStats(decisions []domain.Decision) OverallStats {
	stats := OverallStats{TotalDecisions: len(decisions)}
	var confidenceSum, outcomeSum, calibrationSum float64
	for _, d := range decisions {
		confidenceSum += float64(d.ConfidenceLevel)
		if !d.Reviewed() {
			continue
		}
		stats.ReviewedDecisions++
		// Rating defaults to 5 if somehow absent; the invariant says it
		// never is, but the stats must not blow up on legacy data.
		rating := 5
		if d.Outcome != nil {
			rating = d.Outcome.Rating
		}
		outcomeSum += float64(rating)
		calibrationSum += float64(d.ConfidenceLevel) - float64(rating)
	}
	stats.PendingDecisions = stats.TotalDecisions - stats.ReviewedDecisions
	if stats.TotalDecisions > 0 {
		stats.AverageConfidence = confidenceSum / float64(stats.TotalDecisions)
		stats.ReviewCompletionRate = float64(stats.ReviewedDecisions) / float64(stats.TotalDecisions) * 100
	}
	if stats.ReviewedDecisions > 0 {
		stats.AverageOutcome = outcomeSum / float64(stats.ReviewedDecisions)
		stats.ConfidenceCalibration = calibrationSum / float64(stats.ReviewedDecisions)
	}
	return stats
}

// CategoryStats computes per-category aggregates in the canonical category
// order. Categories with no records are omitted entirely.
func (e *Engine) CategoryStats(ctx context.Context) ([]CategoryStats, error) {
	decisions, err := e.Source.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return categoryStats(active(decisions)), nil
}

func categoryStats(decisions []domain.Decision) []CategoryStats {
	res := []CategoryStats{}
	for _, cat := range domain.Categories() {
		var count, reviewed, successes int
		var confidenceSum, outcomeSum float64
		for _, d := range decisions {
			if d.Category != cat {
				continue
			}
			count++
			confidenceSum += float64(d.ConfidenceLevel)
			if !d.Reviewed() {
				continue
			}
			reviewed++
			outcomeSum += float64(d.Outcome.Rating)
			if d.Outcome.Rating >= 7 {
				successes++
			}
		}
		if count == 0 {
			continue
		}
		stat := CategoryStats{
			Category:          cat,
			Count:             count,
			AverageConfidence: confidenceSum / float64(count),
		}
		if reviewed > 0 {
			stat.AverageOutcome = outcomeSum / float64(reviewed)
			stat.SuccessRate = float64(successes) / float64(reviewed) * 100
		}
		res = append(res, stat)
	}
	return res
}

// FrequencyByDay buckets non-archived decisions by the weekday of CreatedAt.
// All seven days are always returned, Sunday first, zero counts included.
func (e *Engine) FrequencyByDay(ctx context.Context) ([]DayStats, error) {
	decisions, err := e.Source.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return frequencyByDay(active(decisions)), nil
}

func frequencyByDay(decisions []domain.Decision) []DayStats {
	counts := make([]int, 7)
	for _, d := range decisions {
		counts[int(d.CreatedAt.Weekday())]++
	}
	res := make([]DayStats, 7)
	for i, name := range dayNames {
		res[i] = DayStats{Day: name, Count: counts[i]}
	}
	return res
}

// MostActiveDay returns the day with the highest decision count. On an
// all-zero distribution the first day reaching the maximum wins, so an
// empty journal deterministically reports "Sunday". Kept on purpose; the
// presentation layer decides whether zero activity is worth showing.
func (e *Engine) MostActiveDay(ctx context.Context) (string, error) {
	days, err := e.FrequencyByDay(ctx)
	if err != nil {
		return "", err
	}
	return mostActiveDay(days), nil
}

func mostActiveDay(days []DayStats) string {
	if len(days) == 0 {
		return "N/A"
	}
	best := days[0]
	for _, d := range days[1:] {
		if d.Count > best.Count {
			best = d
		}
	}
	return best.Day
}

// BestCategory returns the category with the highest average outcome among
// categories holding at least one record, or "N/A" when none qualify.
// A category with zero reviewed records has average outcome 0 and so can
// never win over a reviewed one.
func (e *Engine) BestCategory(ctx context.Context) (string, error) {
	stats, err := e.CategoryStats(ctx)
	if err != nil {
		return "", err
	}
	return bestCategory(stats), nil
}

func bestCategory(stats []CategoryStats) string {
	if len(stats) == 0 {
		return "N/A"
	}
	best := stats[0]
	for _, s := range stats[1:] {
		if s.AverageOutcome > best.AverageOutcome {
			best = s
		}
	}
	return string(best.Category)
}

// WorstCategory mirrors BestCategory with the minimum average outcome. Note
// an unreviewed category scores 0 and will surface as "worst".
func (e *Engine) WorstCategory(ctx context.Context) (string, error) {
	stats, err := e.CategoryStats(ctx)
	if err != nil {
		return "", err
	}
	return worstCategory(stats), nil
}

func worstCategory(stats []CategoryStats) string {
	if len(stats) == 0 {
		return "N/A"
	}
	worst := stats[0]
	for _, s := range stats[1:] {
		if s.AverageOutcome < worst.AverageOutcome {
			worst = s
		}
	}
	return string(worst.Category)
}

// Insights assembles the human-readable insight list in fixed order:
// calibration, most active day, best category, per-category calibration,
// review completion. A fallback line is returned if nothing applies.
func (e *Engine) Insights(ctx context.Context) ([]string, error) {
	decisions, err := e.Source.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return insights(active(decisions)), nil
}

func insights(decisions []domain.Decision) []string {
	stats := overallStats(decisions)
	catStats := categoryStats(decisions)
	res := []string{}

	if stats.ReviewedDecisions >= 3 {
		calibrationPercent := math.Abs(stats.ConfidenceCalibration * 10)
		switch {
		case stats.ConfidenceCalibration > 1:
			res = append(res, fmt.Sprintf("You're %.0f%% overconfident on average", calibrationPercent))
		case stats.ConfidenceCalibration < -1:
			res = append(res, fmt.Sprintf("You're %.0f%% underconfident on average", calibrationPercent))
		default:
			res = append(res, "Your confidence is well-calibrated!")
		}
	}

	if day := mostActiveDay(frequencyByDay(decisions)); day != "N/A" {
		res = append(res, fmt.Sprintf("%s is your most active decision day", day))
	}

	if best := bestCategory(catStats); best != "N/A" {
		res = append(res, fmt.Sprintf("%s decisions have your best outcomes", best))
	}

	for _, cat := range catStats {
		if cat.Count < 3 {
			continue
		}
		calibration := cat.AverageConfidence - cat.AverageOutcome
		if calibration > 1.5 {
			res = append(res, fmt.Sprintf("You're overconfident on %s decisions", cat.Category))
		} else if calibration < -1.5 {
			res = append(res, fmt.Sprintf("You're underconfident on %s decisions", cat.Category))
		}
	}

	if stats.TotalDecisions >= 5 {
		if stats.ReviewCompletionRate < 30 {
			res = append(res, "Complete more reviews to unlock better insights")
		} else if stats.ReviewCompletionRate > 80 {
			res = append(res, "Great job staying on top of your reviews!")
		}
	}

	if len(res) == 0 {
		return []string{"Make more decisions to unlock insights"}
	}
	return res
}
