package coach

import (
	"fmt"
	"sort"

	"famcoach/internal/model"
)

// Priority assigned to the catch-all candidate, and the band within
// which a non-recent alternative is considered comparable to the top
// candidate during rotation.
const (
	generalGrowthPriority = 3
	comparableBand        = 2
)

// Candidate is one scored coaching topic.
type Candidate struct {
	Category  model.InsightCategory
	FocusArea string
	Priority  int
}

// Selection is the chosen topic plus the trend summary that goes into
// the generation prompt.
type Selection struct {
	Category   model.InsightCategory
	FocusArea  string
	Priority   int
	TrendNotes string
	DataPoints int
}

// Classify builds the ranked candidate list from the profile ratings.
// A missing rating contributes no candidate; the general-growth
// catch-all is always present, so the result is never empty. Ordering
// is priority descending with ties broken by category name so the
// ranking is stable regardless of insertion order.
func Classify(p *model.Profile) []Candidate {
	var candidates []Candidate

	if p != nil {
		if p.SpouseRating != nil && *p.SpouseRating < 7 {
			candidates = append(candidates, Candidate{
				Category:  model.CategoryRelationship,
				FocusArea: focusLowRating("your relationship with your partner", *p.SpouseRating, p.SpouseGoal),
				Priority:  10 - *p.SpouseRating,
			})
		}
		if p.ChildrenRating != nil && *p.ChildrenRating < 7 {
			candidates = append(candidates, Candidate{
				Category:  model.CategoryParenting,
				FocusArea: focusLowRating("your connection with your children", *p.ChildrenRating, p.ChildrenGoal),
				Priority:  10 - *p.ChildrenRating,
			})
		}
		if p.HealthRating != nil && *p.HealthRating < 7 {
			candidates = append(candidates, Candidate{
				Category:  model.CategoryWellness,
				FocusArea: focusLowRating("your physical health and energy", *p.HealthRating, p.HealthGoal),
				Priority:  10 - *p.HealthRating,
			})
		}
		if p.StressLevel != nil && *p.StressLevel > 6 {
			candidates = append(candidates, Candidate{
				Category:  model.CategoryMindset,
				FocusArea: fmt.Sprintf("managing stress, currently rated %d/10", *p.StressLevel),
				Priority:  *p.StressLevel,
			})
		}
	}

	candidates = append(candidates, Candidate{
		Category:  model.CategoryGeneralGrowth,
		FocusArea: "building on your strengths as a parent and partner",
		Priority:  generalGrowthPriority,
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].Category < candidates[j].Category
	})
	return candidates
}

// Pick applies the rotation rule to a ranked candidate list. recent is
// the category history of previous insights, newest first; only the
// first three entries count as "recent". The top candidate wins unless
// it was used recently and another candidate of comparable priority has
// not been; when every candidate is recent, the least recently used one
// wins. Pick never returns an empty selection for any input.
func Pick(candidates []Candidate, recent []model.InsightCategory) Candidate {
	if len(candidates) == 0 {
		return Candidate{
			Category:  model.CategoryGeneralGrowth,
			FocusArea: "building on your strengths as a parent and partner",
			Priority:  generalGrowthPriority,
		}
	}

	if len(recent) > 3 {
		recent = recent[:3]
	}
	rank := make(map[model.InsightCategory]int, len(recent))
	for i, c := range recent {
		if _, seen := rank[c]; !seen {
			rank[c] = i
		}
	}

	top := candidates[0]
	if _, used := rank[top.Category]; !used {
		return top
	}

	// Top was used recently: deflect to the best fresh candidate, but
	// only if its priority is within reach of the top's.
	for _, c := range candidates[1:] {
		if _, used := rank[c.Category]; !used {
			if top.Priority-c.Priority <= comparableBand {
				return c
			}
			break
		}
	}

	// Everything comparable has been used recently: take the candidate
	// whose category was used longest ago.
	best := top
	bestRank := rank[top.Category]
	for _, c := range candidates[1:] {
		if r, used := rank[c.Category]; used && r > bestRank {
			best, bestRank = c, r
		}
	}
	return best
}

// SelectFocus is the full selector: trends from logs, candidates from
// the profile, rotation against recent insight categories.
func SelectFocus(p *model.Profile, logs []model.DailyLog, recent []model.InsightCategory) Selection {
	trends := ComputeTrends(logs)
	chosen := Pick(Classify(p), recent)
	return Selection{
		Category:   chosen.Category,
		FocusArea:  chosen.FocusArea,
		Priority:   chosen.Priority,
		TrendNotes: trends.Summary(),
		DataPoints: trends.DataPoints,
	}
}

func focusLowRating(area string, rating int, goal string) string {
	if goal != "" {
		return fmt.Sprintf("%s, rated %d/10 (stated goal: %s)", area, rating, goal)
	}
	return fmt.Sprintf("%s, rated %d/10", area, rating)
}
