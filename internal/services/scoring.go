package services

import (
	"sort"

	"github.com/mickychog/career-genius/internal/models"
)

// ComputeScores rebuilds the score map from the full answer list. Options are
// stored with a normalized PointsTo for every phase, so accumulation is a
// single rule: any answered option pointing at a real area adds one point.
// Recomputing instead of adjusting incrementally keeps resubmission
// idempotent.
func ComputeScores(answers []models.UserAnswer, questionsByID map[string]*models.Question) models.ScoreMap {
	scores := models.ScoreMap{}
	for _, a := range answers {
		q, ok := questionsByID[a.QuestionID]
		if !ok {
			continue
		}
		opt, ok := q.OptionAt(a.SelectedOptionIndex)
		if !ok {
			continue
		}
		scores.Add(opt.PointsTo)
	}
	return scores
}

// TopBranches picks the 2 areas the funnel narrows to after the GENERAL
// phase: descending score, ties broken by Area declaration order so the
// selection is a pure function of the map. When fewer than 2 areas scored the
// result is padded with the default area (or, if that one already scored, the
// first unused area in declaration order) — the all-"none" user still gets a
// funnel.
func TopBranches(scores models.ScoreMap) []models.Area {
	var scored []models.Area
	for _, area := range models.AllAreas() {
		if scores[area] > 0 {
			scored = append(scored, area)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scores[scored[i]] > scores[scored[j]]
	})

	if len(scored) > 2 {
		scored = scored[:2]
	}
	for len(scored) < 2 {
		scored = append(scored, padArea(scored))
	}
	return scored
}

func padArea(taken []models.Area) models.Area {
	if !containsArea(taken, models.DefaultArea) {
		return models.DefaultArea
	}
	for _, area := range models.AllAreas() {
		if !containsArea(taken, area) {
			return area
		}
	}
	return models.DefaultArea
}

// WinningArea picks the single branch that carries the confirmation phase:
// the highest-scoring active branch, first branch winning ties. The
// non-strict tie-break is an accepted property of the funnel.
func WinningArea(scores models.ScoreMap, branches []models.Area) models.Area {
	if len(branches) == 0 {
		return models.DefaultArea
	}
	winner := branches[0]
	for _, branch := range branches[1:] {
		if scores[branch] > scores[winner] {
			winner = branch
		}
	}
	return winner
}

func containsArea(areas []models.Area, target models.Area) bool {
	for _, a := range areas {
		if a == target {
			return true
		}
	}
	return false
}
