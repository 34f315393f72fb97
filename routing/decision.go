package routing

import "github.com/poiesic/ticketrouter/core"

// MinAutoAssignConfidence is the floor below which the top team is never
// auto-assigned.
const MinAutoAssignConfidence = 40.0

// dominanceRatio is how far ahead of the runner-up the top team must be.
const dominanceRatio = 1.5

// DecideAutoAssign applies the dominance rules to a ranked team list and
// the final result list. teams must already be sorted descending by
// confidence.
func DecideAutoAssign(teams []core.TeamScore, results []core.SearchResult) bool {
	if len(teams) == 0 || len(results) == 0 {
		return false
	}

	top := teams[0]
	if top.Confidence < MinAutoAssignConfidence {
		return false
	}

	if len(teams) > 1 && top.Confidence < dominanceRatio*teams[1].Confidence {
		return false
	}

	// The best passage must belong to the routed team.
	if results[0].Team != top.Team {
		return false
	}

	return true
}
