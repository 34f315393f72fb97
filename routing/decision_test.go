package routing

import (
	"testing"

	"github.com/poiesic/ticketrouter/core"
	"github.com/stretchr/testify/assert"
)

func TestDecideAutoAssign(t *testing.T) {
	networkResult := []core.SearchResult{{Team: "network", Path: "1 CNI", Text: "x"}}

	tests := []struct {
		name    string
		teams   []core.TeamScore
		results []core.SearchResult
		want    bool
	}{
		{
			name: "no teams",
			want: false,
		},
		{
			name:  "no results",
			teams: []core.TeamScore{{Team: "network", Confidence: 90}},
			want:  false,
		},
		{
			name:    "below confidence floor",
			teams:   []core.TeamScore{{Team: "network", Confidence: 39.99}},
			results: networkResult,
			want:    false,
		},
		{
			name: "insufficient dominance",
			teams: []core.TeamScore{
				{Team: "network", Confidence: 60},
				{Team: "storage", Confidence: 50},
			},
			results: networkResult,
			want:    false,
		},
		{
			name: "dominant top team",
			teams: []core.TeamScore{
				{Team: "network", Confidence: 80},
				{Team: "storage", Confidence: 20},
			},
			results: networkResult,
			want:    true,
		},
		{
			name:    "single confident team",
			teams:   []core.TeamScore{{Team: "network", Confidence: 100}},
			results: networkResult,
			want:    true,
		},
		{
			name: "top result owned by different team",
			teams: []core.TeamScore{
				{Team: "network", Confidence: 90},
				{Team: "storage", Confidence: 10},
			},
			results: []core.SearchResult{{Team: "storage", Path: "1 V", Text: "x"}},
			want:    false,
		},
		{
			name: "floor check runs before dominance",
			teams: []core.TeamScore{
				{Team: "network", Confidence: 30},
				{Team: "storage", Confidence: 5},
			},
			results: networkResult,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideAutoAssign(tt.teams, tt.results))
		})
	}
}
