// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package routing

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/poiesic/ticketrouter/ai"
	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/index"
	"github.com/poiesic/ticketrouter/textproc"
)

const (
	// DefaultTopK is the result count when the caller does not specify one.
	DefaultTopK = 3

	// DefaultAlpha blends semantic against keyword score in the hybrid total.
	DefaultAlpha = 0.7

	// DefaultWindow is the sentence window radius for context expansion.
	DefaultWindow = 2

	// stage1Candidates is how many nearest chunks per team feed the
	// team-routing reranker.
	stage1Candidates = 5

	// maxRankedTeams is how many teams the routing stage reports.
	maxRankedTeams = 3

	// retrieveMultiplier and rerankMultiplier size the stage-2 candidate
	// funnels relative to top_k.
	retrieveMultiplier = 15
	rerankMultiplier   = 5

	// rerankBlend weighs the reranker score against the hybrid total in the
	// final score.
	rerankBlend = 0.7

	// minConfidence is the display floor for team confidence.
	minConfidence = 5.0
)

// Engine runs routed hybrid searches against an immutable index snapshot.
type Engine struct {
	snapshot  *index.Snapshot
	embedder  ai.Embedder
	reranker  ai.Reranker
	segmenter *textproc.Segmenter
	alpha     float64
	window    int
	monitor   RouteMonitor
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithAlpha sets the semantic/keyword blend factor.
// Default is DefaultAlpha.
func WithAlpha(alpha float64) EngineOption {
	return func(e *Engine) {
		e.alpha = alpha
	}
}

// WithWindow sets the context expansion window radius.
// Default is DefaultWindow.
func WithWindow(window int) EngineOption {
	return func(e *Engine) {
		if window >= 0 {
			e.window = window
		}
	}
}

// WithMonitor sets a monitor observing the routing stages.
// Default is a no-op monitor.
func WithMonitor(monitor RouteMonitor) EngineOption {
	return func(e *Engine) {
		if monitor != nil {
			e.monitor = monitor
		}
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a routing engine over a snapshot.
func NewEngine(snapshot *index.Snapshot, embedder ai.Embedder, reranker ai.Reranker, segmenter *textproc.Segmenter, opts ...EngineOption) (*Engine, error) {
	if snapshot == nil {
		return nil, ErrSnapshotRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if reranker == nil {
		return nil, ErrRerankerRequired
	}
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}

	e := &Engine{
		snapshot:  snapshot,
		embedder:  embedder,
		reranker:  reranker,
		segmenter: segmenter,
		alpha:     DefaultAlpha,
		window:    DefaultWindow,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Route answers a query: rank teams, search the winning team, expand the
// surviving chunks into passages and decide auto-assignment.
//
// An empty snapshot or a query matching no team yields an empty decision
// with auto_assign=false, never an error.
func (e *Engine) Route(ctx context.Context, query string, topK int) (*core.RoutingDecision, error) {
	if topK < 1 {
		topK = DefaultTopK
	}
	e.monitor.Start(query)

	queryVec, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	teams, err := e.routeTeams(ctx, query, queryVec)
	if err != nil {
		return nil, err
	}
	e.monitor.AfterTeamRouting(teams)
	if len(teams) == 0 {
		e.logger.Warn("no candidate teams for query", "query", query)
		decision := &core.RoutingDecision{
			AutoAssign: false,
			Teams:      []core.TeamScore{},
			Results:    []core.SearchResult{},
		}
		e.monitor.Finish(decision)
		return decision, nil
	}

	results, err := e.searchTeam(ctx, query, queryVec, teams[0].Team, topK)
	if err != nil {
		return nil, err
	}

	decision := &core.RoutingDecision{
		AutoAssign: DecideAutoAssign(teams, results),
		Teams:      teams,
		Results:    results,
	}
	e.monitor.Finish(decision)
	return decision, nil
}

type teamCandidate struct {
	team  string
	score float64
}

// routeTeams ranks teams by reranking each team's nearest chunks against
// the query. A team's score is the mean of its top two reranker scores.
func (e *Engine) routeTeams(ctx context.Context, query string, queryVec []float32) ([]core.TeamScore, error) {
	var candidates []teamCandidate

	for _, name := range e.snapshot.Teams() {
		team, _ := e.snapshot.Team(name)

		k := stage1Candidates
		if team.Len() < k {
			k = team.Len()
		}
		hits := team.Search(queryVec, k)
		if len(hits) == 0 {
			continue
		}

		texts := make([]string, len(hits))
		for i, hit := range hits {
			texts[i] = team.Chunk(hit.Position).Text
		}

		scores, err := e.reranker.Score(ctx, query, texts)
		if err != nil {
			return nil, err
		}

		slices.Sort(scores)
		slices.Reverse(scores)
		top := scores
		if len(top) > 2 {
			top = top[:2]
		}
		var sum float64
		for _, s := range top {
			sum += s
		}

		candidates = append(candidates, teamCandidate{team: name, score: sum / float64(len(top))})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(candidates, func(a, b teamCandidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	if len(candidates) > maxRankedTeams {
		candidates = candidates[:maxRankedTeams]
	}

	best := candidates[0].score
	teams := make([]core.TeamScore, 0, len(candidates))
	for _, c := range candidates {
		confidence := minConfidence
		if best > 0 {
			confidence = math.Round(c.score/best*100*100) / 100
			if confidence < minConfidence {
				confidence = minConfidence
			}
		}
		teams = append(teams, core.TeamScore{Team: c.team, Confidence: confidence})
	}
	return teams, nil
}

type scoredChunk struct {
	position int
	text     string
	total    float64
	boost    float64
	final    float64
}

// searchTeam runs hybrid scoring and reranker fusion inside one team, then
// expands the surviving chunks into sentence-window passages.
func (e *Engine) searchTeam(ctx context.Context, query string, queryVec []float32, teamName string, topK int) ([]core.SearchResult, error) {
	team, ok := e.snapshot.Team(teamName)
	if !ok {
		return []core.SearchResult{}, nil
	}

	hits := team.Search(queryVec, topK*retrieveMultiplier)
	if len(hits) == 0 {
		return []core.SearchResult{}, nil
	}
	positions := make([]int, len(hits))
	for i, hit := range hits {
		positions[i] = hit.Position
	}
	e.monitor.AfterRetrieval(teamName, positions)

	queryTokens := textproc.TokenSet(e.segmenter.ContentTokens(query))
	var queryWeightSum float64
	for token := range queryTokens {
		queryWeightSum += team.Weight(token)
	}
	boostDenominator := math.Max(queryWeightSum, 1.0)

	scored := make([]scoredChunk, 0, len(hits))
	for _, hit := range hits {
		chunk := team.Chunk(hit.Position)
		chunkTokens := textproc.TokenSet(textproc.ExactMatchTokens(chunk.Text))

		var boostSum float64
		overlap := 0
		for token := range queryTokens {
			if _, ok := chunkTokens[token]; ok {
				boostSum += team.Weight(token)
				overlap++
			}
		}
		boost := boostSum / boostDenominator

		semantic := 1 / (1 + hit.Distance)
		keyword := float64(overlap) / math.Max(1, float64(len(queryTokens)))
		total := e.alpha*semantic + (1-e.alpha)*keyword + boost

		scored = append(scored, scoredChunk{
			position: hit.Position,
			text:     chunk.Text,
			total:    total,
			boost:    boost,
		})
	}

	sortScored(scored, func(c scoredChunk) float64 { return c.total })
	if len(scored) > topK*rerankMultiplier {
		scored = scored[:topK*rerankMultiplier]
	}
	e.monitor.AfterHybridFilter(teamName, scoredPositions(scored))

	texts := make([]string, len(scored))
	for i, c := range scored {
		texts[i] = c.text
	}
	rerankScores, err := e.reranker.Score(ctx, query, texts)
	if err != nil {
		return nil, err
	}
	for i := range scored {
		scored[i].final = rerankBlend*rerankScores[i] + (1-rerankBlend)*scored[i].total
	}

	sortScored(scored, func(c scoredChunk) float64 { return c.final })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	e.monitor.AfterRerank(teamName, scoredPositions(scored))

	flat := flattenSentences(e.segmenter, team.Chunks())

	results := make([]core.SearchResult, 0, len(scored))
	for _, c := range scored {
		text := expandWindow(flat, c.position, e.window)
		if text == "" {
			continue
		}
		results = append(results, core.SearchResult{
			Path:              team.Chunk(c.position).Path,
			Team:              teamName,
			Text:              text,
			Score:             c.final,
			BoostContribution: c.boost,
		})
	}
	return results, nil
}

func scoredPositions(scored []scoredChunk) []int {
	positions := make([]int, len(scored))
	for i, c := range scored {
		positions[i] = c.position
	}
	return positions
}

func sortScored(scored []scoredChunk, key func(scoredChunk) float64) {
	slices.SortStableFunc(scored, func(a, b scoredChunk) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		default:
			return a.position - b.position
		}
	})
}
