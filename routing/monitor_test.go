package routing

import (
	"context"
	"testing"

	"github.com/poiesic/ticketrouter/ai/mock"
	"github.com/poiesic/ticketrouter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMonitor captures every hook invocation in order.
type recordingMonitor struct {
	calls     []string
	teams     []core.TeamScore
	retrieved []int
	filtered  []int
	reranked  []int
	decision  *core.RoutingDecision
}

var _ RouteMonitor = (*recordingMonitor)(nil)

func (r *recordingMonitor) Start(_ string) {
	r.calls = append(r.calls, "start")
}

func (r *recordingMonitor) AfterTeamRouting(teams []core.TeamScore) {
	r.calls = append(r.calls, "teams")
	r.teams = teams
}

func (r *recordingMonitor) AfterRetrieval(_ string, positions []int) {
	r.calls = append(r.calls, "retrieval")
	r.retrieved = positions
}

func (r *recordingMonitor) AfterHybridFilter(_ string, positions []int) {
	r.calls = append(r.calls, "hybrid")
	r.filtered = positions
}

func (r *recordingMonitor) AfterRerank(_ string, positions []int) {
	r.calls = append(r.calls, "rerank")
	r.reranked = positions
}

func (r *recordingMonitor) Finish(decision *core.RoutingDecision) {
	r.calls = append(r.calls, "finish")
	r.decision = decision
}

func TestEngine_MonitorObservesStages(t *testing.T) {
	monitor := &recordingMonitor{}
	engine := newTestEngine(t, scenarioCorpus(), mock.NewMockReranker(), WithMonitor(monitor))

	decision, err := engine.Route(context.Background(), "CNI plugin networking", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "teams", "retrieval", "hybrid", "rerank", "finish"}, monitor.calls)
	assert.Equal(t, decision, monitor.decision)
	assert.NotEmpty(t, monitor.teams)
	assert.NotEmpty(t, monitor.retrieved)

	// Each stage narrows or keeps the candidate set.
	assert.LessOrEqual(t, len(monitor.filtered), len(monitor.retrieved))
	assert.LessOrEqual(t, len(monitor.reranked), len(monitor.filtered))
	assert.Len(t, monitor.reranked, len(decision.Results))
}

func TestEngine_MonitorEmptySnapshot(t *testing.T) {
	monitor := &recordingMonitor{}
	engine := newTestEngine(t, map[string][]core.Chunk{}, mock.NewMockReranker(), WithMonitor(monitor))

	decision, err := engine.Route(context.Background(), "anything", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "teams", "finish"}, monitor.calls)
	assert.Equal(t, decision, monitor.decision)
	assert.Empty(t, monitor.teams)
}
