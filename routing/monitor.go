package routing

import "github.com/poiesic/ticketrouter/core"

// RouteMonitor provides hooks to observe the routing process.
// Implement this interface to track intermediate steps and results during a
// routed search.
type RouteMonitor interface {
	Start(query string)
	AfterTeamRouting(teams []core.TeamScore)
	AfterRetrieval(team string, positions []int)
	AfterHybridFilter(team string, positions []int)
	AfterRerank(team string, positions []int)
	Finish(decision *core.RoutingDecision)
}

// noopMonitor is a no-op implementation of RouteMonitor
type noopMonitor struct{}

var _ RouteMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterTeamRouting(_ []core.TeamScore)  {}
func (n *noopMonitor) AfterRetrieval(_ string, _ []int)     {}
func (n *noopMonitor) AfterHybridFilter(_ string, _ []int)  {}
func (n *noopMonitor) AfterRerank(_ string, _ []int)        {}
func (n *noopMonitor) Finish(_ *core.RoutingDecision)       {}
