package graph

import "sort"

// GodModule flags a module depended upon by a disproportionate share of the
// codebase. InDegree counts distinct importing modules, never raw import
// statements, so one chatty caller cannot inflate the score.
type GodModule struct {
	Module    string
	InDegree  int
	Ratio     float64
	Threshold float64
	Severity  string
}

const SeverityWarning = "warning"

// DefaultGodModuleThreshold flags modules imported by more than 30% of all
// internal modules.
const DefaultGodModuleThreshold = 0.30

// DetectGodModules computes in-degree ratios over the whole graph and returns
// every module strictly above the threshold, sorted by descending ratio then
// ascending id. Graphs with at most one module can never flag anything.
func DetectGodModules(g *Graph, threshold float64) []GodModule {
	total := g.NodeCount()
	if total <= 1 {
		return nil
	}

	var flagged []GodModule
	for _, id := range g.Nodes() {
		inDegree := len(g.Predecessors(id))
		ratio := float64(inDegree) / float64(total)
		if ratio > threshold {
			flagged = append(flagged, GodModule{
				Module:    id,
				InDegree:  inDegree,
				Ratio:     ratio,
				Threshold: threshold,
				Severity:  SeverityWarning,
			})
		}
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].Ratio != flagged[j].Ratio {
			return flagged[i].Ratio > flagged[j].Ratio
		}
		return flagged[i].Module < flagged[j].Module
	})

	return flagged
}
