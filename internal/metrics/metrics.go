// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint of
// the API server.
package metrics

import "expvar"

// Operation counters.
var (
	EntitiesAdded    = expvar.NewInt("chronos_entities_added_total")
	Transitions      = expvar.NewInt("chronos_transitions_total")
	LinksCreated     = expvar.NewInt("chronos_links_created_total")
	ShellScans       = expvar.NewInt("chronos_shell_scans_total")
	GraphExports     = expvar.NewInt("chronos_graph_exports_total")
	GraphClears      = expvar.NewInt("chronos_graph_clears_total")
	SourceSearches   = expvar.NewInt("chronos_source_searches_total")
	SourceSearchErrs = expvar.NewInt("chronos_source_search_errors_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
