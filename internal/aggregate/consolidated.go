// Package aggregate builds consolidated roll-ups across the fixed unit
// rosters for administrative viewers.
package aggregate

import (
	"math"

	"golang.org/x/sync/errgroup"

	"pireport/internal/policy"
	"pireport/internal/resolve"
)

// resolveParallelism bounds how many member units are resolved at once.
const resolveParallelism = 4

// Engine computes consolidated cross-unit views. Consolidated cells are
// read-only and numeric: no attachments, no per-cell edit capability.
type Engine struct {
	resolver *resolve.Resolver
}

// New creates an aggregation engine over the resolver.
func New(resolver *resolve.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Consolidated resolves the cross-unit view for one year. The template
// structure (order, titles, rows) is resolved for the viewing admin unit;
// every cell is then replaced by the roster combination: summed for normal
// templates, rounded-average for percentage-class ones. Hidden sets never
// apply here: hiding a template for a unit must not remove its contribution.
func (e *Engine) Consolidated(year string, viewer policy.Unit, scope policy.DashboardScope) []resolve.ResolvedTemplate {
	templates := e.resolver.Templates(year, viewer, resolve.ModeAggregation)
	members := policy.RosterUnits(scope)
	if len(members) == 0 {
		return templates
	}

	// Per-member value matrices, computed in parallel. Each slot is
	// written by exactly one goroutine.
	matrices := make([][][12]int, len(members))
	var g errgroup.Group
	g.SetLimit(resolveParallelism)
	for i, member := range members {
		g.Go(func() error {
			matrices[i] = e.memberMatrix(year, member, templates)
			return nil
		})
	}
	_ = g.Wait() // member resolution never errors

	e.combine(templates, matrices, len(members))
	return templates
}

// memberMatrix computes one unit's cell values aligned to the viewer's
// template structure. This goes through the per-unit accomplishment lookup
// only, bypassing label and file resolution.
func (e *Engine) memberMatrix(year string, member policy.Unit, templates []resolve.ResolvedTemplate) [][12]int {
	matrix := make([][12]int, 0, len(templates))
	for _, tpl := range templates {
		for _, activity := range tpl.Activities {
			var row [12]int
			for month := 0; month < 12; month++ {
				row[month] = e.resolver.Accomplishment(year, member, tpl.ID, activity.ID, month)
			}
			matrix = append(matrix, row)
		}
	}
	return matrix
}

func (e *Engine) combine(templates []resolve.ResolvedTemplate, matrices [][][12]int, memberCount int) {
	rowIndex := 0
	for t := range templates {
		tpl := &templates[t]
		for a := range tpl.Activities {
			activity := &tpl.Activities[a]
			for month := 0; month < 12; month++ {
				sum := 0
				for _, matrix := range matrices {
					sum += matrix[rowIndex][month]
				}
				if tpl.Percentage {
					activity.Values[month] = int(math.Round(float64(sum) / float64(memberCount)))
				} else {
					activity.Values[month] = sum
				}
				activity.Files[month] = nil
			}
			rowIndex++
		}
		tpl.RecomputeTotals()
	}
}
