// SPDX-License-Identifier: MPL-2.0

package datasource

import (
	"log/slog"
	"slices"
)

type (
	// Engine filters candidate lists through the datasource checks.
	Engine struct {
		env *Environment
	}

	// Verdict records how one candidate was decided.
	Verdict struct {
		Name Name
		// Known is false for names outside the supported set.
		Known bool
		// Matched reports whether the candidate was retained.
		Matched bool
		// Assumed is set when the candidate was accepted without a check
		// because it was the only one listed.
		Assumed bool
	}

	// Report is the outcome of Detect.
	Report struct {
		// Datasources is the final list, always ending in None.
		Datasources []Name
		// Verdicts has one entry per input candidate, in input order.
		Verdicts []Verdict
	}
)

// NewEngine creates an Engine reading signals from env.
func NewEngine(env *Environment) *Engine {
	return &Engine{env: env}
}

// Check evaluates the check for a single name. Unknown names are false.
func (e *Engine) Check(name Name) bool {
	return checks[name.kind()](e.env)
}

// Detect returns the candidates whose checks pass, in their original order,
// followed by None. A single candidate is accepted as is.
func (e *Engine) Detect(candidates []Name) Report {
	report := Report{
		Datasources: make([]Name, 0, len(candidates)+1),
		Verdicts:    make([]Verdict, 0, len(candidates)),
	}

	if len(candidates) == 1 {
		name := candidates[0]
		slog.Debug("single datasource configured, skipping checks", "datasource", name.String())
		report.Datasources = append(report.Datasources, name)
		report.Verdicts = append(report.Verdicts, Verdict{Name: name, Known: name.IsKnown(), Matched: true, Assumed: true})
	} else {
		for _, name := range candidates {
			matched := e.Check(name)
			slog.Debug("checked datasource", "datasource", name.String(), "known", name.IsKnown(), "matched", matched)
			if matched {
				report.Datasources = append(report.Datasources, name)
			}
			report.Verdicts = append(report.Verdicts, Verdict{Name: name, Known: name.IsKnown(), Matched: matched})
		}
	}

	if !slices.Contains(report.Datasources, None) {
		report.Datasources = append(report.Datasources, None)
	}
	return report
}
