package match

import (
	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
)

var (
	withoutScope  = Filters{Text: true, Params: true}
	withoutParams = Filters{Text: true, Scope: true}
)

// Resolution is the outcome of Resolve. Match is a success only when exactly
// one candidate survived and Reason is binding.None; otherwise Candidates
// holds what was found for diagnostics.
type Resolution struct {
	Match      binding.Match
	Reason     binding.AmbiguityReason
	Candidates []binding.Match
}

// Unique reports whether the step resolved to exactly one binding.
func (r Resolution) Unique() bool {
	return r.Match.Success()
}

// Undefined reports whether no binding matched the step text at all.
func (r Resolution) Undefined() bool {
	return r.Reason == binding.None && len(r.Candidates) == 0
}

// Resolve finds the binding that should execute step.
//
// All filters are applied first. Matches are deduplicated per handler and
// only those with the highest scope match count are kept. When nothing
// matches, the step is matched again without the scope filter and then
// without the parameter filter to tell scope exclusion, parameter mismatch
// and undefined steps apart.
func (s *Service) Resolve(step binding.StepInstance, locale language.Tag) (Resolution, error) {
	if !s.registry.Ready() {
		return Resolution{Match: binding.NonMatching}, ErrNotReady
	}

	candidates, err := s.candidates(step, locale, All)
	if err != nil {
		return Resolution{Match: binding.NonMatching}, err
	}
	candidates = keepMaxScopeMatches(candidates)

	reason := binding.None
	switch {
	case len(candidates) > 1:
		reason = binding.AmbiguousSteps
	case len(candidates) == 0:
		reason, candidates, err = s.onNoMatch(step, locale)
		if err != nil {
			return Resolution{Match: binding.NonMatching}, err
		}
	}

	res := Resolution{Match: binding.NonMatching, Reason: reason, Candidates: candidates}
	if len(candidates) == 1 && reason == binding.None {
		res.Match = candidates[0]
	}

	s.logger.Debug("step resolved",
		"kind", step.Kind,
		"text", step.Text,
		"reason", reason,
		"candidates", len(candidates),
		"unique", res.Unique())
	return res, nil
}

// onNoMatch runs the relaxed passes. Their results are reported as found;
// the scope tie-break is not applied to them.
func (s *Service) onNoMatch(step binding.StepInstance, locale language.Tag) (binding.AmbiguityReason, []binding.Match, error) {
	matches, err := s.candidates(step, locale, withoutScope)
	if err != nil {
		return binding.None, nil, err
	}
	if len(matches) > 0 {
		s.logger.Debug("step excluded by scope", "text", step.Text, "candidates", len(matches))
		return binding.AmbiguousScopes, matches, nil
	}

	matches, err = s.candidates(step, locale, withoutParams)
	if err != nil {
		return binding.None, nil, err
	}
	switch {
	case len(matches) == 1:
		// A single text match with bad parameters is still the binding to
		// run; the conversion fails when it executes.
		return binding.None, matches, nil
	case len(matches) > 1:
		return binding.ParameterErrors, matches, nil
	default:
		return binding.None, nil, nil
	}
}

// candidates matches every considered binding under f and keeps the best
// match per handler.
func (s *Service) candidates(step binding.StepInstance, locale language.Tag, f Filters) ([]binding.Match, error) {
	var matches []binding.Match
	for _, b := range s.registry.ConsideredBindings(step.Kind, step.Text) {
		m, err := s.Match(b, step, locale, f)
		if err != nil {
			return nil, err
		}
		if m.Success() {
			matches = append(matches, m)
		}
	}
	return dedupeByHandler(matches), nil
}

// dedupeByHandler keeps, per handler ID, the match with the most scope
// matches. Handlers keep the order in which they were first seen; the first
// match wins a tie.
func dedupeByHandler(matches []binding.Match) []binding.Match {
	if len(matches) < 2 {
		return matches
	}
	index := make(map[string]int, len(matches))
	out := make([]binding.Match, 0, len(matches))
	for _, m := range matches {
		id := m.Binding().Handler().ID
		i, seen := index[id]
		if !seen {
			index[id] = len(out)
			out = append(out, m)
			continue
		}
		if m.ScopeMatches() > out[i].ScopeMatches() {
			out[i] = m
		}
	}
	return out
}

// keepMaxScopeMatches drops every match less specific than the most
// specific one.
func keepMaxScopeMatches(matches []binding.Match) []binding.Match {
	if len(matches) < 2 {
		return matches
	}
	best := 0
	for _, m := range matches {
		best = max(best, m.ScopeMatches())
	}
	out := make([]binding.Match, 0, len(matches))
	for _, m := range matches {
		if m.ScopeMatches() == best {
			out = append(out, m)
		}
	}
	return out
}
