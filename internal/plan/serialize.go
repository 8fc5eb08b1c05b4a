package plan

import (
	"encoding/json"
	"fmt"
	"io"
)

// Serialization only changes representation, never semantics: element order
// is preserved and empty lists are emitted as empty arrays, not null, since
// the downstream job matrix parses every field unconditionally.

type jsonPlan struct {
	PhaseOne          []string `json:"phase_one"`
	RebuildPhaseOne   []string `json:"rebuild_phase_one"`
	PhaseTwo          []string `json:"phase_two"`
	RebuildPhaseTwo   []string `json:"rebuild_phase_two"`
	PhaseThree        []string `json:"phase_three"`
	RebuildPhaseThree []string `json:"rebuild_phase_three"`
}

func (p *RebuildPlan) toJSONPlan() jsonPlan {
	return jsonPlan{
		PhaseOne:          emptyIfNil(p.PhaseOne),
		RebuildPhaseOne:   emptyIfNil(p.RebuildPhaseOne),
		PhaseTwo:          emptyIfNil(p.PhaseTwo),
		RebuildPhaseTwo:   emptyIfNil(p.RebuildPhaseTwo),
		PhaseThree:        emptyIfNil(p.PhaseThree),
		RebuildPhaseThree: emptyIfNil(p.RebuildPhaseThree),
	}
}

// WriteJSON writes the plan as a single JSON object.
func (p *RebuildPlan) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(p.toJSONPlan()); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}

// WriteOutputs writes the plan in the key=<json array> form consumed as
// named step outputs by the downstream job-matrix definition, one field per
// line, in a fixed field order.
func (p *RebuildPlan) WriteOutputs(w io.Writer) error {
	jp := p.toJSONPlan()

	fields := []struct {
		key    string
		stages []string
	}{
		{"phase_one", jp.PhaseOne},
		{"rebuild_phase_one", jp.RebuildPhaseOne},
		{"phase_two", jp.PhaseTwo},
		{"rebuild_phase_two", jp.RebuildPhaseTwo},
		{"phase_three", jp.PhaseThree},
		{"rebuild_phase_three", jp.RebuildPhaseThree},
	}

	for _, f := range fields {
		value, err := json.Marshal(f.stages)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.key, err)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", f.key, value); err != nil {
			return fmt.Errorf("write %s: %w", f.key, err)
		}
	}
	return nil
}

// Inputs returns the six fields as JSON-array strings keyed by field name,
// the shape the downstream workflow-dispatch API expects.
func (p *RebuildPlan) Inputs() (map[string]string, error) {
	jp := p.toJSONPlan()

	inputs := make(map[string]string, 6)
	for key, stages := range map[string][]string{
		"phase_one":           jp.PhaseOne,
		"rebuild_phase_one":   jp.RebuildPhaseOne,
		"phase_two":           jp.PhaseTwo,
		"rebuild_phase_two":   jp.RebuildPhaseTwo,
		"phase_three":         jp.PhaseThree,
		"rebuild_phase_three": jp.RebuildPhaseThree,
	} {
		value, err := json.Marshal(stages)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		inputs[key] = string(value)
	}
	return inputs, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
