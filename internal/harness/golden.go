package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bistro/internal/record"
)

// goldenDir is where golden trace files live, relative to the test package.
const goldenDir = "testdata/golden"

// RunWithGolden executes a scenario and compares its trace against a golden
// file named after the scenario.
//
// Run with -update to regenerate golden files:
//
//	go test ./internal/harness/... -update
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s failed to execute: %v", scenario.Name, err)
	}

	AssertGolden(t, scenario.Name, result)
	return result
}

// AssertGolden compares result's trace in canonical JSON against the golden
// file for name.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := TraceJSON(result)
	if err != nil {
		t.Fatalf("failed to encode trace: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(goldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// TraceJSON renders a result's trace as canonical JSON, one event per line.
func TraceJSON(result *Result) ([]byte, error) {
	var out []byte
	for _, ev := range result.Trace {
		line, err := record.Marshal(traceMap(ev))
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}

func traceMap(ev TraceEvent) map[string]any {
	m := map[string]any{
		"seq":    ev.Seq,
		"op":     ev.Op,
		"table":  ev.Table,
		"status": ev.Status,
		"data":   ev.Data,
	}
	if ev.Query != "" {
		m["query"] = ev.Query
	}
	if ev.Error != "" {
		m["error"] = ev.Error
	}
	return m
}
