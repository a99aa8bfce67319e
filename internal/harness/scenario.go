package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bistro/internal/query"
)

// Scenario is one replayable sequence of store operations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// IDPrefix prefixes generated ids. Empty means numeric ids 1, 2, ...
	IDPrefix string `yaml:"id_prefix,omitempty"`

	// Setup inserts rows before the flow. Setup inserts must succeed and are
	// not traced.
	Setup []SetupStep `yaml:"setup,omitempty"`

	// Flow is the traced sequence of operations.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final store contents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SetupStep inserts rows into one table.
type SetupStep struct {
	Table string           `yaml:"table"`
	Rows  []map[string]any `yaml:"rows"`
}

// Step is one store operation.
type Step struct {
	// Op is insert, select, update or delete.
	Op string `yaml:"op"`

	// Table is the table key.
	Table string `yaml:"table"`

	// Rows are the records to insert (insert).
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Where lists predicates (select).
	Where []Predicate `yaml:"where,omitempty"`

	// Order sorts the result (select).
	Order *OrderClause `yaml:"order,omitempty"`

	// Limit keeps the first n rows (select).
	Limit *int `yaml:"limit,omitempty"`

	// Range keeps rows [from, to] inclusive (select).
	Range []int `yaml:"range,omitempty"`

	// Single projects to the first row (select).
	Single bool `yaml:"single,omitempty"`

	// Patch is merged into matched rows (update).
	Patch map[string]any `yaml:"patch,omitempty"`

	// Eq selects rows by one field (update, delete).
	Eq *EqClause `yaml:"eq,omitempty"`

	// Match selects rows by several fields (update, delete).
	Match map[string]any `yaml:"match,omitempty"`

	// Expect validates the step's Envelope. If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Predicate is one select filter.
type Predicate struct {
	Field string `yaml:"field"`
	Op    string `yaml:"op"`
	Value any    `yaml:"value"`
}

// OrderClause is a single-key sort.
type OrderClause struct {
	Field     string `yaml:"field"`
	Ascending bool   `yaml:"ascending"`
}

// EqClause selects rows whose Field equals Value.
type EqClause struct {
	Field string `yaml:"field"`
	Value any    `yaml:"value"`
}

// Expect describes the expected Envelope.
type Expect struct {
	// Error is the expected error kind (e.g. INVALID_QUERY). Empty expects
	// success.
	Error string `yaml:"error,omitempty"`

	// Count is the expected number of returned rows.
	Count *int `yaml:"count,omitempty"`

	// Rows are subset-matched against the returned rows, in order.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Null expects a single select to return no row.
	Null bool `yaml:"null,omitempty"`
}

// Assertion validates final store contents.
type Assertion struct {
	// Type is final_state or table_count.
	Type string `yaml:"type"`

	// Table is the table key.
	Table string `yaml:"table"`

	// Where selects the rows to check (final_state). All fields must match.
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected field values (final_state). Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected row count (table_count).
	Count int `yaml:"count,omitempty"`
}

// Step op constants.
const (
	OpInsert = "insert"
	OpSelect = "select"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Assertion type constants.
const (
	AssertFinalState = "final_state"
	AssertTableCount = "table_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Predicate operators are not checked: unknown ones are how scenarios
// exercise query validation.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if step.Table == "" {
			return fmt.Errorf("setup[%d]: table is required", i)
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step *Step) error {
	if step.Table == "" {
		return fmt.Errorf("flow[%d]: table is required", i)
	}

	switch step.Op {
	case OpInsert:
		if len(step.Rows) == 0 {
			return fmt.Errorf("flow[%d]: rows are required for insert", i)
		}
	case OpSelect:
		if step.Range != nil && len(step.Range) != 2 {
			return fmt.Errorf("flow[%d]: range must be [from, to]", i)
		}
		if step.Order != nil && step.Order.Field == "" {
			return fmt.Errorf("flow[%d]: order.field is required", i)
		}
	case OpUpdate:
		if step.Patch == nil {
			return fmt.Errorf("flow[%d]: patch is required for update", i)
		}
		if err := validateSelector(i, step); err != nil {
			return err
		}
	case OpDelete:
		if err := validateSelector(i, step); err != nil {
			return err
		}
	case "":
		return fmt.Errorf("flow[%d]: op is required", i)
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
	}

	if step.Op != OpSelect && (len(step.Where) > 0 || step.Order != nil || step.Limit != nil || step.Range != nil || step.Single) {
		return fmt.Errorf("flow[%d]: query clauses are only valid for select", i)
	}
	return nil
}

func validateSelector(i int, step *Step) error {
	switch {
	case step.Eq != nil && step.Match != nil:
		return fmt.Errorf("flow[%d]: use either eq or match, not both", i)
	case step.Eq == nil && step.Match == nil:
		return fmt.Errorf("flow[%d]: %s needs eq or match", i, step.Op)
	case step.Eq != nil && step.Eq.Field == "":
		return fmt.Errorf("flow[%d]: eq.field is required", i)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Table == "" {
		return fmt.Errorf("assertions[%d]: table is required", index)
	}

	switch a.Type {
	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertTableCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for table_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// Spec builds the query for a select step.
func (s *Step) Spec() query.Spec {
	spec := query.New()
	for _, p := range s.Where {
		spec = spec.Where(query.Predicate{Field: p.Field, Op: query.Op(p.Op), Operand: p.Value})
	}
	if s.Order != nil {
		spec = spec.Order(s.Order.Field, s.Order.Ascending)
	}
	if s.Limit != nil {
		spec = spec.Limit(*s.Limit)
	}
	if len(s.Range) == 2 {
		spec = spec.Range(s.Range[0], s.Range[1])
	}
	if s.Single {
		spec = spec.Single()
	}
	return spec
}
