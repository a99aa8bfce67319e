package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	s := New().
		Eq("table_id", 1).
		Gte("total", 10.5).
		Lte("created_at", "2024-06-01T00:00:00.000Z").
		In("status", []string{"open", "paid"}).
		Order("created_at", false).
		Limit(0).
		Range(0, 0).
		Single()

	assert.NoError(t, Validate(s))
	assert.NoError(t, Validate(New()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		spec   Spec
		field  string
		reason string
	}{
		{
			name:   "empty field",
			spec:   New().Eq("", 1),
			reason: "empty field name",
		},
		{
			name:   "unknown operator",
			spec:   New().Where(Predicate{Field: "name", Op: "like", Operand: "%soup%"}),
			field:  "name",
			reason: `unknown operator "like"`,
		},
		{
			name:   "in needs a list",
			spec:   New().In("status", "open"),
			field:  "status",
			reason: "must be a list",
		},
		{
			name:   "unstorable operand",
			spec:   New().Eq("cb", func() {}),
			field:  "cb",
			reason: "unsupported value type",
		},
		{
			name:   "order without field",
			spec:   New().Order("", true),
			reason: "order has an empty field name",
		},
		{
			name:   "negative limit",
			spec:   New().Limit(-1),
			reason: "limit must be non-negative",
		},
		{
			name:   "negative range",
			spec:   New().Range(-1, 2),
			reason: "range bounds must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var qe *Error
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, tt.field, qe.Field)
			assert.Contains(t, qe.Reason, tt.reason)
		})
	}
}

func TestValidate_FirstProblemWins(t *testing.T) {
	err := Validate(New().Eq("", 1).Limit(-5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty field name")
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, `invalid query: field "x": bad`, (&Error{Field: "x", Reason: "bad"}).Error())
	assert.Equal(t, "invalid query: bad", (&Error{Reason: "bad"}).Error())
}
