package enforce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catch(fn func()) (recovered interface{}) {
	defer func() { recovered = recover() }()
	fn()
	return nil
}

func TestFault(t *testing.T) {
	r := catch(func() { FAULT(ProtocolViolationFault, "segment queried before solve, node ", 3) })
	f, ok := r.(Fault)
	require.True(t, ok, "expected a Fault, got %T", r)
	assert.Equal(t, ProtocolViolationFault, f.Kind)
	assert.Equal(t, "segment queried before solve, node 3", f.Msg)
	assert.Equal(t, "ProtocolViolationFault: segment queried before solve, node 3", f.Error())

	var err error = f
	var target Fault
	assert.True(t, errors.As(err, &target))
}

func TestEnforce(t *testing.T) {
	tests := []struct {
		name   string
		query  interface{}
		panics bool
	}{
		{"true", true, false},
		{"false", false, true},
		{"nil", nil, false},
		{"nil error", error(nil), false},
		{"error", errors.New("boom"), true},
		{"string", "always", true},
		{"bad type", 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.panics {
				assert.Panics(t, func() { ENFORCE(tt.query, "context") })
			} else {
				assert.NotPanics(t, func() { ENFORCE(tt.query, "context") })
			}
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ConfigurationFault", ConfigurationFault.String())
	assert.Equal(t, "AllocationFailure", AllocationFailure.String())
	assert.Equal(t, "InvariantViolation", InvariantViolation.String())
	assert.Equal(t, "Fault(9)", FaultKind(9).String())
}

func TestTry(t *testing.T) {
	assert.NoError(t, Try(func() {}))

	err := Try(func() { FAULT(AllocationFailure, "too big") })
	var f Fault
	require.ErrorAs(t, err, &f)
	assert.Equal(t, AllocationFailure, f.Kind)

	assert.Panics(t, func() { _ = Try(func() { panic("not a fault") }) })
}
