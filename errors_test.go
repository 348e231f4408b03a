package relmodel_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relmodel"
)

func TestDuplicateRegistrationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := relmodel.NewDuplicateRegistrationError("sequence", "order_seq")
		assert.Equal(t, "relmodel: sequence was already registered with that name [order_seq]", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := relmodel.NewDuplicateRegistrationError("auxiliary object", "v1")
		assert.True(t, errors.Is(err, relmodel.ErrDuplicateRegistration))
		assert.False(t, errors.Is(err, relmodel.ErrUnknownTable))
	})

	t.Run("IsDuplicateRegistration", func(t *testing.T) {
		err := relmodel.NewDuplicateRegistrationError("sequence", "s")
		assert.True(t, relmodel.IsDuplicateRegistration(err))
		assert.True(t, relmodel.IsDuplicateRegistration(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, relmodel.IsDuplicateRegistration(relmodel.ErrDuplicateRegistration))
		assert.False(t, relmodel.IsDuplicateRegistration(nil))
		assert.False(t, relmodel.IsDuplicateRegistration(errors.New("other")))
	})
}

func TestConflictingSequenceError(t *testing.T) {
	err := relmodel.NewConflictingSequenceError("order_seq", "increment size", 50, 1)
	assert.Equal(t,
		"relmodel: multiple references to database sequence [order_seq] were encountered attempting to set conflicting values for 'increment size'. Found [50] and [1]",
		err.Error(),
	)
	assert.True(t, errors.Is(err, relmodel.ErrConflictingSequence))
	assert.True(t, relmodel.IsConflictingSequence(fmt.Errorf("register: %w", err)))
	assert.False(t, relmodel.IsConflictingSequence(nil))
	assert.False(t, relmodel.IsConflictingSequence(relmodel.ErrFinalized))
}

func TestUnresolvableNameError(t *testing.T) {
	err := relmodel.NewUnresolvableNameError("a.b.c.d", "too many parts")
	assert.Equal(t, `relmodel: unable to parse object name "a.b.c.d": too many parts`, err.Error())
	assert.True(t, errors.Is(err, relmodel.ErrUnresolvableName))
	assert.True(t, relmodel.IsUnresolvableName(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, relmodel.IsUnresolvableName(nil))
}

func TestUnknownTableError(t *testing.T) {
	tests := []struct {
		name     string
		err      *relmodel.UnknownTableError
		message  string
		derived  bool
		physical bool
	}{
		{
			name:    "SurrogateID",
			err:     relmodel.NewUnknownTableError(7),
			message: "relmodel: unable to find table with surrogate id 7",
		},
		{
			name:    "Derived",
			err:     relmodel.NewUnknownDerivedTableError("select 1"),
			message: "relmodel: unable to find derived table select 1",
			derived: true,
		},
		{
			name:     "Physical",
			err:      relmodel.NewUnknownPhysicalTableError("t_user"),
			message:  "relmodel: unable to find logical table name for physical table t_user",
			physical: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			wrapped := fmt.Errorf("lookup: %w", tt.err)
			assert.True(t, errors.Is(wrapped, relmodel.ErrUnknownTable))
			assert.True(t, relmodel.IsUnknownTable(wrapped))
			assert.Equal(t, tt.derived, relmodel.IsUnknownDerivedTable(wrapped))
			assert.Equal(t, tt.physical, relmodel.IsUnknownPhysicalTable(wrapped))
		})
	}
	assert.False(t, relmodel.IsUnknownTable(nil))
	assert.False(t, relmodel.IsUnknownDerivedTable(relmodel.ErrUnknownTable))
}

func TestCyclicDependencyError(t *testing.T) {
	err := relmodel.NewCyclicDependencyError("public", []string{"a", "b"})
	assert.Equal(t, "relmodel: cyclic dependency between user-defined types in namespace public: a, b", err.Error())
	assert.True(t, errors.Is(err, relmodel.ErrCyclicDependency))
	assert.True(t, relmodel.IsCyclicDependency(fmt.Errorf("finalize: %w", err)))
	assert.False(t, relmodel.IsCyclicDependency(nil))

	err = relmodel.NewCyclicDependencyError("", []string{"x"})
	assert.Equal(t, "relmodel: cyclic dependency between user-defined types: x", err.Error())
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		relmodel.ErrDuplicateRegistration,
		relmodel.ErrConflictingSequence,
		relmodel.ErrUnresolvableName,
		relmodel.ErrUnknownTable,
		relmodel.ErrCyclicDependency,
		relmodel.ErrUDTKindMismatch,
		relmodel.ErrFinalized,
		relmodel.ErrNotFinalized,
		relmodel.ErrUnsupportedDialect,
	}
	for i, a := range sentinels {
		assert.Contains(t, a.Error(), "relmodel: ")
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
