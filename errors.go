package relmodel

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for schema model construction.
var (
	// ErrDuplicateRegistration is returned when a create-once object is registered twice.
	ErrDuplicateRegistration = errors.New("relmodel: duplicate registration")

	// ErrConflictingSequence is returned when two references to one sequence disagree.
	ErrConflictingSequence = errors.New("relmodel: conflicting sequence definition")

	// ErrUnresolvableName is returned when a name cannot be turned into an identifier.
	ErrUnresolvableName = errors.New("relmodel: unresolvable name")

	// ErrUnknownTable is returned when a table lookup has no matching registration.
	ErrUnknownTable = errors.New("relmodel: unknown table")

	// ErrCyclicDependency is returned when user-defined types depend on each other.
	ErrCyclicDependency = errors.New("relmodel: cyclic type dependency")

	// ErrUDTKindMismatch is returned when an existing user-defined type is
	// requested as the other kind (object vs array).
	ErrUDTKindMismatch = errors.New("relmodel: user-defined type kind mismatch")

	// ErrFinalized is returned by mutators once the model was finalized.
	ErrFinalized = errors.New("relmodel: schema model is finalized and read-only")

	// ErrNotFinalized is returned when DDL is requested from a model that
	// was not finalized yet.
	ErrNotFinalized = errors.New("relmodel: schema model is not finalized")

	// ErrUnsupportedDialect is returned when no DDL planner exists for a dialect.
	ErrUnsupportedDialect = errors.New("relmodel: unsupported dialect")
)

// DuplicateRegistrationError reports a second registration of a create-once object.
type DuplicateRegistrationError struct {
	Kind string // "sequence", "auxiliary object", ...
	Name string
}

// Error returns the error string.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("relmodel: %s was already registered with that name [%s]", e.Kind, e.Name)
}

// Is reports whether the target error matches ErrDuplicateRegistration.
func (e *DuplicateRegistrationError) Is(err error) bool {
	return err == ErrDuplicateRegistration
}

// NewDuplicateRegistrationError returns a new DuplicateRegistrationError.
func NewDuplicateRegistrationError(kind, name string) *DuplicateRegistrationError {
	return &DuplicateRegistrationError{Kind: kind, Name: name}
}

// IsDuplicateRegistration returns true if the error is a DuplicateRegistrationError.
func IsDuplicateRegistration(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateRegistrationError
	return errors.As(err, &e) || errors.Is(err, ErrDuplicateRegistration)
}

// ConflictingSequenceError reports conflicting values for one sequence.
type ConflictingSequenceError struct {
	Sequence string
	Property string // "initial value" or "increment size"
	Existing int
	Found    int
}

// Error returns the error string.
func (e *ConflictingSequenceError) Error() string {
	return fmt.Sprintf(
		"relmodel: multiple references to database sequence [%s] were encountered attempting to set conflicting values for '%s'. Found [%d] and [%d]",
		e.Sequence, e.Property, e.Existing, e.Found,
	)
}

// Is reports whether the target error matches ErrConflictingSequence.
func (e *ConflictingSequenceError) Is(err error) bool {
	return err == ErrConflictingSequence
}

// NewConflictingSequenceError returns a new ConflictingSequenceError.
func NewConflictingSequenceError(sequence, property string, existing, found int) *ConflictingSequenceError {
	return &ConflictingSequenceError{Sequence: sequence, Property: property, Existing: existing, Found: found}
}

// IsConflictingSequence returns true if the error is a ConflictingSequenceError.
func IsConflictingSequence(err error) bool {
	if err == nil {
		return false
	}
	var e *ConflictingSequenceError
	return errors.As(err, &e) || errors.Is(err, ErrConflictingSequence)
}

// UnresolvableNameError reports malformed input to an identifier or
// qualified-name constructor.
type UnresolvableNameError struct {
	Text   string
	Reason string
}

// Error returns the error string.
func (e *UnresolvableNameError) Error() string {
	return fmt.Sprintf("relmodel: unable to parse object name %q: %s", e.Text, e.Reason)
}

// Is reports whether the target error matches ErrUnresolvableName.
func (e *UnresolvableNameError) Is(err error) bool {
	return err == ErrUnresolvableName
}

// NewUnresolvableNameError returns a new UnresolvableNameError.
func NewUnresolvableNameError(text, reason string) *UnresolvableNameError {
	return &UnresolvableNameError{Text: text, Reason: reason}
}

// IsUnresolvableName returns true if the error is an UnresolvableNameError.
func IsUnresolvableName(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvableNameError
	return errors.As(err, &e) || errors.Is(err, ErrUnresolvableName)
}

// TableLookup identifies how a failed table lookup was keyed.
type TableLookup string

// Table lookup keys.
const (
	LookupSurrogateID TableLookup = "surrogate id"
	LookupDerived     TableLookup = "derived table expression"
	LookupPhysical    TableLookup = "physical table name"
)

// UnknownTableError reports a table lookup with no matching registration.
// Callers distinguish the three flavours through IsUnknownTable,
// IsUnknownDerivedTable and IsUnknownPhysicalTable.
type UnknownTableError struct {
	Lookup TableLookup
	Key    string
}

// Error returns the error string.
func (e *UnknownTableError) Error() string {
	switch e.Lookup {
	case LookupDerived:
		return fmt.Sprintf("relmodel: unable to find derived table %s", e.Key)
	case LookupPhysical:
		return fmt.Sprintf("relmodel: unable to find logical table name for physical table %s", e.Key)
	default:
		return fmt.Sprintf("relmodel: unable to find table with %s %s", e.Lookup, e.Key)
	}
}

// Is reports whether the target error matches ErrUnknownTable.
func (e *UnknownTableError) Is(err error) bool {
	return err == ErrUnknownTable
}

// NewUnknownTableError returns an UnknownTableError for a surrogate id lookup.
func NewUnknownTableError(id int) *UnknownTableError {
	return &UnknownTableError{Lookup: LookupSurrogateID, Key: fmt.Sprint(id)}
}

// NewUnknownDerivedTableError returns an UnknownTableError for a derived table lookup.
func NewUnknownDerivedTableError(expression string) *UnknownTableError {
	return &UnknownTableError{Lookup: LookupDerived, Key: expression}
}

// NewUnknownPhysicalTableError returns an UnknownTableError for a physical name lookup.
func NewUnknownPhysicalTableError(name string) *UnknownTableError {
	return &UnknownTableError{Lookup: LookupPhysical, Key: name}
}

// IsUnknownTable returns true if the error is any UnknownTableError.
func IsUnknownTable(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownTableError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownTable)
}

// IsUnknownDerivedTable returns true if the error is an UnknownTableError
// raised by a derived table lookup.
func IsUnknownDerivedTable(err error) bool {
	var e *UnknownTableError
	return errors.As(err, &e) && e.Lookup == LookupDerived
}

// IsUnknownPhysicalTable returns true if the error is an UnknownTableError
// raised by a physical name lookup.
func IsUnknownPhysicalTable(err error) bool {
	var e *UnknownTableError
	return errors.As(err, &e) && e.Lookup == LookupPhysical
}

// CyclicDependencyError reports user-defined types that cannot be ordered.
type CyclicDependencyError struct {
	Namespace string
	Types     []string
}

// Error returns the error string.
func (e *CyclicDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("relmodel: cyclic dependency between user-defined types")
	if e.Namespace != "" {
		b.WriteString(" in namespace ")
		b.WriteString(e.Namespace)
	}
	b.WriteString(": ")
	b.WriteString(strings.Join(e.Types, ", "))
	return b.String()
}

// Is reports whether the target error matches ErrCyclicDependency.
func (e *CyclicDependencyError) Is(err error) bool {
	return err == ErrCyclicDependency
}

// NewCyclicDependencyError returns a new CyclicDependencyError.
func NewCyclicDependencyError(namespace string, types []string) *CyclicDependencyError {
	return &CyclicDependencyError{Namespace: namespace, Types: types}
}

// IsCyclicDependency returns true if the error is a CyclicDependencyError.
func IsCyclicDependency(err error) bool {
	if err == nil {
		return false
	}
	var e *CyclicDependencyError
	return errors.As(err, &e) || errors.Is(err, ErrCyclicDependency)
}
