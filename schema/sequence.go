package schema

import (
	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/naming"
)

// Sequence is a database sequence.
type Sequence struct {
	name          naming.QualifiedSequenceName
	contributor   string
	initialValue  int
	incrementSize int
	options       string
}

// NewSequence returns a sequence named physicalName in ns. It is meant to
// be called from the factory passed to Namespace.CreateSequence.
func NewSequence(contributor string, ns *Namespace, physicalName naming.Identifier, initialValue, incrementSize int, options string) *Sequence {
	var name NamespaceName
	if ns != nil {
		name = ns.PhysicalName()
	}
	return &Sequence{
		name:          naming.NewQualifiedSequenceName(name.Catalog, name.Schema, physicalName),
		contributor:   contributor,
		initialValue:  initialValue,
		incrementSize: incrementSize,
		options:       options,
	}
}

// Name returns the physical qualified name.
func (s *Sequence) Name() naming.QualifiedSequenceName { return s.name }

// Contributor returns the name of the mapping that contributed the sequence.
func (s *Sequence) Contributor() string { return s.contributor }

// InitialValue returns the initial value.
func (s *Sequence) InitialValue() int { return s.initialValue }

// IncrementSize returns the increment size.
func (s *Sequence) IncrementSize() int { return s.incrementSize }

// Options returns dialect-specific options appended to the DDL.
func (s *Sequence) Options() string { return s.options }

// ExportIdentifier returns the rendered qualified name.
func (s *Sequence) ExportIdentifier() string { return s.name.Render() }

// Validate checks that a later reference to the sequence agrees with its
// definition.
func (s *Sequence) Validate(initialValue, incrementSize int) error {
	if s.initialValue != initialValue {
		return relmodel.NewConflictingSequenceError(s.ExportIdentifier(), "initial value", s.initialValue, initialValue)
	}
	if s.incrementSize != incrementSize {
		return relmodel.NewConflictingSequenceError(s.ExportIdentifier(), "increment size", s.incrementSize, incrementSize)
	}
	return nil
}
