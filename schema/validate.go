package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/relmodel/naming"
)

// ValidationError represents a schema model validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema model validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins the validation errors, or returns nil if there are none.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) merge(o *ValidationResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}
	name := t.ExportIdentifier()
	_, derived := t.Kind().(Derived)

	// Check for primary key
	if t.PrimaryKey() == nil && !t.IsAbstract() && !derived {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   name,
			Message: "table has no primary key",
		})
	}

	// Check for duplicate column names
	colNames := make(map[naming.Identifier]bool)
	for _, c := range t.Columns() {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Column:  c.Name.Render(),
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
	}

	checkColumns := func(kind, constraint string, columns []*Column) {
		for _, c := range columns {
			if !t.ContainsColumn(c) {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   name,
					Message: fmt.Sprintf("%s %q references non-existent column %q", kind, constraint, c.Name.Render()),
				})
			}
		}
	}
	if pk := t.PrimaryKey(); pk != nil {
		checkColumns("primary key", pk.ConstraintName(), pk.columns)
	}
	for _, uk := range t.uniqueKeys {
		checkColumns("unique key", uk.ConstraintName(), uk.columns)
	}

	// Check for duplicate index names
	idxNames := make(map[string]bool)
	for _, idx := range t.indexes {
		if idx.Name != "" && idxNames[idx.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Message: fmt.Sprintf("duplicate index name: %s", idx.Name),
			})
		}
		idxNames[idx.Name] = true
		checkColumns("index", idx.Name, idx.columns)
	}

	// Check foreign keys
	for _, fk := range t.foreignKeys {
		checkColumns("foreign key", fk.ConstraintName(), fk.columns)
		if fk.refTable == nil {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Message: fmt.Sprintf("foreign key %q has no referenced table", fk.ConstraintName()),
			})
			continue
		}
		if fk.ReferencesPrimaryKey() && fk.refTable.PrimaryKey() == nil {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Message: fmt.Sprintf("foreign key %q references table %s which has no primary key", fk.ConstraintName(), fk.refTable),
			})
			continue
		}
		if ref := fk.RefColumns(); len(ref) != len(fk.columns) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   name,
				Message: fmt.Sprintf("foreign key %q has %d columns but references %d", fk.ConstraintName(), len(fk.columns), len(ref)),
			})
		}
	}

	return result
}

// ValidateNamespace validates all tables in a namespace.
func ValidateNamespace(ns *Namespace) *ValidationResult {
	result := &ValidationResult{}
	tables := ns.Tables()

	tableNames := make(map[naming.Identifier]bool)
	for _, t := range tables {
		// Two logical names may not map to one physical name.
		if tableNames[t.Name()] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.ExportIdentifier(),
				Message: "duplicate physical table name",
			})
		}
		tableNames[t.Name()] = true
		result.merge(ValidateTable(t))
	}

	// Validate foreign key references
	for _, t := range tables {
		for _, fk := range t.foreignKeys {
			ref := fk.refTable
			if ref == nil || ref.namespace == nil || ref.namespace.db != ns.db {
				continue
			}
			if ref.namespace.LocateTableByPhysicalName(ref.Name()) != ref {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.ExportIdentifier(),
					Message: fmt.Sprintf("foreign key references non-registered table %s", ref),
				})
			}
		}
	}

	return result
}
