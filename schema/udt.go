package schema

import (
	"fmt"
	"slices"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/naming"
)

// UserDefinedType is a user-defined SQL type. The set of implementations is
// closed: *UserDefinedObjectType and *UserDefinedArrayType.
type UserDefinedType interface {
	// Name returns the physical qualified name of the type.
	Name() naming.QualifiedName
	// TypeName returns the physical type name as referenced by columns.
	TypeName() string
	Contributor() string
	userDefinedType()
}

var (
	_ UserDefinedType = (*UserDefinedObjectType)(nil)
	_ UserDefinedType = (*UserDefinedArrayType)(nil)
)

type udtBase struct {
	name        naming.QualifiedName
	contributor string
	// Comment must not be written after Database.Finalize.
	Comment string
	sealed  bool
}

func newUDTBase(contributor string, ns *Namespace, physicalName naming.Identifier) udtBase {
	var nsName NamespaceName
	if ns != nil {
		nsName = ns.PhysicalName()
	}
	return udtBase{
		name:        naming.QualifiedName{Catalog: nsName.Catalog, Schema: nsName.Schema, Object: physicalName},
		contributor: contributor,
	}
}

func (u *udtBase) Name() naming.QualifiedName { return u.name }
func (u *udtBase) TypeName() string           { return u.name.Object.Text }
func (u *udtBase) Contributor() string        { return u.contributor }
func (u *udtBase) userDefinedType()           {}

// UserDefinedObjectType is a structured (object) type with columns.
type UserDefinedObjectType struct {
	udtBase
	columns []*Column
}

// NewUserDefinedObjectType returns an object type named physicalName in ns.
func NewUserDefinedObjectType(contributor string, ns *Namespace, physicalName naming.Identifier) *UserDefinedObjectType {
	return &UserDefinedObjectType{udtBase: newUDTBase(contributor, ns, physicalName)}
}

// Columns returns the attributes of the type.
func (u *UserDefinedObjectType) Columns() []*Column { return slices.Clone(u.columns) }

// Column returns the attribute with the given name, or nil.
func (u *UserDefinedObjectType) Column(name naming.Identifier) *Column {
	for _, c := range u.columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddColumn adds an attribute. An existing attribute with the same name is
// returned instead.
func (u *UserDefinedObjectType) AddColumn(c *Column) (*Column, error) {
	if u.sealed {
		return nil, fmt.Errorf("type %s: %w", u.name, relmodel.ErrFinalized)
	}
	if existing := u.Column(c.Name); existing != nil {
		return existing, nil
	}
	u.columns = append(u.columns, c)
	return c, nil
}

// Dependencies returns the distinct named SQL types referenced by the
// attributes, in attribute order.
func (u *UserDefinedObjectType) Dependencies() []string {
	var deps []string
	for _, c := range u.columns {
		if name := c.Type.ReferencedTypeName(); name != "" && !slices.Contains(deps, name) {
			deps = append(deps, name)
		}
	}
	return deps
}

func (u *UserDefinedObjectType) reorderColumns(ordered []*Column) {
	if len(ordered) == len(u.columns) {
		u.columns = slices.Clone(ordered)
	}
}

// UserDefinedArrayType is a named array type.
type UserDefinedArrayType struct {
	udtBase
	elementTypeName string
	elementType     ColumnType
	arrayLength     int
}

// NewUserDefinedArrayType returns an array type named physicalName in ns.
func NewUserDefinedArrayType(contributor string, ns *Namespace, physicalName naming.Identifier) *UserDefinedArrayType {
	return &UserDefinedArrayType{udtBase: newUDTBase(contributor, ns, physicalName)}
}

// SetElementType sets the element type. elementTypeName names the element
// type in DDL; when it names an object type of the same namespace, the
// array type depends on it.
func (u *UserDefinedArrayType) SetElementType(elementTypeName string, elementType ColumnType) error {
	if u.sealed {
		return fmt.Errorf("type %s: %w", u.name, relmodel.ErrFinalized)
	}
	u.elementTypeName = elementTypeName
	u.elementType = elementType
	return nil
}

// SetArrayLength sets the maximum length of the array, zero for unbounded.
func (u *UserDefinedArrayType) SetArrayLength(n int) error {
	if u.sealed {
		return fmt.Errorf("type %s: %w", u.name, relmodel.ErrFinalized)
	}
	u.arrayLength = n
	return nil
}

// ElementTypeName returns the name of the element type.
func (u *UserDefinedArrayType) ElementTypeName() string { return u.elementTypeName }

// ElementType returns the element type.
func (u *UserDefinedArrayType) ElementType() ColumnType { return u.elementType }

// ArrayLength returns the maximum length of the array.
func (u *UserDefinedArrayType) ArrayLength() int { return u.arrayLength }
