package schema

import (
	"fmt"
	"slices"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/naming"
)

// NamespaceName is a catalog and schema pair; either may be absent.
// NamespaceNames are comparable and totally ordered by Compare.
type NamespaceName struct {
	Catalog naming.Identifier
	Schema  naming.Identifier
}

// Compare orders by catalog, then schema. A present part sorts before an
// absent one.
func (n NamespaceName) Compare(o NamespaceName) int {
	if c := naming.CompareOptional(n.Catalog, o.Catalog); c != 0 {
		return c
	}
	return naming.CompareOptional(n.Schema, o.Schema)
}

// String returns "catalog.schema" with absent parts omitted.
func (n NamespaceName) String() string {
	switch {
	case n.Catalog.IsZero() && n.Schema.IsZero():
		return "<default>"
	case n.Catalog.IsZero():
		return n.Schema.Render()
	case n.Schema.IsZero():
		return n.Catalog.Render() + "."
	default:
		return n.Catalog.Render() + "." + n.Schema.Render()
	}
}

// registry is a map that remembers insertion order.
type registry[V any] struct {
	keys   []naming.Identifier
	values map[naming.Identifier]V
}

func newRegistry[V any]() registry[V] {
	return registry[V]{values: make(map[naming.Identifier]V)}
}

func (r *registry[V]) get(k naming.Identifier) (V, bool) {
	v, ok := r.values[k]
	return v, ok
}

func (r *registry[V]) put(k naming.Identifier, v V) {
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

func (r *registry[V]) list() []V {
	vs := make([]V, 0, len(r.keys))
	for _, k := range r.keys {
		vs = append(vs, r.values[k])
	}
	return vs
}

// Namespace scopes tables, sequences and user-defined types to a catalog
// and schema. Entries are keyed by logical name; the physical name is
// computed once, when the entry is registered.
type Namespace struct {
	db           *Database
	name         NamespaceName
	physicalName NamespaceName
	tables       registry[*Table]
	sequences    registry[*Sequence]
	udts         registry[UserDefinedType]
	// physicalTables maps physical table names back to logical ones.
	physicalTables map[naming.Identifier]naming.Identifier
	// orderedUDTs caches the dependency order once the model is finalized.
	orderedUDTs []UserDefinedType
}

func newNamespace(db *Database, name NamespaceName) *Namespace {
	strategy, env := db.cfg.strategy, db.env
	return &Namespace{
		db:   db,
		name: name,
		physicalName: NamespaceName{
			Catalog: strategy.ToPhysicalCatalogName(name.Catalog, env),
			Schema:  strategy.ToPhysicalSchemaName(name.Schema, env),
		},
		tables:         newRegistry[*Table](),
		sequences:      newRegistry[*Sequence](),
		udts:           newRegistry[UserDefinedType](),
		physicalTables: make(map[naming.Identifier]naming.Identifier),
	}
}

// Name returns the logical name of the namespace.
func (ns *Namespace) Name() NamespaceName { return ns.name }

// PhysicalName returns the physical name, fixed at construction.
func (ns *Namespace) PhysicalName() NamespaceName { return ns.physicalName }

// String implements fmt.Stringer.
func (ns *Namespace) String() string { return ns.name.String() }

// LocateTable returns the table registered under the logical name, or nil.
func (ns *Namespace) LocateTable(logical naming.Identifier) *Table {
	t, _ := ns.tables.get(logical)
	return t
}

// CreateTable returns the table registered under the logical name. If none
// exists, the physical name is computed and factory builds the table.
// Calling it again with the same logical name returns the same table
// without consulting the naming strategy or the factory.
func (ns *Namespace) CreateTable(logical naming.Identifier, factory func(physical naming.Identifier) *Table) (*Table, error) {
	if t, ok := ns.tables.get(logical); ok {
		return t, nil
	}
	if err := ns.db.checkMutable(); err != nil {
		return nil, err
	}
	physical := ns.db.cfg.strategy.ToPhysicalTableName(logical, ns.db.env)
	t := factory(physical)
	t.id = ns.db.nextTableID()
	ns.tables.put(logical, t)
	ns.physicalTables[physical] = logical
	ns.db.log.Debug("registered table", "namespace", ns.name.String(), "logical", logical.Render(), "physical", physical.Render(), "id", t.id)
	return t, nil
}

// CreateDenormalizedTable is CreateTable for union-subclass tables
// including parent.
func (ns *Namespace) CreateDenormalizedTable(logical naming.Identifier, parent *Table, factory func(physical naming.Identifier, parent *Table) *Table) (*Table, error) {
	return ns.CreateTable(logical, func(physical naming.Identifier) *Table {
		return factory(physical, parent)
	})
}

// LocateTableByPhysicalName returns the table registered with the physical
// name, or nil.
func (ns *Namespace) LocateTableByPhysicalName(physical naming.Identifier) *Table {
	logical, ok := ns.physicalTables[physical]
	if !ok {
		return nil
	}
	return ns.LocateTable(logical)
}

// TableByID returns the table with the given surrogate id.
func (ns *Namespace) TableByID(id int) (*Table, error) {
	for _, t := range ns.tables.list() {
		if t.id == id {
			return t, nil
		}
	}
	return nil, relmodel.NewUnknownTableError(id)
}

// Tables returns the tables in registration order.
func (ns *Namespace) Tables() []*Table { return ns.tables.list() }

// LogicalTableName returns the logical name of the table registered with
// the given physical name.
func (ns *Namespace) LogicalTableName(physical naming.Identifier) (naming.Identifier, bool) {
	logical, ok := ns.physicalTables[physical]
	return logical, ok
}

// LocateSequence returns the sequence registered under the logical name,
// or nil.
func (ns *Namespace) LocateSequence(logical naming.Identifier) *Sequence {
	s, _ := ns.sequences.get(logical)
	return s
}

// CreateSequence registers a new sequence. Unlike tables, sequences are
// created once: a second registration of the same logical name fails.
func (ns *Namespace) CreateSequence(logical naming.Identifier, factory func(physical naming.Identifier) *Sequence) (*Sequence, error) {
	if _, ok := ns.sequences.get(logical); ok {
		return nil, relmodel.NewDuplicateRegistrationError("sequence", logical.Render())
	}
	if err := ns.db.checkMutable(); err != nil {
		return nil, err
	}
	physical := ns.db.cfg.strategy.ToPhysicalSequenceName(logical, ns.db.env)
	s := factory(physical)
	ns.sequences.put(logical, s)
	ns.db.log.Debug("registered sequence", "namespace", ns.name.String(), "logical", logical.Render(), "physical", physical.Render())
	return s, nil
}

// Sequences returns the sequences in registration order.
func (ns *Namespace) Sequences() []*Sequence { return ns.sequences.list() }

// LocateUserDefinedType returns the type registered under the logical
// name, or nil.
func (ns *Namespace) LocateUserDefinedType(logical naming.Identifier) UserDefinedType {
	u, _ := ns.udts.get(logical)
	return u
}

// CreateUserDefinedObjectType returns the object type registered under the
// logical name, creating it with factory if absent. It fails if the name is
// registered as an array type.
func (ns *Namespace) CreateUserDefinedObjectType(logical naming.Identifier, factory func(physical naming.Identifier) *UserDefinedObjectType) (*UserDefinedObjectType, error) {
	return createUDT(ns, logical, factory)
}

// CreateUserDefinedArrayType returns the array type registered under the
// logical name, creating it with factory if absent. It fails if the name is
// registered as an object type.
func (ns *Namespace) CreateUserDefinedArrayType(logical naming.Identifier, factory func(physical naming.Identifier) *UserDefinedArrayType) (*UserDefinedArrayType, error) {
	return createUDT(ns, logical, factory)
}

func createUDT[T UserDefinedType](ns *Namespace, logical naming.Identifier, factory func(naming.Identifier) T) (T, error) {
	var zero T
	if existing, ok := ns.udts.get(logical); ok {
		u, ok := existing.(T)
		if !ok {
			return zero, fmt.Errorf("type %s: %w", logical.Render(), relmodel.ErrUDTKindMismatch)
		}
		return u, nil
	}
	if err := ns.db.checkMutable(); err != nil {
		return zero, err
	}
	physical := ns.db.cfg.strategy.ToPhysicalTypeName(logical, ns.db.env)
	u := factory(physical)
	ns.udts.put(logical, u)
	ns.orderedUDTs = nil
	ns.db.log.Debug("registered user-defined type", "namespace", ns.name.String(), "logical", logical.Render(), "physical", physical.Render())
	return u, nil
}

// UserDefinedTypes returns the user-defined types in registration order.
func (ns *Namespace) UserDefinedTypes() []UserDefinedType { return ns.udts.list() }

// DependencyOrderedUserDefinedTypes returns the user-defined types ordered
// so that every type comes after the types it depends on.
func (ns *Namespace) DependencyOrderedUserDefinedTypes() ([]UserDefinedType, error) {
	if ns.orderedUDTs != nil {
		return slices.Clone(ns.orderedUDTs), nil
	}
	return orderUserDefinedTypes(ns.name.String(), ns.udts.list())
}
