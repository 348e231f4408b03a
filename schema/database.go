package schema

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
)

type config struct {
	strategy naming.PhysicalNamingStrategy
	dialect  dialect.Dialect
	helper   *naming.Helper
	implicit NamespaceName
	logger   *slog.Logger
	ordering ColumnOrderingStrategy
}

// Option configures a Database.
type Option func(*config)

// WithNamingStrategy sets the physical naming strategy. The default is
// naming.Identity.
func WithNamingStrategy(s naming.PhysicalNamingStrategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithDialect sets the target dialect. The default is PostgreSQL.
func WithDialect(d dialect.Dialect) Option {
	return func(c *config) {
		c.dialect = d
	}
}

// WithHelper sets the identifier helper used by ToIdentifier.
func WithHelper(h *naming.Helper) Option {
	return func(c *config) {
		c.helper = h
	}
}

// WithImplicitNamespace sets the catalog and schema of the default
// namespace. Empty strings leave the part absent.
func WithImplicitNamespace(catalog, schema string) Option {
	return func(c *config) {
		c.implicit = NamespaceName{
			Catalog: naming.ToIdentifier(catalog),
			Schema:  naming.ToIdentifier(schema),
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithColumnOrdering sets the strategy Finalize uses to order columns. Without
// one, columns keep their declaration order.
func WithColumnOrdering(s ColumnOrderingStrategy) Option {
	return func(c *config) {
		c.ordering = s
	}
}

// Database is the root of the schema model built during one boot. It is
// built by a single goroutine; after Finalize it is read-only and safe to
// share.
type Database struct {
	cfg    config
	env    *naming.Environment
	log    *slog.Logger
	bootID uuid.UUID

	defaultNS     *Namespace
	namespaces    map[NamespaceName]*Namespace
	auxiliary     []AuxiliaryDatabaseObject
	initCommands  []InitCommand
	derivedTables registry[*Table]
	derivedByExpr map[string]naming.Identifier
	tableIDs      int
	auxiliaryIDs  atomic.Int64
	finalized     bool
}

// New returns an empty Database with its default namespace.
func New(opts ...Option) *Database {
	cfg := config{
		strategy: naming.Identity{},
		dialect:  dialect.PostgresDialect{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.helper == nil {
		cfg.helper = naming.NewHelper()
	}
	db := &Database{
		cfg:           cfg,
		env:           &naming.Environment{Dialect: cfg.dialect, Helper: cfg.helper},
		bootID:        uuid.New(),
		namespaces:    make(map[NamespaceName]*Namespace),
		derivedTables: newRegistry[*Table](),
		derivedByExpr: make(map[string]naming.Identifier),
	}
	db.log = cfg.logger.With("boot_id", db.bootID.String())
	db.defaultNS = db.makeNamespace(cfg.implicit)
	return db
}

// BootID identifies this boot attempt in log records.
func (db *Database) BootID() uuid.UUID { return db.bootID }

// Logger returns the model's logger. Records carry the boot_id attribute.
func (db *Database) Logger() *slog.Logger { return db.log }

// Dialect returns the target dialect.
func (db *Database) Dialect() dialect.Dialect { return db.cfg.dialect }

// Environment returns the environment passed to the naming strategy.
func (db *Database) Environment() *naming.Environment { return db.env }

// ColumnOrdering returns the configured column ordering strategy, or nil.
func (db *Database) ColumnOrdering() ColumnOrderingStrategy { return db.cfg.ordering }

// ToIdentifier normalizes text with the configured helper.
func (db *Database) ToIdentifier(text string) naming.Identifier {
	return db.cfg.helper.ToIdentifier(text)
}

// IsFinalized reports whether Finalize completed.
func (db *Database) IsFinalized() bool { return db.finalized }

func (db *Database) checkMutable() error {
	if db.finalized {
		return relmodel.ErrFinalized
	}
	return nil
}

func (db *Database) nextTableID() int {
	db.tableIDs++
	return db.tableIDs
}

func (db *Database) nextAuxiliaryID() string {
	return fmt.Sprintf("auxiliary-object-%d", db.auxiliaryIDs.Add(1))
}

func (db *Database) makeNamespace(name NamespaceName) *Namespace {
	ns := newNamespace(db, name)
	db.namespaces[name] = ns
	db.log.Debug("created namespace", "namespace", name.String(), "physical", ns.physicalName.String())
	return ns
}

// DefaultNamespace returns the implicit namespace.
func (db *Database) DefaultNamespace() *Namespace { return db.defaultNS }

// LocateNamespace returns the namespace for catalog and schema, creating it
// on first use. Two absent parts yield the default namespace.
func (db *Database) LocateNamespace(catalog, schema naming.Identifier) (*Namespace, error) {
	if catalog.IsZero() && schema.IsZero() {
		return db.defaultNS, nil
	}
	name := NamespaceName{Catalog: catalog, Schema: schema}
	if ns, ok := db.namespaces[name]; ok {
		return ns, nil
	}
	if err := db.checkMutable(); err != nil {
		return nil, err
	}
	return db.makeNamespace(name), nil
}

// AdjustDefaultNamespace makes the namespace for catalog and schema the
// default one, creating it if needed.
func (db *Database) AdjustDefaultNamespace(catalog, schema naming.Identifier) error {
	if err := db.checkMutable(); err != nil {
		return err
	}
	name := NamespaceName{Catalog: catalog, Schema: schema}
	if name == db.defaultNS.name {
		return nil
	}
	ns, ok := db.namespaces[name]
	if !ok {
		ns = db.makeNamespace(name)
	}
	db.defaultNS = ns
	db.log.Debug("adjusted default namespace", "namespace", name.String())
	return nil
}

// Namespaces returns all namespaces ordered by name.
func (db *Database) Namespaces() []*Namespace {
	nss := make([]*Namespace, 0, len(db.namespaces))
	for _, ns := range db.namespaces {
		nss = append(nss, ns)
	}
	slices.SortFunc(nss, func(a, b *Namespace) int { return a.name.Compare(b.name) })
	return nss
}

// AddAuxiliaryDatabaseObject registers o. An object with the same export
// identifier is replaced in place.
func (db *Database) AddAuxiliaryDatabaseObject(o AuxiliaryDatabaseObject) error {
	if err := db.checkMutable(); err != nil {
		return err
	}
	id := o.ExportIdentifier()
	if i := slices.IndexFunc(db.auxiliary, func(e AuxiliaryDatabaseObject) bool { return e.ExportIdentifier() == id }); i >= 0 {
		db.auxiliary[i] = o
		return nil
	}
	db.auxiliary = append(db.auxiliary, o)
	db.log.Debug("registered auxiliary object", "id", id, "before_tables", o.BeforeTablesOnCreation())
	return nil
}

// AuxiliaryDatabaseObjects returns the auxiliary objects in registration
// order. The result is never nil.
func (db *Database) AuxiliaryDatabaseObjects() []AuxiliaryDatabaseObject {
	objs := make([]AuxiliaryDatabaseObject, len(db.auxiliary))
	copy(objs, db.auxiliary)
	return objs
}

// AddInitCommand registers statements to run after the schema is created.
func (db *Database) AddInitCommand(cmd InitCommand) error {
	if err := db.checkMutable(); err != nil {
		return err
	}
	db.initCommands = append(db.initCommands, InitCommand{Statements: slices.Clone(cmd.Statements)})
	return nil
}

// InitCommands returns the init commands in registration order. The result
// is never nil.
func (db *Database) InitCommands() []InitCommand {
	cmds := make([]InitCommand, len(db.initCommands))
	copy(cmds, db.initCommands)
	return cmds
}

// AddDerivedTable returns the derived table for the subselect expression,
// creating it on first use. A logical name already registered for another
// expression fails with a DuplicateRegistrationError.
func (db *Database) AddDerivedTable(contributor string, logical naming.Identifier, expression string, abstract bool) (*Table, error) {
	if logical, ok := db.derivedByExpr[expression]; ok {
		t, _ := db.derivedTables.get(logical)
		return t, nil
	}
	if _, ok := db.derivedTables.get(logical); ok {
		return nil, relmodel.NewDuplicateRegistrationError("derived table", logical.Render())
	}
	if err := db.checkMutable(); err != nil {
		return nil, err
	}
	t := NewDerivedTable(contributor, expression, abstract)
	t.id = db.nextTableID()
	db.derivedTables.put(logical, t)
	db.derivedByExpr[expression] = logical
	db.log.Debug("registered derived table", "logical", logical.Render(), "id", t.id)
	return t, nil
}

// DerivedTable returns the derived table registered for expression.
func (db *Database) DerivedTable(expression string) (*Table, error) {
	logical, ok := db.derivedByExpr[expression]
	if !ok {
		return nil, relmodel.NewUnknownDerivedTableError(expression)
	}
	t, _ := db.derivedTables.get(logical)
	return t, nil
}

// DerivedTables returns the derived tables in registration order.
func (db *Database) DerivedTables() []*Table { return db.derivedTables.list() }

// LogicalTableName returns the logical name of the table registered under
// the physical name.
func (db *Database) LogicalTableName(physical naming.QualifiedTableName) (naming.Identifier, error) {
	for _, ns := range db.Namespaces() {
		pn := ns.PhysicalName()
		if pn.Catalog != physical.Catalog || pn.Schema != physical.Schema {
			continue
		}
		if logical, ok := ns.LogicalTableName(physical.Object); ok {
			return logical, nil
		}
	}
	return naming.Identifier{}, relmodel.NewUnknownPhysicalTableError(physical.Render())
}

// TableByID returns the table with the given surrogate id in any namespace.
func (db *Database) TableByID(id int) (*Table, error) {
	for _, ns := range db.Namespaces() {
		if t, err := ns.TableByID(id); err == nil {
			return t, nil
		}
	}
	for _, t := range db.derivedTables.list() {
		if t.id == id {
			return t, nil
		}
	}
	return nil, relmodel.NewUnknownTableError(id)
}

// GenerationContext returns a context for rendering DDL with the default
// namespace as defaults.
func (db *Database) GenerationContext() *GenerationContext {
	pn := db.defaultNS.PhysicalName()
	return NewGenerationContext(db.cfg.dialect, pn.Catalog, pn.Schema)
}

// Finalize validates the model, resolves the user-defined type order of
// every namespace, applies column ordering and makes the model read-only.
// Every mutator fails with relmodel.ErrFinalized afterwards.
func (db *Database) Finalize() error {
	if db.finalized {
		return nil
	}
	nss := db.Namespaces()
	for _, ns := range nss {
		res := ValidateNamespace(ns)
		for _, w := range res.Warnings {
			db.log.Warn("schema model validation", "namespace", ns.String(), "warning", w.Error())
		}
		if res.HasErrors() {
			return fmt.Errorf("validate namespace %s: %w", ns, res.Err())
		}
	}
	orders := make([][]UserDefinedType, len(nss))
	for i, ns := range nss {
		ordered, err := orderUserDefinedTypes(ns.name.String(), ns.udts.list())
		if err != nil {
			return err
		}
		orders[i] = ordered
	}
	for i, ns := range nss {
		ns.orderedUDTs = orders[i]
	}
	if s := db.cfg.ordering; s != nil {
		d := db.cfg.dialect
		for _, ns := range nss {
			orderNamespaceColumns(ns, s, d)
		}
	}
	for _, ns := range nss {
		for _, t := range ns.tables.list() {
			t.sealed = true
		}
		for _, u := range ns.udts.list() {
			switch u := u.(type) {
			case *UserDefinedObjectType:
				u.sealed = true
			case *UserDefinedArrayType:
				u.sealed = true
			}
		}
	}
	for _, t := range db.derivedTables.list() {
		t.sealed = true
	}
	for _, o := range db.auxiliary {
		if s, ok := o.(interface{ seal() }); ok {
			s.seal()
		}
	}
	db.finalized = true
	db.log.Info("schema model finalized",
		"namespaces", len(nss),
		"auxiliary_objects", len(db.auxiliary),
		"init_commands", len(db.initCommands),
	)
	return nil
}
