package export

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	atlas "ariga.io/atlas/sql/schema"

	"github.com/syssam/relmodel/schema"
)

// table converts t into an atlas table without its foreign keys. Those are
// added once every namespace is converted, since they may cross namespaces.
func (e *Exporter) table(t *schema.Table, s *atlas.Schema) (*atlas.Table, error) {
	name := t.Name().Text
	at := &atlas.Table{Name: name, Schema: s}
	if t.Comment != "" {
		at.Attrs = append(at.Attrs, &atlas.Comment{Text: t.Comment})
	}
	for _, c := range t.Columns() {
		ct, err := e.drv.columnType(c)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		ac := &atlas.Column{Name: c.Name.Text, Type: ct}
		if c.Default != "" {
			ac.Default = &atlas.RawExpr{X: c.Default}
		}
		if c.Comment != "" {
			ac.Attrs = append(ac.Attrs, &atlas.Comment{Text: c.Comment})
		}
		at.Columns = append(at.Columns, ac)
	}
	if pk := t.PrimaryKey(); pk != nil {
		idx, err := index(at, pk.ConstraintName(), true, pk.ConstraintColumns())
		if err != nil {
			return nil, fmt.Errorf("primary key: %w", err)
		}
		at.PrimaryKey = idx
	}
	for _, c := range t.Columns() {
		if !c.Unique {
			continue
		}
		idx, err := index(at, keyName(name, "key", c), true, []*schema.Column{c})
		if err != nil {
			return nil, err
		}
		at.Indexes = append(at.Indexes, idx)
	}
	for _, uk := range t.UniqueKeys() {
		idxName := uk.ConstraintName()
		// Keys included from a parent table need their own name.
		if idxName == "" || uk.ConstraintTable() != t {
			idxName = keyName(name, "key", uk.ConstraintColumns()...)
		}
		idx, err := index(at, idxName, true, uk.ConstraintColumns())
		if err != nil {
			return nil, fmt.Errorf("unique key %s: %w", idxName, err)
		}
		at.Indexes = append(at.Indexes, idx)
	}
	for _, i := range t.Indexes() {
		idxName := i.Name
		if idxName == "" {
			idxName = keyName(name, "idx", i.Columns()...)
		}
		idx, err := index(at, idxName, i.Unique, i.Columns())
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", idxName, err)
		}
		at.Indexes = append(at.Indexes, idx)
	}
	for _, expr := range t.Checks() {
		at.Attrs = append(at.Attrs, &atlas.Check{Expr: expr})
	}
	return at, nil
}

func index(at *atlas.Table, name string, unique bool, columns []*schema.Column) (*atlas.Index, error) {
	idx := &atlas.Index{Name: name, Unique: unique, Table: at}
	for i, c := range columns {
		ac, ok := at.Column(c.Name.Text)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c.Name.Text)
		}
		idx.Parts = append(idx.Parts, &atlas.IndexPart{SeqNo: i, C: ac})
	}
	return idx, nil
}

// keyName builds a constraint name from the table and column names.
func keyName(table, suffix string, columns ...*schema.Column) string {
	parts := []string{table}
	for _, c := range columns {
		parts = append(parts, c.Name.Text)
	}
	return strings.Join(append(parts, suffix), "_")
}

// planTables wires the foreign keys and plans the creation of every table,
// parents before their children.
func (e *Exporter) planTables(ctx context.Context, name string, parts []*namespaceDDL) (*migrate.Plan, error) {
	converted := make(map[*schema.Table]*atlas.Table)
	var tables []*schema.Table
	for _, p := range parts {
		tables = append(tables, p.tables...)
		for t, at := range p.converted {
			converted[t] = at
		}
	}
	for _, t := range tables {
		at := converted[t]
		for _, fk := range t.ForeignKeys() {
			afk, err := foreignKey(at, fk, converted)
			if err != nil {
				return nil, fmt.Errorf("export: table %s: %w", t, err)
			}
			if afk == nil {
				e.log.Warn("foreign key target is not exported, skipping it", "table", t.String(), "foreign_key", fk.ConstraintName())
				continue
			}
			at.ForeignKeys = append(at.ForeignKeys, afk)
		}
	}
	changes := make([]atlas.Change, 0, len(tables))
	for _, t := range sortTables(tables) {
		changes = append(changes, &atlas.AddTable{T: converted[t]})
	}
	plan, err := e.drv.planner.PlanChanges(ctx, name, changes)
	if err != nil {
		return nil, fmt.Errorf("export: plan tables: %w", err)
	}
	return plan, nil
}

// foreignKey converts fk. It returns nil if the referenced table is not
// exported.
func foreignKey(at *atlas.Table, fk *schema.ForeignKey, converted map[*schema.Table]*atlas.Table) (*atlas.ForeignKey, error) {
	ref, ok := converted[fk.RefTable()]
	if !ok {
		return nil, nil
	}
	symbol := fk.ConstraintName()
	if symbol == "" {
		symbol = keyName(at.Name, "fkey", fk.ConstraintColumns()...)
	}
	afk := &atlas.ForeignKey{
		Symbol:   symbol,
		Table:    at,
		RefTable: ref,
		OnDelete: atlas.ReferenceOption(fk.OnDelete),
	}
	for _, c := range fk.ConstraintColumns() {
		ac, ok := at.Column(c.Name.Text)
		if !ok {
			return nil, fmt.Errorf("foreign key %s: unknown column %q", symbol, c.Name.Text)
		}
		afk.Columns = append(afk.Columns, ac)
	}
	for _, c := range fk.RefColumns() {
		ac, ok := ref.Column(c.Name.Text)
		if !ok {
			return nil, fmt.Errorf("foreign key %s: unknown referenced column %q", symbol, c.Name.Text)
		}
		afk.RefColumns = append(afk.RefColumns, ac)
	}
	return afk, nil
}

// sortTables orders tables so that referenced tables come first. Ties and
// cycles keep the declaration order.
func sortTables(tables []*schema.Table) []*schema.Table {
	const (
		visiting = iota + 1
		done
	)
	var (
		state  = make(map[*schema.Table]int, len(tables))
		known  = make(map[*schema.Table]bool, len(tables))
		sorted = make([]*schema.Table, 0, len(tables))
		visit  func(*schema.Table)
	)
	for _, t := range tables {
		known[t] = true
	}
	visit = func(t *schema.Table) {
		if state[t] != 0 {
			return
		}
		state[t] = visiting
		for _, fk := range t.ForeignKeys() {
			if ref := fk.RefTable(); known[ref] && ref != t {
				visit(ref)
			}
		}
		state[t] = done
		sorted = append(sorted, t)
	}
	for _, t := range tables {
		visit(t)
	}
	return sorted
}
