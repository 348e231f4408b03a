// Package mapping loads schema model definitions from YAML documents and
// builds a finalized schema.Database from them.
//
// A document looks like:
//
//	dialect: postgres
//	naming: snake_case
//	column_ordering: standard
//	implicit_namespace:
//	  schema: public
//	namespaces:
//	  - schema: public
//	    tables:
//	      - name: Customer
//	        columns:
//	          - {name: id, type: bigint, nullable: false}
//	          - {name: email, type: varchar, length: 255}
//	        primary_key: {columns: id}
package mapping

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the root of a mapping file.
type Document struct {
	// Dialect is the short name of the target dialect, e.g. "postgres".
	Dialect string `yaml:"dialect,omitempty"`
	// Naming is "identity" (default) or "snake_case".
	Naming string `yaml:"naming,omitempty"`
	// ColumnOrdering is "standard" (default) or "legacy".
	ColumnOrdering    string          `yaml:"column_ordering,omitempty"`
	ImplicitNamespace NamespaceRef    `yaml:"implicit_namespace,omitempty"`
	Identifiers       IdentifierRules `yaml:"identifiers,omitempty"`
	Namespaces        []Namespace     `yaml:"namespaces,omitempty"`
	DerivedTables     []DerivedTable  `yaml:"derived_tables,omitempty"`
	AuxiliaryObjects  []AuxiliaryDef  `yaml:"auxiliary_objects,omitempty"`
	InitCommands      []StringList    `yaml:"init_commands,omitempty"`
}

// IdentifierRules configures how logical names are normalized.
type IdentifierRules struct {
	GlobalQuoting bool       `yaml:"global_quoting,omitempty"`
	Keywords      StringList `yaml:"keywords,omitempty"`
	// Case is "mixed" (default), "lower" or "upper".
	Case string `yaml:"case,omitempty"`
}

// NamespaceRef names a namespace. Empty parts are absent.
type NamespaceRef struct {
	Catalog string `yaml:"catalog,omitempty"`
	Schema  string `yaml:"schema,omitempty"`
}

// Namespace holds the objects of one catalog and schema.
type Namespace struct {
	NamespaceRef `yaml:",inline"`
	Types        []TypeDef     `yaml:"types,omitempty"`
	Sequences    []SequenceDef `yaml:"sequences,omitempty"`
	Tables       []TableDef    `yaml:"tables,omitempty"`
}

// TypeDef defines a user-defined type.
type TypeDef struct {
	Name string `yaml:"name"`
	// Kind is "object" (default) or "array".
	Kind        string      `yaml:"kind,omitempty"`
	Contributor string      `yaml:"contributor,omitempty"`
	Comment     string      `yaml:"comment,omitempty"`
	Columns     []ColumnDef `yaml:"columns,omitempty"`
	// Element is the element type of an array: a type code name or the
	// logical name of another user-defined type.
	Element string `yaml:"element,omitempty"`
	Length  int    `yaml:"length,omitempty"`
}

// SequenceDef defines a sequence. A sequence listed more than once must
// agree on its initial value and increment size.
type SequenceDef struct {
	Name        string `yaml:"name"`
	Contributor string `yaml:"contributor,omitempty"`
	Initial     int    `yaml:"initial,omitempty"`
	Increment   int    `yaml:"increment,omitempty"`
	Options     string `yaml:"options,omitempty"`
}

// TableDef defines a table.
type TableDef struct {
	Name        string `yaml:"name"`
	Contributor string `yaml:"contributor,omitempty"`
	Abstract    bool   `yaml:"abstract,omitempty"`
	Comment     string `yaml:"comment,omitempty"`
	// Extends names a table of the same namespace whose columns and keys
	// this table repeats (union subclass).
	Extends     string       `yaml:"extends,omitempty"`
	Columns     []ColumnDef  `yaml:"columns,omitempty"`
	PrimaryKey  *KeyDef      `yaml:"primary_key,omitempty"`
	UniqueKeys  []KeyDef     `yaml:"unique_keys,omitempty"`
	ForeignKeys []ForeignDef `yaml:"foreign_keys,omitempty"`
	Indexes     []IndexDef   `yaml:"indexes,omitempty"`
	Checks      StringList   `yaml:"checks,omitempty"`
}

// ColumnDef defines a column of a table or an object type.
type ColumnDef struct {
	Name string `yaml:"name"`
	// Type is a type code name such as "varchar" or "bigint".
	Type string `yaml:"type,omitempty"`
	// SQLType names a user-defined type; Type defaults to "struct".
	SQLType   string `yaml:"sql_type,omitempty"`
	Length    int    `yaml:"length,omitempty"`
	Precision int    `yaml:"precision,omitempty"`
	Scale     int    `yaml:"scale,omitempty"`
	Nullable  *bool  `yaml:"nullable,omitempty"`
	Unique    bool   `yaml:"unique,omitempty"`
	Default   string `yaml:"default,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

// KeyDef defines a primary or unique key.
type KeyDef struct {
	Name    string     `yaml:"name,omitempty"`
	Columns StringList `yaml:"columns"`
}

// ForeignDef defines a foreign key.
type ForeignDef struct {
	Name       string       `yaml:"name,omitempty"`
	Columns    StringList   `yaml:"columns"`
	References ReferenceDef `yaml:"references"`
	OnDelete   string       `yaml:"on_delete,omitempty"`
}

// ReferenceDef is the target of a foreign key. Without columns the key
// references the primary key of the table.
type ReferenceDef struct {
	NamespaceRef `yaml:",inline"`
	Table        string     `yaml:"table"`
	Columns      StringList `yaml:"columns,omitempty"`
}

// IndexDef defines an index.
type IndexDef struct {
	Name    string     `yaml:"name,omitempty"`
	Unique  bool       `yaml:"unique,omitempty"`
	Columns StringList `yaml:"columns"`
}

// DerivedTable defines a table backed by a subselect.
type DerivedTable struct {
	Name        string `yaml:"name"`
	Contributor string `yaml:"contributor,omitempty"`
	Expression  string `yaml:"expression"`
	Abstract    bool   `yaml:"abstract,omitempty"`
}

// AuxiliaryDef defines hand-written DDL. With a name, the object is
// identified by its qualified name; otherwise by a generated id.
type AuxiliaryDef struct {
	Name         string       `yaml:"name,omitempty"`
	Namespace    NamespaceRef `yaml:"namespace,omitempty"`
	Create       StringList   `yaml:"create"`
	Drop         StringList   `yaml:"drop,omitempty"`
	BeforeTables bool         `yaml:"before_tables,omitempty"`
	// Dialects lists dialect implementation names or short dialect names.
	Dialects StringList `yaml:"dialects,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Load decodes a document from r. Unknown fields are rejected.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("mapping: decode: %w", err)
	}
	return &doc, nil
}

// LoadFile decodes the document stored at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping: read %s: %w", path, err)
	}
	doc, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes doc as YAML.
func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("mapping: encode: %w", err)
	}
	return data, nil
}
