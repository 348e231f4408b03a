package schema

import "strconv"

// Code is a SQL type code. Values follow the JDBC type codes, extended with
// the codes for types JDBC does not define (UUID, INET, ...).
type Code int

// SQL type codes.
const (
	Bit          Code = -7
	TinyInt      Code = -6
	SmallInt     Code = 5
	Integer      Code = 4
	BigInt       Code = -5
	Float        Code = 6
	Real         Code = 7
	Double       Code = 8
	Numeric      Code = 2
	Decimal      Code = 3
	Char         Code = 1
	VarChar      Code = 12
	LongVarChar  Code = -1
	Date         Code = 91
	Time         Code = 92
	Timestamp    Code = 93
	Binary       Code = -2
	VarBinary    Code = -3
	LongVarBin   Code = -4
	Null         Code = 0
	Other        Code = 1111
	Distinct     Code = 2001
	Struct       Code = 2002
	Array        Code = 2003
	Blob         Code = 2004
	Clob         Code = 2005
	Boolean      Code = 16
	NChar        Code = -15
	NVarChar     Code = -9
	LongNVarChar Code = -16
	NClob        Code = 2011
	SQLXML       Code = 2009
	TimeTZ       Code = 2013
	TimestampTZ  Code = 2014

	UUID            Code = 3000
	JSON            Code = 3001
	Inet            Code = 3002
	TimestampUTC    Code = 3003
	TimeUTC         Code = 3007
	IntervalSecond  Code = 3100
	Geometry        Code = 3200
	Long32VarChar   Code = 4001
	Long32NVarChar  Code = 4002
	Long32VarBinary Code = 4003
	Enum            Code = 6000
)

var codeNames = map[Code]string{
	Bit:             "BIT",
	TinyInt:         "TINYINT",
	SmallInt:        "SMALLINT",
	Integer:         "INTEGER",
	BigInt:          "BIGINT",
	Float:           "FLOAT",
	Real:            "REAL",
	Double:          "DOUBLE",
	Numeric:         "NUMERIC",
	Decimal:         "DECIMAL",
	Char:            "CHAR",
	VarChar:         "VARCHAR",
	LongVarChar:     "LONGVARCHAR",
	Date:            "DATE",
	Time:            "TIME",
	Timestamp:       "TIMESTAMP",
	Binary:          "BINARY",
	VarBinary:       "VARBINARY",
	LongVarBin:      "LONGVARBINARY",
	Null:            "NULL",
	Other:           "OTHER",
	Distinct:        "DISTINCT",
	Struct:          "STRUCT",
	Array:           "ARRAY",
	Blob:            "BLOB",
	Clob:            "CLOB",
	Boolean:         "BOOLEAN",
	NChar:           "NCHAR",
	NVarChar:        "NVARCHAR",
	LongNVarChar:    "LONGNVARCHAR",
	NClob:           "NCLOB",
	SQLXML:          "SQLXML",
	TimeTZ:          "TIME_WITH_TIMEZONE",
	TimestampTZ:     "TIMESTAMP_WITH_TIMEZONE",
	UUID:            "UUID",
	JSON:            "JSON",
	Inet:            "INET",
	TimestampUTC:    "TIMESTAMP_UTC",
	TimeUTC:         "TIME_UTC",
	IntervalSecond:  "INTERVAL_SECOND",
	Geometry:        "GEOMETRY",
	Long32VarChar:   "LONG32VARCHAR",
	Long32NVarChar:  "LONG32NVARCHAR",
	Long32VarBinary: "LONG32VARBINARY",
	Enum:            "ENUM",
}

// String returns the type code name.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// CodeByName returns the code with the given name, as returned by String.
func CodeByName(name string) (Code, bool) {
	for c, s := range codeNames {
		if s == name {
			return c, true
		}
	}
	return 0, false
}

// IsCharacter reports whether c is a character type.
func (c Code) IsCharacter() bool {
	switch c {
	case Char, VarChar, LongVarChar, Long32VarChar, NChar, NVarChar, LongNVarChar, Long32NVarChar:
		return true
	}
	return false
}

// IsNational reports whether c is a national character type.
func (c Code) IsNational() bool {
	switch c {
	case NChar, NVarChar, LongNVarChar, Long32NVarChar:
		return true
	}
	return false
}

// IsBinary reports whether c is a binary type.
func (c Code) IsBinary() bool {
	switch c {
	case Binary, VarBinary, LongVarBin, Long32VarBinary:
		return true
	}
	return false
}

// ColumnType is the SQL type of a column.
//
// SQLName is set for named SQL types (object UDTs, named arrays, distinct
// types); such a column makes an object UDT depend on the named type.
// Element is set for ARRAY columns.
type ColumnType struct {
	Code    Code
	SQLName string
	Element *ColumnType
}

// SQLTyped reports whether the type refers to a named SQL type.
func (t ColumnType) SQLTyped() bool {
	return t.SQLName != ""
}

// ReferencedTypeName returns the named SQL type t depends on: its own name,
// or for arrays of named types the element's name. It returns "" otherwise.
func (t ColumnType) ReferencedTypeName() string {
	switch {
	case t.SQLTyped():
		return t.SQLName
	case t.Code == Array && t.Element != nil && t.Element.SQLTyped():
		return t.Element.SQLName
	default:
		return ""
	}
}

// Size is the declared size of a column. Zero means unspecified.
type Size struct {
	Length    int
	Precision int
	Scale     int
}
