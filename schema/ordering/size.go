package ordering

import (
	"math"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/schema"
)

// PhysicalSizeInBytes estimates the storage size of a value of type code
// with the declared size. Types it cannot estimate report math.MaxInt32 so
// they sort last. A nil dialect leaves unspecified lengths unbounded.
func PhysicalSizeInBytes(code schema.Code, size schema.Size, d dialect.Dialect) int {
	switch code {
	case schema.Boolean, schema.TinyInt, schema.Bit:
		return 1
	case schema.SmallInt:
		return 2
	case schema.Float:
		if size.Precision > 0 {
			return DecimalBytes(size.Precision)
		}
		return 4
	case schema.Real, schema.Integer:
		return 4
	case schema.BigInt, schema.Double:
		return 8
	case schema.Numeric, schema.Decimal:
		precision := size.Precision
		if precision <= 0 {
			if d == nil {
				return math.MaxInt32
			}
			precision = d.DefaultDecimalPrecision()
		}
		return DecimalBytes(precision)
	case schema.Date, schema.Time, schema.TimeTZ, schema.TimeUTC:
		return 4
	case schema.Timestamp, schema.TimestampTZ, schema.TimestampUTC, schema.IntervalSecond:
		return 8
	case schema.UUID:
		return 16
	case schema.Inet:
		return 19
	}
	switch {
	case code.IsCharacter():
		if size.Length > 0 {
			return size.Length
		}
		switch {
		case d == nil:
			return math.MaxInt32
		case code.IsNational():
			return d.MaxNVarcharLength()
		default:
			return d.MaxVarcharLength()
		}
	case code.IsBinary():
		if size.Length > 0 {
			return size.Length
		}
		if d == nil {
			return math.MaxInt32
		}
		return d.MaxVarbinaryLength()
	}
	return math.MaxInt32
}

// DecimalBytes converts decimal digits of precision to whole bytes,
// rounding up. The estimate is precision / Log2Of10 with no factor of 8
// applied, so precision 10 sizes to 4 bytes. Column order depends on these
// sizes and must stay stable across releases.
func DecimalBytes(precision int) int {
	return int(math.Ceil(float64(precision) / Log2Of10))
}
