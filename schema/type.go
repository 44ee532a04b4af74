package schema

import "strings"

// JDBCType is the type tag written into statement placeholders
// (#{Name,jdbcType=VARCHAR}).
type JDBCType string

// Supported type tags.
const (
	TypeBigInt        JDBCType = "BIGINT"
	TypeInteger       JDBCType = "INTEGER"
	TypeSmallInt      JDBCType = "SMALLINT"
	TypeTinyInt       JDBCType = "TINYINT"
	TypeBit           JDBCType = "BIT"
	TypeBoolean       JDBCType = "BOOLEAN"
	TypeDecimal       JDBCType = "DECIMAL"
	TypeNumeric       JDBCType = "NUMERIC"
	TypeDouble        JDBCType = "DOUBLE"
	TypeFloat         JDBCType = "FLOAT"
	TypeReal          JDBCType = "REAL"
	TypeChar          JDBCType = "CHAR"
	TypeVarchar       JDBCType = "VARCHAR"
	TypeLongVarchar   JDBCType = "LONGVARCHAR"
	TypeClob          JDBCType = "CLOB"
	TypeDate          JDBCType = "DATE"
	TypeTime          JDBCType = "TIME"
	TypeTimestamp     JDBCType = "TIMESTAMP"
	TypeBinary        JDBCType = "BINARY"
	TypeVarbinary     JDBCType = "VARBINARY"
	TypeLongVarbinary JDBCType = "LONGVARBINARY"
	TypeBlob          JDBCType = "BLOB"
	TypeOther         JDBCType = "OTHER"
)

// GoType describes the Go type a column maps to.
type GoType struct {
	PkgPath string // empty for builtin types
	Name    string
	Slice   bool
}

var goTypes = map[JDBCType]GoType{
	TypeBigInt:        {Name: "int64"},
	TypeInteger:       {Name: "int32"},
	TypeSmallInt:      {Name: "int16"},
	TypeTinyInt:       {Name: "int8"},
	TypeBit:           {Name: "bool"},
	TypeBoolean:       {Name: "bool"},
	TypeDecimal:       {Name: "string"},
	TypeNumeric:       {Name: "string"},
	TypeDouble:        {Name: "float64"},
	TypeFloat:         {Name: "float64"},
	TypeReal:          {Name: "float32"},
	TypeChar:          {Name: "string"},
	TypeVarchar:       {Name: "string"},
	TypeLongVarchar:   {Name: "string"},
	TypeClob:          {Name: "string"},
	TypeDate:          {PkgPath: "time", Name: "Time"},
	TypeTime:          {PkgPath: "time", Name: "Time"},
	TypeTimestamp:     {PkgPath: "time", Name: "Time"},
	TypeBinary:        {Name: "byte", Slice: true},
	TypeVarbinary:     {Name: "byte", Slice: true},
	TypeLongVarbinary: {Name: "byte", Slice: true},
	TypeBlob:          {Name: "byte", Slice: true},
	TypeOther:         {Name: "any"},
}

// GoType returns the Go type for the tag. Unknown tags map to any.
func (t JDBCType) GoType() GoType {
	if g, ok := goTypes[t]; ok {
		return g
	}
	return goTypes[TypeOther]
}

// IsTemporal reports whether values of the type carry a date or time.
func (t JDBCType) IsTemporal() bool {
	return t == TypeDate || t == TypeTime || t == TypeTimestamp
}

// IsLarge reports whether the type is a large object (BLOB-like) type.
func (t JDBCType) IsLarge() bool {
	switch t {
	case TypeBlob, TypeClob, TypeLongVarchar, TypeLongVarbinary:
		return true
	}
	return false
}

// ParseJDBCType maps a tag or a common database type name onto a JDBCType.
// Names are matched case-insensitively; sizes such as "(255)" are ignored.
func ParseJDBCType(s string) JDBCType {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	switch s {
	case "bigint", "int8", "bigserial", "serial8", "long":
		return TypeBigInt
	case "int", "integer", "int4", "serial", "mediumint":
		return TypeInteger
	case "smallint", "int2", "smallserial":
		return TypeSmallInt
	case "tinyint":
		return TypeTinyInt
	case "bit":
		return TypeBit
	case "bool", "boolean":
		return TypeBoolean
	case "decimal", "dec":
		return TypeDecimal
	case "numeric", "number":
		return TypeNumeric
	case "double", "double precision", "float8":
		return TypeDouble
	case "float":
		return TypeFloat
	case "real", "float4":
		return TypeReal
	case "char", "character", "nchar", "bpchar":
		return TypeChar
	case "varchar", "character varying", "nvarchar", "varchar2", "string", "uuid":
		return TypeVarchar
	case "text", "mediumtext", "longtext", "tinytext", "longvarchar", "json", "jsonb":
		return TypeLongVarchar
	case "clob":
		return TypeClob
	case "date":
		return TypeDate
	case "time", "time without time zone":
		return TypeTime
	case "timestamp", "datetime", "timestamptz", "timestamp with time zone", "timestamp without time zone":
		return TypeTimestamp
	case "binary":
		return TypeBinary
	case "varbinary", "bytea":
		return TypeVarbinary
	case "longvarbinary", "mediumblob", "longblob":
		return TypeLongVarbinary
	case "blob", "tinyblob":
		return TypeBlob
	}
	if t := JDBCType(strings.ToUpper(s)); goTypes[t] != (GoType{}) {
		return t
	}
	return TypeOther
}

// Placeholder formats a statement parameter placeholder. The type tag is
// written verbatim.
func Placeholder(property string, t JDBCType) string {
	return "#{" + property + ",jdbcType=" + string(t) + "}"
}
