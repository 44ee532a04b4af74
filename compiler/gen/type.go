package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/sqlmap/schema"
)

// TypeKind distinguishes named types from composite ones.
type TypeKind uint8

// Type kinds.
const (
	KindNamed TypeKind = iota
	KindPointer
	KindSlice
)

// Type references a Go type used by a generated artifact.
type Type struct {
	Kind    TypeKind
	PkgPath string  // named types only, empty for builtins and local types
	Name    string  // named types only
	Args    []*Type // type arguments of a generic named type
	Elem    *Type   // pointer and slice element
}

// Common types.
var (
	ContextType = Named("context", "Context")
	ErrorType   = Builtin("error")
	Int64Type   = Builtin("int64")
)

// Named returns a reference to a named type declared in pkg. An empty pkg
// refers to the package being generated.
func Named(pkg, name string, args ...*Type) *Type {
	return &Type{Kind: KindNamed, PkgPath: pkg, Name: name, Args: args}
}

// Builtin returns a reference to a predeclared type.
func Builtin(name string) *Type {
	return &Type{Kind: KindNamed, Name: name}
}

// PointerTo returns *t.
func PointerTo(t *Type) *Type {
	return &Type{Kind: KindPointer, Elem: t}
}

// SliceOf returns []t.
func SliceOf(t *Type) *Type {
	return &Type{Kind: KindSlice, Elem: t}
}

// ColumnType returns the field type of a column: nullable columns are
// pointers, except for slices which already have a nil value.
func ColumnType(c *schema.Column) *Type {
	g := c.Type.GoType()
	t := Named(g.PkgPath, g.Name)
	switch {
	case g.Slice:
		return SliceOf(t)
	case c.Nullable && g.Name != "any":
		return PointerTo(t)
	}
	return t
}

// Deref returns the element of a pointer type, or t itself.
func (t *Type) Deref() *Type {
	if t != nil && t.Kind == KindPointer {
		return t.Elem
	}
	return t
}

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool { return t != nil && t.Kind == KindPointer }

// IsSlice reports whether t is a slice type.
func (t *Type) IsSlice() bool { return t != nil && t.Kind == KindSlice }

// Equal reports whether two references denote the same type.
func (t *Type) Equal(u *Type) bool {
	if t == nil || u == nil {
		return t == u
	}
	return t.String() == u.String()
}

// Clone returns a deep copy of the reference.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = t.Elem.Clone()
	if t.Args != nil {
		c.Args = make([]*Type, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	return &c
}

// String returns the type as written in Go source, qualified by the full
// package path.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindPointer:
		return "*" + t.Elem.String()
	case KindSlice:
		return "[]" + t.Elem.String()
	}
	var b strings.Builder
	if t.PkgPath != "" {
		b.WriteString(t.PkgPath)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Code returns the jennifer representation of the reference.
func (t *Type) Code() jen.Code {
	switch t.Kind {
	case KindPointer:
		return jen.Op("*").Add(t.Elem.Code())
	case KindSlice:
		return jen.Index().Add(t.Elem.Code())
	}
	var s *jen.Statement
	if t.PkgPath == "" {
		s = jen.Id(t.Name)
	} else {
		s = jen.Qual(t.PkgPath, t.Name)
	}
	if len(t.Args) > 0 {
		args := make([]jen.Code, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Code()
		}
		s = s.Types(args...)
	}
	return s
}
