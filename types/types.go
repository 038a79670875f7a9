// Package types holds the semantic type and kind values attached to a checked
// syntax tree. The values are produced by an external checker; this module
// only reads, prints and forwards them.
package types

import "strings"

// Type is the type the checker assigned to an expression or pattern.
type Type interface {
	String() string
	typeNode()
}

// Con is a named type constructor such as Int, String or Option.
type Con struct {
	Name string
}

// Var is a type variable such as a or a0.
type Var struct {
	Name string
}

// Function is a single curried arrow Arg -> Ret.
type Function struct {
	Arg Type
	Ret Type
}

// App applies a type constructor to arguments, as in Option Int.
type App struct {
	Head Type
	Args []Type
}

// Field is a named member of a record or variant type.
type Field struct {
	Name string
	Type Type
}

// Record is a structural record type { x : Int, y : String }.
type Record struct {
	Fields []Field
}

// Variant is a sum type; each field is a constructor whose Type is the
// constructor's function type (or the result type for nullary constructors).
type Variant struct {
	Ctors []Field
}

// Tuple is an anonymous product (a, b).
type Tuple struct {
	Elems []Type
}

// Forall quantifies Params over Body.
type Forall struct {
	Params []string
	Body   Type
}

func (*Con) typeNode()      {}
func (*Var) typeNode()      {}
func (*Function) typeNode() {}
func (*App) typeNode()      {}
func (*Record) typeNode()   {}
func (*Variant) typeNode()  {}
func (*Tuple) typeNode()    {}
func (*Forall) typeNode()   {}

// NewCon returns the type constructor name.
func NewCon(name string) *Con { return &Con{Name: name} }

// NewVar returns the type variable name.
func NewVar(name string) *Var { return &Var{Name: name} }

// Func builds the curried function type args[0] -> ... -> ret.
func Func(args []Type, ret Type) Type {
	out := ret
	for i := len(args) - 1; i >= 0; i-- {
		out = &Function{Arg: args[i], Ret: out}
	}
	return out
}

// NewApp applies head to args.
func NewApp(head Type, args ...Type) *App { return &App{Head: head, Args: args} }

// NewRecord builds a record type from fields.
func NewRecord(fields ...Field) *Record { return &Record{Fields: fields} }

// Builtin constructors.
func Int() Type    { return NewCon("Int") }
func Float() Type  { return NewCon("Float") }
func String() Type { return NewCon("String") }
func Char() Type   { return NewCon("Char") }
func Byte() Type   { return NewCon("Byte") }
func Bool() Type   { return NewCon("Bool") }

// Unit is the empty tuple type ().
func Unit() Type { return &Tuple{} }

func (t *Con) String() string { return t.Name }
func (t *Var) String() string { return t.Name }

func (t *Function) String() string {
	arg := t.Arg.String()
	switch t.Arg.(type) {
	case *Function, *Forall:
		arg = "(" + arg + ")"
	}
	return arg + " -> " + t.Ret.String()
}

func (t *App) String() string {
	parts := make([]string, 0, len(t.Args)+1)
	parts = append(parts, t.Head.String())
	for _, a := range t.Args {
		s := a.String()
		switch a.(type) {
		case *Function, *App, *Forall:
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (t *Record) String() string {
	if len(t.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + " : " + f.Type.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (t *Variant) String() string {
	parts := make([]string, len(t.Ctors))
	for i, c := range t.Ctors {
		args := ArgTypes(c.Type)
		s := c.Name
		for _, a := range args {
			as := a.String()
			switch a.(type) {
			case *Function, *App, *Forall:
				as = "(" + as + ")"
			}
			s += " " + as
		}
		parts[i] = "| " + s
	}
	return strings.Join(parts, " ")
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Forall) String() string {
	return "forall " + strings.Join(t.Params, " ") + " . " + t.Body.String()
}
