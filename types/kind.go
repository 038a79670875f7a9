package types

// Kind classifies a type-level expression: Type for inhabited types,
// Type -> Type for unary constructors such as Option, Row for record rows.
type Kind interface {
	String() string
	kindNode()
}

// Star is the kind of inhabited types, printed "Type".
type Star struct{}

// Row is the kind of record and variant rows.
type Row struct{}

// KindFunction is the kind of a type constructor, From -> To.
type KindFunction struct {
	From Kind
	To   Kind
}

// KindVar is an unsolved kind variable.
type KindVar struct {
	Name string
}

func (*Star) kindNode()         {}
func (*Row) kindNode()          {}
func (*KindFunction) kindNode() {}
func (*KindVar) kindNode()      {}

func (*Star) String() string      { return "Type" }
func (*Row) String() string       { return "Row" }
func (k *KindVar) String() string { return k.Name }

func (k *KindFunction) String() string {
	from := k.From.String()
	if _, ok := k.From.(*KindFunction); ok {
		from = "(" + from + ")"
	}
	return from + " -> " + k.To.String()
}

// Typ returns the kind Type.
func Typ() Kind { return &Star{} }

// KindFunc returns the kind from -> to.
func KindFunc(from, to Kind) Kind { return &KindFunction{From: from, To: to} }

// KindArity returns the kind Type -> ... -> Type taking n arguments.
func KindArity(n int) Kind {
	k := Typ()
	for ; n > 0; n-- {
		k = KindFunc(Typ(), k)
	}
	return k
}
