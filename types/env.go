package types

// Env is the read-only environment the checker resolved builtins against.
// It answers for names that are referenced in a tree but not bound in it.
type Env interface {
	// FindType returns the type of a free value name such as #Int+.
	FindType(name string) (Type, bool)
	// FindKind returns the kind of a free type name such as Int.
	FindKind(name string) (Kind, bool)
	// FindAlias returns the definition of a type alias.
	FindAlias(name string) (Type, bool)
}

// MapEnv is an Env backed by maps. The zero value is an empty environment.
type MapEnv struct {
	Types   map[string]Type
	Kinds   map[string]Kind
	Aliases map[string]Type
}

var _ Env = (*MapEnv)(nil)

// NewMapEnv returns an empty MapEnv ready for use.
func NewMapEnv() *MapEnv {
	return &MapEnv{
		Types:   map[string]Type{},
		Kinds:   map[string]Kind{},
		Aliases: map[string]Type{},
	}
}

func (e *MapEnv) FindType(name string) (Type, bool) {
	t, ok := e.Types[name]
	return t, ok
}

func (e *MapEnv) FindKind(name string) (Kind, bool) {
	k, ok := e.Kinds[name]
	return k, ok
}

func (e *MapEnv) FindAlias(name string) (Type, bool) {
	t, ok := e.Aliases[name]
	return t, ok
}

// Builtins returns an environment with the primitive types and the
// primitive arithmetic and comparison operators (#Int+, #Float==, ...).
func Builtins() *MapEnv {
	env := NewMapEnv()
	for _, name := range []string{"Int", "Float", "String", "Char", "Byte", "Bool"} {
		env.Kinds[name] = Typ()
	}
	env.Kinds["Array"] = KindArity(1)
	env.Kinds["IO"] = KindArity(1)

	for _, prim := range []struct {
		name string
		typ  func() Type
	}{
		{"Int", Int},
		{"Float", Float},
		{"Byte", Byte},
	} {
		for _, op := range []string{"+", "-", "*", "/"} {
			env.Types["#"+prim.name+op] = Func([]Type{prim.typ(), prim.typ()}, prim.typ())
		}
		for _, op := range []string{"==", "<"} {
			env.Types["#"+prim.name+op] = Func([]Type{prim.typ(), prim.typ()}, Bool())
		}
	}
	env.Types["#Char=="] = Func([]Type{Char(), Char()}, Bool())
	env.Types["#String=="] = Func([]Type{String(), String()}, Bool())
	return env
}
