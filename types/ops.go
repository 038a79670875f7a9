package types

// RemoveForall strips any leading quantifiers from t.
func RemoveForall(t Type) Type {
	for {
		f, ok := t.(*Forall)
		if !ok {
			return t
		}
		t = f.Body
	}
}

// ArgTypes returns the argument types of the curried function chain of t.
func ArgTypes(t Type) []Type {
	var args []Type
	t = RemoveForall(t)
	for {
		fn, ok := t.(*Function)
		if !ok {
			return args
		}
		args = append(args, fn.Arg)
		t = RemoveForall(fn.Ret)
	}
}

// NthArg returns the type of the n-th (0-based) parameter in the function
// chain of t.
func NthArg(t Type, n int) (Type, bool) {
	if t == nil || n < 0 {
		return nil, false
	}
	args := ArgTypes(t)
	if n >= len(args) {
		return nil, false
	}
	return args[n], true
}

// ReturnType strips n arguments from the function chain of t.
func ReturnType(t Type, n int) Type {
	t = RemoveForall(t)
	for ; n > 0; n-- {
		fn, ok := t.(*Function)
		if !ok {
			return t
		}
		t = RemoveForall(fn.Ret)
	}
	return t
}

// Payload returns the value carried by a monadic type: the last argument of
// an applied constructor, as in Option Int -> Int.
func Payload(t Type) (Type, bool) {
	app, ok := RemoveForall(t).(*App)
	if !ok || len(app.Args) == 0 {
		return nil, false
	}
	return app.Args[len(app.Args)-1], true
}

// FieldType looks up a record field by name.
func FieldType(t Type, name string) (Type, bool) {
	rec, ok := RemoveForall(t).(*Record)
	if !ok {
		return nil, false
	}
	for _, f := range rec.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Fields returns the record fields of t, expanding a type alias through env
// when t names one. It returns nil when t is not a record.
func Fields(env Env, t Type) []Field {
	seen := map[string]bool{}
	for t != nil {
		switch tt := RemoveForall(t).(type) {
		case *Record:
			return tt.Fields
		case *Con:
			if env == nil || seen[tt.Name] {
				return nil
			}
			seen[tt.Name] = true
			alias, ok := env.FindAlias(tt.Name)
			if !ok {
				return nil
			}
			t = alias
		case *App:
			con, ok := tt.Head.(*Con)
			if !ok || env == nil || seen[con.Name] {
				return nil
			}
			seen[con.Name] = true
			alias, ok := env.FindAlias(con.Name)
			if !ok {
				return nil
			}
			t = alias
		default:
			return nil
		}
	}
	return nil
}
