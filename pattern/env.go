package pattern

import "strings"

// Env is an immutable set of variable bindings from name to substituted text.
// The nil *Env is empty. With returns a new Env, so a Domain keeps seeing
// exactly the variables that existed when it was parsed.
type Env struct {
	parent *Env
	name   string
	value  string
}

// With returns an Env that additionally binds name to value.
func (e *Env) With(name, value string) *Env {
	return &Env{parent: e, name: strings.ToLower(name), value: value}
}

// Lookup resolves a variable name, case-insensitively.
func (e *Env) Lookup(name string) (string, bool) {
	name = strings.ToLower(name)
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.value, true
		}
	}

	return "", false
}

// Names returns the bound names in definition order.
func (e *Env) Names() []string {
	var names []string
	for cur := e; cur != nil; cur = cur.parent {
		names = append(names, cur.name)
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return names
}
