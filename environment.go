// environment.go — name bindings, mutability, and snapshot scoping.
//
// An Environment maps names to bindings and holds the top-level procedure
// table. Blocks and calls get a snapshot copy of the caller's bindings
// (Child), not a parent pointer; when a block finishes, only reassignments of
// names that already existed in the parent are merged back
// (MergeReassignments). New let/const bindings die with their block, and a
// closure's captured snapshot never observes later mutation of the defining
// scope. Those two observable behaviors are the whole point of this design.
package linger

import "maps"

// Mutability tags a binding as reassignable or constant.
type Mutability int

const (
	Mutable Mutability = iota
	Constant
)

// assignKind records write provenance: whether the binding still holds its
// initial value or has been reassigned since. MergeReassignments keys off it.
type assignKind int

const (
	initialized assignKind = iota
	reassigned
)

type binding struct {
	value  Value
	assign assignKind
	mut    Mutability
}

// Environment is one scope's view of the world. values is owned by this
// scope; procs is the program-wide procedure table and is shared read-only by
// every scope and snapshot.
type Environment struct {
	procs  map[string]*Procedure
	values map[string]binding
}

// NewEnvironment creates the program's root environment over the given
// top-level procedures.
func NewEnvironment(procs []*Procedure) *Environment {
	table := make(map[string]*Procedure, len(procs))
	for _, p := range procs {
		table[p.Name] = p
	}
	return &Environment{procs: table, values: make(map[string]binding)}
}

// Get resolves name to a value. Ordinary bindings shadow procedures. A
// top-level procedure resolves to a fresh procedure value whose captured
// environment holds only the procedure table, so recursion and mutual
// recursion work but no caller state leaks in.
func (e *Environment) Get(name string) (Value, error) {
	if b, ok := e.values[name]; ok {
		return b.value, nil
	}
	if p, ok := e.procs[name]; ok {
		return ProcVal(&Proc{
			Params: p.Params,
			Body:   p.Body,
			Env:    &Environment{procs: e.procs, values: make(map[string]binding)},
		}), nil
	}
	return Nil, errUnknownVariable(name)
}

// InsertNew creates a fresh binding in this scope, shadowing any same-named
// binding the snapshot carried in. It never fails.
func (e *Environment) InsertNew(name string, v Value, mut Mutability) {
	e.values[name] = binding{value: v, assign: initialized, mut: mut}
}

// Reassign overwrites an existing mutable binding and marks it reassigned.
func (e *Environment) Reassign(name string, v Value) error {
	b, ok := e.values[name]
	if !ok {
		if _, isProc := e.procs[name]; isProc {
			return errReassignTopLevelProc(name)
		}
		return errUnknownVariable(name)
	}
	if b.mut == Constant {
		return errReassignConstant(name)
	}
	e.values[name] = binding{value: v, assign: reassigned, mut: Mutable}
	return nil
}

// Child produces the snapshot scope used for blocks and calls: a value-copy
// of every current binding, sharing the procedure table.
func (e *Environment) Child() *Environment {
	return &Environment{procs: e.procs, values: maps.Clone(e.values)}
}

// Clone is the closure-capture snapshot. It is the same copy Child makes; the
// separate name keeps call sites honest about why the copy exists.
func (e *Environment) Clone() *Environment { return e.Child() }

// MergeReassignments writes the child snapshot's reassignments back into e.
// Only names present in both scopes propagate; bindings introduced inside the
// child are dropped. The write-back goes through Reassign, so a child that
// shadowed a constant with a mutable binding and reassigned the shadow fails
// here with ReassignConstant instead of silently mutating the constant.
func (e *Environment) MergeReassignments(child *Environment) error {
	for name, b := range child.values {
		if b.assign != reassigned {
			continue
		}
		if _, ok := e.values[name]; !ok {
			continue
		}
		if err := e.Reassign(name, b.value); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of value bindings in this scope. Test helper.
func (e *Environment) Len() int { return len(e.values) }
