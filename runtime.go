// runtime.go — the process-wide mutable store the evaluator executes
// against: variables, procedures, and open socket handles, each a flat
// global namespace. There is no lexical scoping anywhere in the language.
//
// The runtime has no internal locking. That is sound because there is
// exactly one evaluation goroutine; sharing a Runtime across goroutines
// is not supported.
package minilux

import "net"

// Runtime is the global mutable state of one interpreter.
type Runtime struct {
	variables map[string]Value
	functions map[string][]Stmt
	sockets   map[string]net.Conn
}

// NewRuntime returns an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		variables: make(map[string]Value),
		functions: make(map[string][]Stmt),
		sockets:   make(map[string]net.Conn),
	}
}

// GetVar returns a deep copy of the variable's value, or Nil when the
// name was never assigned. Returned values never alias the stored slot.
func (r *Runtime) GetVar(name string) Value {
	if v, ok := r.variables[name]; ok {
		return v.Clone()
	}
	return Nil
}

// SetVar stores a deep copy under name, creating the slot on first
// assignment and overwriting thereafter. Variables are never deleted.
func (r *Runtime) SetVar(name string, v Value) {
	r.variables[name] = v.Clone()
}

// DefineFunc (re)binds a procedure body under name. Procedures share one
// global namespace; a redefinition overwrites silently.
func (r *Runtime) DefineFunc(name string, body []Stmt) {
	r.functions[name] = body
}

// Func looks up a procedure body.
func (r *Runtime) Func(name string) ([]Stmt, bool) {
	body, ok := r.functions[name]
	return body, ok
}

// Socket returns the open connection registered under name, if any. The
// runtime owns the handle exclusively from open to close.
func (r *Runtime) Socket(name string) (net.Conn, bool) {
	c, ok := r.sockets[name]
	return c, ok
}

// SetSocket registers an open connection under name, replacing any prior
// handle of the same name.
func (r *Runtime) SetSocket(name string, c net.Conn) {
	r.sockets[name] = c
}

// RemoveSocket forgets the handle. The connection itself is closed by the
// caller; a handle never removed leaks for the process lifetime.
func (r *Runtime) RemoveSocket(name string) {
	delete(r.sockets, name)
}

// HasSocket reports whether a handle is registered under name.
func (r *Runtime) HasSocket(name string) bool {
	_, ok := r.sockets[name]
	return ok
}
