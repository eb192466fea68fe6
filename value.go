// value.go — the Linger runtime value model.
package linger

// ValueTag discriminates the runtime value kinds.
type ValueTag int

const (
	VTNil ValueTag = iota
	VTNum
	VTBool
	VTStr
	VTList
	VTProc
)

// Value is a tagged runtime value. Data holds float64 (VTNum), bool (VTBool),
// string (VTStr), []Value (VTList) or *Proc (VTProc); it is nil for VTNil.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the void/nil value: the result of statements that produce nothing
// and of procedures that fall off the end of their body.
var Nil = Value{Tag: VTNil}

func NumVal(n float64) Value   { return Value{Tag: VTNum, Data: n} }
func BoolVal(b bool) Value     { return Value{Tag: VTBool, Data: b} }
func StrVal(s string) Value    { return Value{Tag: VTStr, Data: s} }
func ListVal(vs []Value) Value { return Value{Tag: VTList, Data: vs} }
func ProcVal(p *Proc) Value    { return Value{Tag: VTProc, Data: p} }

func (v Value) Num() float64   { return v.Data.(float64) }
func (v Value) Bool() bool     { return v.Data.(bool) }
func (v Value) Str() string    { return v.Data.(string) }
func (v Value) List() []Value  { return v.Data.([]Value) }
func (v Value) ProcRef() *Proc { return v.Data.(*Proc) }

// Proc is a procedure value: a top-level procedure resolved by name or an
// evaluated lambda. Env is the captured snapshot taken when the value was
// created; for top-level procedures it holds only the procedure table. Later
// mutation of the defining scope is invisible through Env.
type Proc struct {
	Params []string
	Body   *Block
	Env    *Environment
}
