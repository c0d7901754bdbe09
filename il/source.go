// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// State is the lifecycle state of a Source.
type State uint8

const (
	Unstarted State = iota
	Building
	Finalized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Building:
		return "building"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Source is the compilation context of one kernel: the register counter,
// the literal table, the declared resources and the instruction stream.
//
// A Source is not safe for concurrent use. Kernels compiled in parallel
// need one Source each.
type Source struct {
	target   Target
	device   DeviceInfo
	threads  [3]int
	state    State
	gen      uint64
	err      error
	next     int
	code     strings.Builder
	instrs   int
	literals map[[4]uint32]int
	litOrder [][4]uint32
	inputs   map[int]ValueType
	cbs      map[int]int
	global   bool
	position bool
	flow     []flowFrame
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTarget selects the program kind.
func WithTarget(t Target) SourceOption {
	return func(s *Source) { s.target = t }
}

// WithDevice sets the device capabilities resources are checked against.
func WithDevice(d DeviceInfo) SourceOption {
	return func(s *Source) { s.device = d }
}

// WithThreadGroup sets the compute thread-group size.
func WithThreadGroup(x, y, z int) SourceOption {
	return func(s *Source) { s.threads = [3]int{x, y, z} }
}

// NewSource creates an unstarted compilation context.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		target:  PixelShader,
		device:  DefaultDevice(),
		threads: [3]int{64, 1, 1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the program kind.
func (s *Source) Target() Target { return s.target }

// State returns the lifecycle state.
func (s *Source) State() State { return s.state }

// Err returns the first error recorded since Begin.
func (s *Source) Err() error { return s.err }

// Begin starts a compilation unit, resetting registers, literals,
// resources and the instruction stream. A finalized Source may begin again.
func (s *Source) Begin() error {
	if s.state == Building {
		return errorf(ErrState, "begin: compilation unit already in progress")
	}
	s.state = Building
	s.gen++
	s.err = nil
	s.next = 0
	s.code.Reset()
	s.instrs = 0
	s.literals = make(map[[4]uint32]int)
	s.litOrder = nil
	s.inputs = make(map[int]ValueType)
	s.cbs = make(map[int]int)
	s.global = false
	s.position = false
	s.flow = nil
	return nil
}

// End finishes the compilation unit and returns the first error recorded
// while building it. The Source is finalized either way.
func (s *Source) End() error {
	if s.state != Building {
		return errorf(ErrState, "end: no compilation unit in progress (state %s)", s.state)
	}
	if len(s.flow) > 0 {
		s.fail(errorf(ErrFlowControl, "%d unterminated %s block(s)", len(s.flow), s.flow[len(s.flow)-1].kind))
	}
	s.checkResources()
	s.state = Finalized
	return s.err
}

func (s *Source) checkResources() {
	for slot := range s.inputs {
		if slot >= s.device.MaxInputs {
			s.fail(errorf(ErrResourceLimit, "input i%d exceeds %d input slots", slot, s.device.MaxInputs))
		}
	}
	for slot, size := range s.cbs {
		if slot >= s.device.MaxConstantBuffers {
			s.fail(errorf(ErrResourceLimit, "constant buffer cb%d exceeds %d buffers", slot, s.device.MaxConstantBuffers))
		}
		if size > s.device.MaxConstantBufferSize {
			s.fail(errorf(ErrResourceLimit, "constant buffer cb%d size %d exceeds %d", slot, size, s.device.MaxConstantBufferSize))
		}
	}
}

// fail records err unless an earlier error is already recorded.
func (s *Source) fail(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// building reports whether statements may be added, recording a state
// error for op otherwise.
func (s *Source) building(op string) bool {
	if s.state != Building {
		s.fail(errorf(ErrState, "%s: source is %s", op, s.state))
		return false
	}
	return s.err == nil
}

// Var declares a register-backed variable of type t.
func (s *Source) Var(t ValueType) *Variable {
	v := &Variable{t: t}
	if !t.Valid() {
		v.err = errorf(ErrTypeMismatch, "variable of invalid type")
		s.fail(v.err)
		return v
	}
	if !s.building("var") {
		return v
	}
	v.src, v.gen = s, s.gen
	v.reg = s.next
	s.next++
	v.op = Reg(regName(v.reg), t)
	return v
}

// Eval linearizes e into the instruction stream and returns the operand
// holding its value.
func (s *Source) Eval(e Expr) (Operand, error) {
	if !s.building("eval") {
		return Operand{}, s.errOrState()
	}
	if err := s.validate(e); err != nil {
		s.fail(err)
		return Operand{}, err
	}
	return s.emitter().expr(e), nil
}

func (s *Source) errOrState() error {
	if s.err != nil {
		return s.err
	}
	return errorf(ErrState, "source is %s", s.state)
}

// Assign evaluates e and stores it into dst. A scalar value may be
// assigned to a wider target of the same kind; it is broadcast.
func (s *Source) Assign(dst Assignable, e Expr) {
	if !s.building("assign") {
		return
	}
	if err := s.validateAssign(dst, e); err != nil {
		s.fail(err)
		return
	}
	dst.store(s.emitter(), e)
}

// Comment writes a comment line into the instruction stream. Line breaks
// in text are replaced by spaces.
func (s *Source) Comment(text string) {
	if !s.building("comment") {
		return
	}
	s.code.WriteString("; " + strings.ReplaceAll(text, "\n", " ") + "\n")
}

// Registers returns the number of registers allocated so far.
func (s *Source) Registers() int { return s.next }

// Instructions returns the number of instructions emitted so far.
func (s *Source) Instructions() int { return s.instrs }

// Literals returns the number of distinct literals declared.
func (s *Source) Literals() int { return len(s.litOrder) }

func (s *Source) emitter() *emitter { return &emitter{src: s} }

func (s *Source) write(text string) {
	s.code.WriteString(text)
	s.instrs += strings.Count(text, "\n")
}

// literal returns the l register holding bits, declaring it on first use.
func (s *Source) literal(bits [4]uint32) string {
	idx, ok := s.literals[bits]
	if !ok {
		idx = len(s.litOrder)
		s.literals[bits] = idx
		s.litOrder = append(s.litOrder, bits)
	}
	return fmt.Sprintf("l%d", idx)
}

func regName(i int) string {
	return fmt.Sprintf("r%d", i)
}

// Header returns the program header line and declarations.
func (s *Source) Header() string {
	if s.state != Finalized {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(s.target.String())
	sb.WriteByte('\n')
	if s.target == ComputeShader {
		fmt.Fprintf(&sb, "dcl_num_thread_per_group %d,%d,%d\n", s.threads[0], s.threads[1], s.threads[2])
	}
	for _, slot := range sortedKeys(s.cbs) {
		fmt.Fprintf(&sb, "dcl_cb cb%d[%d]\n", slot, s.cbs[slot])
	}
	for _, slot := range sortedKeys(s.inputs) {
		f := kindFormat(s.inputs[slot].Kind)
		fmt.Fprintf(&sb, "dcl_resource_id(%d)_type(2d,unnorm)_fmtx(%s)_fmty(%s)_fmtz(%s)_fmtw(%s)\n", slot, f, f, f, f)
	}
	if s.position {
		sb.WriteString("dcl_input_position_interp(linear_noperspective) vWinCoord0.xy__\n")
	}
	for i, bits := range s.litOrder {
		fmt.Fprintf(&sb, "dcl_literal l%d, 0x%08X, 0x%08X, 0x%08X, 0x%08X\n", i, bits[0], bits[1], bits[2], bits[3])
	}
	return sb.String()
}

// Code returns the instruction body terminated by "end".
func (s *Source) Code() string {
	if s.state != Finalized {
		return ""
	}
	return s.code.String() + "end\n"
}

// Program returns the complete program text of a finalized, error-free
// compilation unit.
func (s *Source) Program() (string, error) {
	if s.state != Finalized {
		return "", errorf(ErrState, "program: source is %s", s.state)
	}
	if s.err != nil {
		return "", s.err
	}
	return s.Header() + s.Code(), nil
}

// WriteTo writes the complete program text to w.
func (s *Source) WriteTo(w io.Writer) (int64, error) {
	text, err := s.Program()
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, text)
	return int64(n), err
}

func kindFormat(k BaseKind) string {
	switch k {
	case KindInt:
		return "sint"
	case KindUint:
		return "uint"
	default:
		return "float"
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
