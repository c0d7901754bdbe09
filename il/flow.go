// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// blockKind identifies an open flow-control block.
type blockKind uint8

const (
	blockLoop blockKind = iota
	blockIf
	blockElse
)

func (k blockKind) String() string {
	switch k {
	case blockLoop:
		return "whileloop"
	case blockIf:
		return "if"
	default:
		return "else"
	}
}

type flowFrame struct {
	kind blockKind
}

func (s *Source) push(k blockKind) {
	s.flow = append(s.flow, flowFrame{kind: k})
}

func (s *Source) top() (blockKind, bool) {
	if len(s.flow) == 0 {
		return 0, false
	}
	return s.flow[len(s.flow)-1].kind, true
}

// inLoop reports whether any open block is a loop.
func (s *Source) inLoop() bool {
	for _, f := range s.flow {
		if f.kind == blockLoop {
			return true
		}
	}
	return false
}

// condition evaluates a Bool1 condition and returns its operand text.
func (s *Source) condition(op string, cond Expr) (string, bool) {
	if err := s.validate(cond); err != nil {
		s.fail(err)
		return "", false
	}
	if t := cond.Type(); t != Bool1 {
		s.fail(errorf(ErrTypeMismatch, "%s: condition must be %s, got %s", op, Bool1, t))
		return "", false
	}
	return s.emitter().expr(cond).String(), true
}

// WhileLoop opens a loop. The loop runs until a BreakC or Break inside it
// leaves it.
func (s *Source) WhileLoop() {
	if !s.building("whileloop") {
		return
	}
	s.push(blockLoop)
	s.write("whileloop\n")
}

// EndLoop closes the innermost loop.
func (s *Source) EndLoop() {
	if !s.building("endloop") {
		return
	}
	if k, ok := s.top(); !ok || k != blockLoop {
		s.fail(errorf(ErrFlowControl, "endloop without matching whileloop"))
		return
	}
	s.flow = s.flow[:len(s.flow)-1]
	s.write("endloop\n")
}

// BreakC leaves the innermost loop when cond, a Bool1, is true.
func (s *Source) BreakC(cond Expr) {
	if !s.building("break_logicalnz") {
		return
	}
	if !s.inLoop() {
		s.fail(errorf(ErrFlowControl, "break_logicalnz outside a loop"))
		return
	}
	if c, ok := s.condition("break_logicalnz", cond); ok {
		s.write(instr("break_logicalnz", c))
	}
}

// Break leaves the innermost loop.
func (s *Source) Break() {
	if !s.building("break") {
		return
	}
	if !s.inLoop() {
		s.fail(errorf(ErrFlowControl, "break outside a loop"))
		return
	}
	s.write("break\n")
}

// Continue starts the next iteration of the innermost loop.
func (s *Source) Continue() {
	if !s.building("continue") {
		return
	}
	if !s.inLoop() {
		s.fail(errorf(ErrFlowControl, "continue outside a loop"))
		return
	}
	s.write("continue\n")
}

// If opens a conditional block executed when cond, a Bool1, is true.
func (s *Source) If(cond Expr) {
	if !s.building("if_logicalnz") {
		return
	}
	c, ok := s.condition("if_logicalnz", cond)
	if !ok {
		return
	}
	s.push(blockIf)
	s.write(instr("if_logicalnz", c))
}

// Else switches the innermost conditional block to its alternative.
func (s *Source) Else() {
	if !s.building("else") {
		return
	}
	if k, ok := s.top(); !ok || k != blockIf {
		s.fail(errorf(ErrFlowControl, "else without matching if"))
		return
	}
	s.flow[len(s.flow)-1].kind = blockElse
	s.write("else\n")
}

// EndIf closes the innermost conditional block.
func (s *Source) EndIf() {
	if !s.building("endif") {
		return
	}
	if k, ok := s.top(); !ok || k == blockLoop {
		s.fail(errorf(ErrFlowControl, "endif without matching if"))
		return
	}
	s.flow = s.flow[:len(s.flow)-1]
	s.write("endif\n")
}
