// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import "strings"

const laneNames = "xyzw"

// Swizzle selects 1 to 4 components of a vector, in any order and with
// repetition. The zero value selects nothing.
type Swizzle struct {
	sel [4]uint8
	n   uint8
}

// ParseSwizzle parses patterns such as "x", "xy", "wzyx" or "xxxx".
func ParseSwizzle(pattern string) (Swizzle, error) {
	if len(pattern) == 0 || len(pattern) > 4 {
		return Swizzle{}, errorf(ErrSwizzle, "swizzle %q must select 1 to 4 components", pattern)
	}
	var s Swizzle
	for i := 0; i < len(pattern); i++ {
		c := strings.IndexByte(laneNames, pattern[i])
		if c < 0 {
			return Swizzle{}, errorf(ErrSwizzle, "swizzle %q: invalid component %q", pattern, pattern[i])
		}
		s.sel[i] = uint8(c)
	}
	s.n = uint8(len(pattern))
	return s, nil
}

// Identity selects the first n components in order.
func Identity(n int) Swizzle {
	s := Swizzle{n: uint8(n)}
	for i := 0; i < n; i++ {
		s.sel[i] = uint8(i)
	}
	return s
}

// Broadcast replicates component c n times.
func Broadcast(c, n int) Swizzle {
	s := Swizzle{n: uint8(n)}
	for i := 0; i < n; i++ {
		s.sel[i] = uint8(c)
	}
	return s
}

// Len returns the number of selected components.
func (s Swizzle) Len() int { return int(s.n) }

// At returns the source component selected for output component i.
func (s Swizzle) At(i int) int { return int(s.sel[i]) }

// Max returns the highest source component referenced.
func (s Swizzle) Max() int {
	m := 0
	for i := 0; i < int(s.n); i++ {
		m = max(m, int(s.sel[i]))
	}
	return m
}

// IsIdentity reports whether s selects components 0..n-1 in order.
func (s Swizzle) IsIdentity() bool {
	for i := 0; i < int(s.n); i++ {
		if s.sel[i] != uint8(i) {
			return false
		}
	}
	return true
}

// Then returns the swizzle equivalent to applying s first and next on
// top of its result. next must only reference components s produces.
func (s Swizzle) Then(next Swizzle) Swizzle {
	out := Swizzle{n: next.n}
	for i := 0; i < int(next.n); i++ {
		out.sel[i] = s.sel[next.sel[i]]
	}
	return out
}

// String returns the pattern text, e.g. "xxyy".
func (s Swizzle) String() string {
	b := make([]byte, s.n)
	for i := range b {
		b[i] = laneNames[s.sel[i]]
	}
	return string(b)
}

// WriteMask is the set of register lanes an instruction updates.
type WriteMask uint8

// ParseWriteMask parses a lane set such as "xy" or "zw". Each lane may
// appear at most once.
func ParseWriteMask(lanes string) (WriteMask, error) {
	if len(lanes) == 0 || len(lanes) > 4 {
		return 0, errorf(ErrSwizzle, "write mask %q must name 1 to 4 lanes", lanes)
	}
	var m WriteMask
	for i := 0; i < len(lanes); i++ {
		c := strings.IndexByte(laneNames, lanes[i])
		if c < 0 {
			return 0, errorf(ErrSwizzle, "write mask %q: invalid lane %q", lanes, lanes[i])
		}
		if m&(1<<c) != 0 {
			return 0, errorf(ErrSwizzle, "write mask %q: lane %q repeated", lanes, lanes[i])
		}
		m |= 1 << c
	}
	return m, nil
}

// Count returns the number of lanes in the mask.
func (m WriteMask) Count() int {
	n := 0
	for c := 0; c < 4; c++ {
		if m&(1<<c) != 0 {
			n++
		}
	}
	return n
}

// Swizzle returns the mask lanes as an ascending selection.
func (m WriteMask) Swizzle() Swizzle {
	var s Swizzle
	for c := 0; c < 4; c++ {
		if m&(1<<c) != 0 {
			s.sel[s.n] = uint8(c)
			s.n++
		}
	}
	return s
}

// String returns the IL destination mask suffix, e.g. "x_z_".
func (m WriteMask) String() string {
	b := []byte("____")
	for c := 0; c < 4; c++ {
		if m&(1<<c) != 0 {
			b[c] = laneNames[c]
		}
	}
	return string(b)
}
