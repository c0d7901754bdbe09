// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes kernel construction errors.
type ErrorKind uint8

const (
	// ErrTypeMismatch indicates operand types that no functor accepts.
	ErrTypeMismatch ErrorKind = iota

	// ErrSwizzle indicates a malformed swizzle or write mask.
	ErrSwizzle

	// ErrConstantRange indicates a host constant that does not fit the lifted type.
	ErrConstantRange

	// ErrAddress indicates an address built from a non-scalar or non-numeric expression.
	ErrAddress

	// ErrState indicates a Source method called in the wrong lifecycle state.
	ErrState

	// ErrFlowControl indicates unbalanced or misplaced loop/branch statements.
	ErrFlowControl

	// ErrResourceLimit indicates a resource slot beyond the device capabilities.
	ErrResourceLimit
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrSwizzle:
		return "Swizzle"
	case ErrConstantRange:
		return "ConstantRange"
	case ErrAddress:
		return "Address"
	case ErrState:
		return "State"
	case ErrFlowControl:
		return "FlowControl"
	case ErrResourceLimit:
		return "ResourceLimit"
	default:
		return "Unknown"
	}
}

// Error represents an IL construction error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("il %s: %s", e.Kind, e.Message)
}

// NewError creates a new IL error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrorList collects every error found while validating an expression tree.
type ErrorList []*Error

// Error joins all messages, one per line.
func (l ErrorList) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(l))
	for _, e := range l {
		sb.WriteString("\n\t")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
