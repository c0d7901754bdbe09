// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// Builders compose expression nodes and never emit instructions. A builder
// given operands no functor accepts returns a node whose Type is Invalid;
// the error is reported when the tree is validated, assigned or evaluated.
//
// Every binary operation X comes in three forms: X(a, b) on two
// expressions, XK(a, k) and KX(k, a) with a host constant lifted to the
// type of the expression operand.

// lift converts a host constant to a literal of the type of like. An
// invalid like yields an invalid literal without an error of its own.
func lift[T Number](k T, like ValueType) Expr {
	if !like.Valid() {
		return &Literal{t: Invalid}
	}
	return Const(like, k)
}

// widest returns the type of the widest expression, or Invalid when any
// of them is invalid.
func widest(es ...Expr) ValueType {
	var t ValueType
	for _, e := range es {
		et := e.Type()
		if !et.Valid() {
			return Invalid
		}
		if et.Components > t.Components {
			t = et
		}
	}
	return t
}

// Neg returns -x.
func Neg(x Expr) *Unary { return newUnary(OpNeg, x) }

// BitNot returns the bitwise complement of an integer x.
func BitNot(x Expr) *Unary { return newUnary(OpBitNot, x) }

// Not returns the logical negation of a bool x.
func Not(x Expr) *Unary { return newUnary(OpNot, x) }

// Abs returns |x|.
func Abs(x Expr) *Unary { return newUnary(OpAbs, x) }

// Sqrt returns the square root of a float x.
func Sqrt(x Expr) *Unary { return newUnary(OpSqrt, x) }

// Rsqrt returns 1/sqrt(x) for a float x.
func Rsqrt(x Expr) *Unary { return newUnary(OpRsqrt, x) }

// Floor rounds a float x toward negative infinity.
func Floor(x Expr) *Unary { return newUnary(OpFloor, x) }

// Ceil rounds a float x toward positive infinity.
func Ceil(x Expr) *Unary { return newUnary(OpCeil, x) }

// Fract returns x - Floor(x).
func Fract(x Expr) *Unary { return newUnary(OpFract, x) }

// Cast converts the value of x to t, component by component.
func Cast(t ValueType, x Expr) *Unary { return newConversion(OpCast, t, x) }

// Bitcast reinterprets the bits of x as t. Both must occupy the same
// number of register lanes.
func Bitcast(t ValueType, x Expr) *Unary { return newConversion(OpBitcast, t, x) }

// Add returns a + b.
func Add(a, b Expr) *Binary              { return newBinary(OpAdd, a, b) }
func AddK[T Number](a Expr, k T) *Binary { return newBinary(OpAdd, a, lift(k, a.Type())) }
func KAdd[T Number](k T, a Expr) *Binary { return newBinary(OpAdd, lift(k, a.Type()), a) }

// Sub returns a - b.
func Sub(a, b Expr) *Binary              { return newBinary(OpSub, a, b) }
func SubK[T Number](a Expr, k T) *Binary { return newBinary(OpSub, a, lift(k, a.Type())) }
func KSub[T Number](k T, a Expr) *Binary { return newBinary(OpSub, lift(k, a.Type()), a) }

// Mul returns a * b.
func Mul(a, b Expr) *Binary              { return newBinary(OpMul, a, b) }
func MulK[T Number](a Expr, k T) *Binary { return newBinary(OpMul, a, lift(k, a.Type())) }
func KMul[T Number](k T, a Expr) *Binary { return newBinary(OpMul, lift(k, a.Type()), a) }

// Div returns a / b.
func Div(a, b Expr) *Binary              { return newBinary(OpDiv, a, b) }
func DivK[T Number](a Expr, k T) *Binary { return newBinary(OpDiv, a, lift(k, a.Type())) }
func KDiv[T Number](k T, a Expr) *Binary { return newBinary(OpDiv, lift(k, a.Type()), a) }

// Mod returns a mod b, floored for floats.
func Mod(a, b Expr) *Binary              { return newBinary(OpMod, a, b) }
func ModK[T Number](a Expr, k T) *Binary { return newBinary(OpMod, a, lift(k, a.Type())) }
func KMod[T Number](k T, a Expr) *Binary { return newBinary(OpMod, lift(k, a.Type()), a) }

// Min returns the lesser of a and b.
func Min(a, b Expr) *Binary              { return newBinary(OpMin, a, b) }
func MinK[T Number](a Expr, k T) *Binary { return newBinary(OpMin, a, lift(k, a.Type())) }
func KMin[T Number](k T, a Expr) *Binary { return newBinary(OpMin, lift(k, a.Type()), a) }

// Max returns the greater of a and b.
func Max(a, b Expr) *Binary              { return newBinary(OpMax, a, b) }
func MaxK[T Number](a Expr, k T) *Binary { return newBinary(OpMax, a, lift(k, a.Type())) }
func KMax[T Number](k T, a Expr) *Binary { return newBinary(OpMax, lift(k, a.Type()), a) }

// And returns a & b.
func And(a, b Expr) *Binary              { return newBinary(OpAnd, a, b) }
func AndK[T Number](a Expr, k T) *Binary { return newBinary(OpAnd, a, lift(k, a.Type())) }
func KAnd[T Number](k T, a Expr) *Binary { return newBinary(OpAnd, lift(k, a.Type()), a) }

// Or returns a | b.
func Or(a, b Expr) *Binary              { return newBinary(OpOr, a, b) }
func OrK[T Number](a Expr, k T) *Binary { return newBinary(OpOr, a, lift(k, a.Type())) }
func KOr[T Number](k T, a Expr) *Binary { return newBinary(OpOr, lift(k, a.Type()), a) }

// Xor returns a ^ b.
func Xor(a, b Expr) *Binary              { return newBinary(OpXor, a, b) }
func XorK[T Number](a Expr, k T) *Binary { return newBinary(OpXor, a, lift(k, a.Type())) }
func KXor[T Number](k T, a Expr) *Binary { return newBinary(OpXor, lift(k, a.Type()), a) }

// Shl returns a << b.
func Shl(a, b Expr) *Binary              { return newBinary(OpShl, a, b) }
func ShlK[T Number](a Expr, k T) *Binary { return newBinary(OpShl, a, lift(k, a.Type())) }
func KShl[T Number](k T, a Expr) *Binary { return newBinary(OpShl, lift(k, a.Type()), a) }

// Shr returns a >> b, arithmetic for int.
func Shr(a, b Expr) *Binary              { return newBinary(OpShr, a, b) }
func ShrK[T Number](a Expr, k T) *Binary { return newBinary(OpShr, a, lift(k, a.Type())) }
func KShr[T Number](k T, a Expr) *Binary { return newBinary(OpShr, lift(k, a.Type()), a) }

// Eq returns a == b.
func Eq(a, b Expr) *Binary              { return newBinary(OpEq, a, b) }
func EqK[T Number](a Expr, k T) *Binary { return newBinary(OpEq, a, lift(k, a.Type())) }
func KEq[T Number](k T, a Expr) *Binary { return newBinary(OpEq, lift(k, a.Type()), a) }

// Ne returns a != b.
func Ne(a, b Expr) *Binary              { return newBinary(OpNe, a, b) }
func NeK[T Number](a Expr, k T) *Binary { return newBinary(OpNe, a, lift(k, a.Type())) }
func KNe[T Number](k T, a Expr) *Binary { return newBinary(OpNe, lift(k, a.Type()), a) }

// Lt returns a < b.
func Lt(a, b Expr) *Binary              { return newBinary(OpLt, a, b) }
func LtK[T Number](a Expr, k T) *Binary { return newBinary(OpLt, a, lift(k, a.Type())) }
func KLt[T Number](k T, a Expr) *Binary { return newBinary(OpLt, lift(k, a.Type()), a) }

// Le returns a <= b.
func Le(a, b Expr) *Binary              { return newBinary(OpLe, a, b) }
func LeK[T Number](a Expr, k T) *Binary { return newBinary(OpLe, a, lift(k, a.Type())) }
func KLe[T Number](k T, a Expr) *Binary { return newBinary(OpLe, lift(k, a.Type()), a) }

// Gt returns a > b.
func Gt(a, b Expr) *Binary              { return newBinary(OpGt, a, b) }
func GtK[T Number](a Expr, k T) *Binary { return newBinary(OpGt, a, lift(k, a.Type())) }
func KGt[T Number](k T, a Expr) *Binary { return newBinary(OpGt, lift(k, a.Type()), a) }

// Ge returns a >= b.
func Ge(a, b Expr) *Binary              { return newBinary(OpGe, a, b) }
func GeK[T Number](a Expr, k T) *Binary { return newBinary(OpGe, a, lift(k, a.Type())) }
func KGe[T Number](k T, a Expr) *Binary { return newBinary(OpGe, lift(k, a.Type()), a) }

// Dot returns the dot product of two float2 or float4 vectors.
func Dot(a, b Expr) *Binary { return newBinary(OpDot, a, b) }

// MergeTypes concatenates the components of lo and hi. The result has lo's
// kind; hi is converted when its kind differs.
func MergeTypes(lo, hi Expr) *Binary { return newBinary(OpMerge, lo, hi) }

// MergeTypes4 concatenates four scalars into a four component vector.
func MergeTypes4(x, y, z, w Expr) *Binary {
	return MergeTypes(MergeTypes(x, y), MergeTypes(z, w))
}

// Mad returns a*b + c as one fused instruction.
func Mad(a, b, c Expr) *Ternary { return newTernary(OpMad, a, b, c) }

// MadKEE and the other Mad forms take host constants in the slots marked
// K. Constants are lifted to the type of the widest expression operand.
func MadKEE[T Number](k T, b, c Expr) *Ternary {
	return Mad(lift(k, widest(b, c)), b, c)
}

// MadEKE is Mad with a constant multiplier b.
func MadEKE[T Number](a Expr, k T, c Expr) *Ternary {
	return Mad(a, lift(k, widest(a, c)), c)
}

// MadEEK is Mad with a constant addend c.
func MadEEK[T Number](a, b Expr, k T) *Ternary {
	return Mad(a, b, lift(k, widest(a, b)))
}

// MadKKE is Mad with constant factors, lifted to the type of c.
func MadKKE[T, U Number](ka T, kb U, c Expr) *Ternary {
	t := c.Type()
	return Mad(lift(ka, t), lift(kb, t), c)
}

// MadKEK is Mad with constant a and c, lifted to the type of b.
func MadKEK[T, U Number](ka T, b Expr, kc U) *Ternary {
	t := b.Type()
	return Mad(lift(ka, t), b, lift(kc, t))
}

// MadEKK is Mad with constant b and c, lifted to the type of a.
func MadEKK[T, U Number](a Expr, kb T, kc U) *Ternary {
	t := a.Type()
	return Mad(a, lift(kb, t), lift(kc, t))
}

// Cmov returns a where cond is true and b elsewhere. cond is a bool
// scalar or has the width of the result.
func Cmov(cond, a, b Expr) *Ternary { return newTernary(OpSelect, cond, a, b) }

// BitAlign returns the 32 bits of the 64-bit value a:b shifted right by
// c&31, per component.
func BitAlign(a, b, c Expr) *Ternary { return newTernary(OpBitAlign, a, b, c) }

// BitAlignEEK is BitAlign with a constant shift.
func BitAlignEEK[T Number](a, b Expr, k T) *Ternary {
	return BitAlign(a, b, lift(k, uintLike(a)))
}

// ByteAlign is BitAlign with the shift counted in bytes.
func ByteAlign(a, b, c Expr) *Ternary { return newTernary(OpByteAlign, a, b, c) }

// ByteAlignEEK is ByteAlign with a constant shift.
func ByteAlignEEK[T Number](a, b Expr, k T) *Ternary {
	return ByteAlign(a, b, lift(k, uintLike(a)))
}

// BFI inserts the bits of b selected by mask a into c.
func BFI(a, b, c Expr) *Ternary { return newTernary(OpBFI, a, b, c) }

// BitExtract returns width bits of src starting at offset, sign extended
// for int sources.
func BitExtract(src, offset, width Expr) *Ternary {
	return newTernary(OpBitExtract, src, offset, width)
}

// BitExtractEKK is BitExtract with a constant offset and width.
func BitExtractEKK[T, U Number](src Expr, offset T, width U) *Ternary {
	t := uintLike(src)
	return BitExtract(src, lift(offset, t), lift(width, t))
}

// uintLike returns the uint type with e's component count.
func uintLike(e Expr) ValueType {
	t := e.Type()
	if !t.Valid() {
		return Invalid
	}
	return Vector(KindUint, int(t.Components))
}

// Select reads the components of e named by pattern, e.g. "yx" or "xxxx".
func Select(e Expr, pattern string) *Swizzled {
	p, err := ParseSwizzle(pattern)
	if err != nil {
		return &Swizzled{X: e, err: err.(*Error)}
	}
	return newSwizzled(e, p)
}

// Splat broadcasts the first component of e to n components.
func Splat(e Expr, n int) *Swizzled {
	if n < 1 || n > 4 {
		return &Swizzled{X: e, err: errorf(ErrSwizzle, "cannot broadcast to %d components", n)}
	}
	return newSwizzled(e, Broadcast(0, n))
}
