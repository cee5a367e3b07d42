// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aten

import (
	"math"

	. "github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/compute/shapes"
	"github.com/gomlx/torch-gomlx/convert"
)

// Promote aligns two operands so they can be fed to a binary graph primitive:
// both are converted to PromoteTypes of their element types, and the
// lower-rank operand (if not a scalar) has size-1 axes prepended to match the
// other's rank. The graph ops broadcast size-1 and scalar axes themselves, so
// no explicit broadcast-dimension list is needed.
func Promote(a, b *graph.Node) (*graph.Node, *graph.Node) {
	dtype := PromoteTypes(a.DType(), b.DType())
	a = convert.MaybeTo(a, dtype)
	b = convert.MaybeTo(b, dtype)
	if a.Rank() < b.Rank() && !a.IsScalar() {
		a = graph.ExpandLeftToRank(a, b.Rank())
	} else if b.Rank() < a.Rank() && !b.IsScalar() {
		b = graph.ExpandLeftToRank(b, a.Rank())
	}
	return a, b
}

// PromoteTypes returns the element type that the result of a binary op between
// operands of types a and b takes, following PyTorch's promotion lattice:
// Bool < integers < floats < complex. Within a category the wider type wins;
// integers of mixed signedness promote to a signed type wide enough for the
// unsigned operand; distinct same-width float flavors (Float16 vs BFloat16)
// promote to the next wider float.
func PromoteTypes(a, b dtypes.DType) dtypes.DType {
	if a == b {
		return a
	}
	ca, cb := promotionCategory(a), promotionCategory(b)
	if ca < cb {
		a, b = b, a
		ca, cb = cb, ca
	}
	switch {
	case ca > cb:
		// Higher category wins; a complex result still widens its real part
		// to hold a float operand.
		if a.IsComplex() && b.IsFloat() {
			return complexForRealBits(max(a.RealDType().Bits(), b.Bits()))
		}
		return a
	case a.IsComplex():
		return complexForRealBits(max(a.RealDType().Bits(), b.RealDType().Bits()))
	case a.IsFloat():
		if a.Bits() == b.Bits() {
			return floatForBits(2 * a.Bits())
		}
		if a.Bits() > b.Bits() {
			return a
		}
		return b
	default: // Both integers.
		if a.IsUnsigned() == b.IsUnsigned() {
			if a.Bits() >= b.Bits() {
				return a
			}
			return b
		}
		signed, unsigned := a, b
		if a.IsUnsigned() {
			signed, unsigned = b, a
		}
		if signed.Bits() > unsigned.Bits() {
			return signed
		}
		return signedForBits(min(64, 2*unsigned.Bits()))
	}
}

// promotionCategory orders the dtype categories: Bool < int < float < complex.
func promotionCategory(dtype dtypes.DType) int {
	switch {
	case dtype == dtypes.Bool:
		return 0
	case dtype.IsInt():
		return 1
	case dtype.IsFloat():
		return 2
	case dtype.IsComplex():
		return 3
	}
	Panicf("aten: dtype %s cannot take part in type promotion", dtype)
	return -1
}

func signedForBits(bits int) dtypes.DType {
	switch bits {
	case 8:
		return dtypes.Int8
	case 16:
		return dtypes.Int16
	case 32:
		return dtypes.Int32
	default:
		return dtypes.Int64
	}
}

func floatForBits(bits int) dtypes.DType {
	switch bits {
	case 16:
		return dtypes.Float16
	case 32:
		return dtypes.Float32
	default:
		return dtypes.Float64
	}
}

func complexForRealBits(bits int) dtypes.DType {
	if bits >= 64 {
		return dtypes.Complex128
	}
	return dtypes.Complex64
}

// nanScalar returns a scalar NaN constant of the given (floating) dtype.
func nanScalar(g *graph.Graph, dtype dtypes.DType) *graph.Node {
	return graph.ConstAsDType(g, dtype, math.NaN())
}

// hasDynamicDims reports whether any of x's axes has an unbounded dynamic
// dimension.
func hasDynamicDims(x *graph.Node) bool {
	for _, dim := range x.Shape().Dimensions {
		if dim == shapes.DynamicDim {
			return true
		}
	}
	return false
}
