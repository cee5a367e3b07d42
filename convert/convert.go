// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package convert implements element-type conversions of graph values,
// including the "raw" conversions that emulate values whose logical dtype is
// wider than the storage slot they live in (e.g. an Int64 value stored in an
// Int8 buffer), as done by PyTorch/XLA.
//
// All functions are pure graph constructors: they never execute numerically,
// they only append nodes to the value's graph. Malformed requests (e.g. a raw
// storage type wider than its logical type) are caller bugs and panic with an
// exception; they are never returned as errors.
package convert

import (
	. "github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
)

// To converts x from one element type to another.
// It is a no-op (returns x unchanged) when from == to.
func To(x *graph.Node, from, to dtypes.DType) *graph.Node {
	if from == to {
		return x
	}
	return graph.ConvertDType(x, to)
}

// MaybeTo converts x to dtype only if its element type differs, avoiding
// redundant cast nodes.
func MaybeTo(x *graph.Node, dtype dtypes.DType) *graph.Node {
	if x.DType() == dtype {
		return x
	}
	return graph.ConvertDType(x, dtype)
}

// ToRaw converts x between types whose logical dtype and raw storage dtype may
// differ: if the value was stored in a narrower raw type, the storage bits are
// first masked back into the logical type; after the logical conversion, the
// result is re-truncated to the target's raw storage type if narrower.
//
// This lets, say, an Int64 logical value round-trip faithfully through an
// 8-bit storage slot.
func ToRaw(x *graph.Node, from, rawFrom, to, rawTo dtypes.DType) *graph.Node {
	if from != rawFrom {
		x = truncate(x, from, rawFrom)
	}
	result := To(x, from, to)
	if to == rawTo {
		return result
	}
	return truncate(result, to, rawTo)
}

// ToNumeric maps a boolean-typed x to the device's numeric storage type for
// booleans, so it can be fed to arithmetic ops (which reject Bool operands).
// It is a no-op for every other element type.
func ToNumeric(tc *TypeContext, x *graph.Node) *graph.Node {
	return ToNumericFrom(tc, x, x.DType())
}

// ToNumericFrom is ToNumeric with the source element type given explicitly.
func ToNumericFrom(tc *TypeContext, x *graph.Node, from dtypes.DType) *graph.Node {
	if from == dtypes.Bool {
		x = To(x, from, tc.DeviceDType(tc.BoolStorageType()))
	}
	return x
}

// CastToScalarType converts x to the device dtype corresponding to the
// requested scalar dtype. If dtype is dtypes.InvalidDType (no request), it
// falls back to ToNumeric.
func CastToScalarType(tc *TypeContext, x *graph.Node, dtype dtypes.DType) *graph.Node {
	if dtype == dtypes.InvalidDType {
		return ToNumeric(tc, x)
	}
	return To(x, x.DType(), tc.DeviceDType(dtype))
}

// truncate masks x so that only the bits of the narrower storage type narrow
// survive. It is a no-op unless both dtypes are integral and narrow is
// actually narrower. A narrow type wider than dtype is a caller bug.
func truncate(x *graph.Node, dtype, narrow dtypes.DType) *graph.Node {
	if !dtype.IsInt() || !narrow.IsInt() {
		return x
	}
	size := dtype.Size()
	narrowSize := narrow.Size()
	if size < narrowSize {
		Panicf("convert: raw storage type %s is wider than the logical type %s", narrow, dtype)
	}
	if size == narrowSize {
		return x
	}
	return graph.BitwiseAnd(x, truncationMask(x.Graph(), dtype, size, narrowSize))
}

// truncationMask builds the mask `(1 << (narrowSize*8)) - 1` in dtype. For
// signed dtypes the mask is shifted up to the top bits and arithmetic-shifted
// back, sign-extending it so that narrowing keeps two's-complement semantics.
func truncationMask(g *graph.Graph, dtype dtypes.DType, size, narrowSize int) *graph.Node {
	maskValue := uint64(1)<<(uint(narrowSize)*8) - 1
	mask := graph.Scalar(g, dtype, maskValue)
	if !dtype.IsUnsigned() {
		shift := (size - narrowSize) * 8
		mask = graph.BitwiseShiftLeftScalar(mask, shift)
		mask = graph.BitwiseShiftRightArithmeticScalar(mask, shift)
	}
	return mask
}
