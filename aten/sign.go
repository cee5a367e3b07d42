// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aten

import (
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/torch-gomlx/convert"
)

// Abs returns |input|. Unsigned integral values are already non-negative, so
// they pass through unchanged (no node is added).
func Abs(input *graph.Node) *graph.Node {
	if input.DType().IsUnsigned() {
		return input
	}
	return graph.Abs(input)
}

// Sign returns the sign of input: -1, 0 or +1. Boolean inputs are first
// promoted to the device's numeric type (via tc). For unsigned types the
// result is 1 where input > 0 and 0 elsewhere. NaN inputs map to 0.
func Sign(tc *convert.TypeContext, input *graph.Node) *graph.Node {
	numInput := convert.ToNumeric(tc, input)
	g := numInput.Graph()
	dtype := numInput.DType()
	zero := graph.ScalarZero(g, dtype)
	var sign *graph.Node
	if dtype.IsUnsigned() {
		sign = graph.ConvertDType(graph.GreaterThan(numInput, zero), dtype)
	} else {
		sign = graph.Sign(numInput)
	}
	// NaN is the only value that differs from itself.
	return graph.Where(graph.NotEqual(numInput, numInput),
		graph.BroadcastToDims(zero, numInput.Shape().Dimensions...),
		sign)
}

// Sgn extends Sign to complex types: for them it returns the unit-magnitude
// complex sign input/|input|, with any entry whose sign has a non-finite real
// or imaginary part replaced by NaN+NaNi. For every other type it is Sign.
func Sgn(tc *convert.TypeContext, input *graph.Node) *graph.Node {
	numInput := convert.ToNumeric(tc, input)
	dtype := numInput.DType()
	if !dtype.IsComplex() {
		return Sign(tc, input)
	}
	g := numInput.Graph()
	nanReal := nanScalar(g, dtype.RealDType())
	nanComplex := graph.Complex(nanReal, nanReal)
	sign := graph.Sign(numInput)
	isFinite := graph.And(
		graph.IsFinite(graph.Real(sign)),
		graph.IsFinite(graph.Imag(sign)))
	return graph.Where(isFinite, sign, convert.MaybeTo(nanComplex, sign.DType()))
}
