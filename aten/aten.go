// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package aten lowers PyTorch ATen elementwise operators -- comparisons,
// activations, their backward (gradient) formulas and the alpha-scaled
// arithmetic ops -- into GoMLX computation-graph fragments.
//
// Every function here is a pure graph constructor: it consumes already-built
// graph nodes (plus the occasional Go scalar) and returns new nodes encoding
// the operator's exact PyTorch numeric contract, including NaN propagation,
// signed/unsigned edge cases and mixed-precision promotion. Nothing is
// executed; the resulting graph is compiled and run by whatever gomlx backend
// the caller uses.
//
// Operand dtypes are aligned with the convert package and Promote before each
// binary primitive, since the graph primitives require matching element types
// on both sides. Malformed requests (an unknown comparison kind, an impossible
// raw conversion) are caller bugs and panic with an exception; numeric edge
// cases (division by zero, log of a negative) are not errors -- they flow
// through as NaN/Inf, matching IEEE-754 and PyTorch semantics.
package aten

import (
	"fmt"

	. "github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/pkg/core/graph"
)

// CompareKind selects the relational operation applied by Compare.
type CompareKind int

const (
	CompareNotEqual CompareKind = iota
	CompareEqual
	CompareGreaterOrEqual
	CompareLessOrEqual
	CompareGreaterThan
	CompareLessThan
)

// String implements fmt.Stringer.
func (kind CompareKind) String() string {
	switch kind {
	case CompareNotEqual:
		return "NotEqual"
	case CompareEqual:
		return "Equal"
	case CompareGreaterOrEqual:
		return "GreaterOrEqual"
	case CompareLessOrEqual:
		return "LessOrEqual"
	case CompareGreaterThan:
		return "GreaterThan"
	case CompareLessThan:
		return "LessThan"
	}
	return fmt.Sprintf("CompareKind(%d)", int(kind))
}

// Compare promotes lhs and rhs to a common element type and shape, and applies
// the relational operation kind, returning a Bool node.
// It panics on any kind outside the six relational kinds.
func Compare(kind CompareKind, lhs, rhs *graph.Node) *graph.Node {
	lhs, rhs = Promote(lhs, rhs)
	switch kind {
	case CompareNotEqual:
		return graph.NotEqual(lhs, rhs)
	case CompareEqual:
		return graph.Equal(lhs, rhs)
	case CompareGreaterOrEqual:
		return graph.GreaterOrEqual(lhs, rhs)
	case CompareLessOrEqual:
		return graph.LessOrEqual(lhs, rhs)
	case CompareGreaterThan:
		return graph.GreaterThan(lhs, rhs)
	case CompareLessThan:
		return graph.LessThan(lhs, rhs)
	default:
		Panicf("aten.Compare: invalid comparison operator kind %s", kind)
	}
	return nil
}

// between returns the Bool node `min <= x <= max`, with the bounds
// materialized as scalars of x's element type.
func between(x *graph.Node, min, max float64) *graph.Node {
	g := x.Graph()
	dtype := x.DType()
	checkLow := Compare(CompareGreaterOrEqual, x, graph.Scalar(g, dtype, min))
	checkHigh := Compare(CompareLessOrEqual, x, graph.Scalar(g, dtype, max))
	return graph.And(checkLow, checkHigh)
}
