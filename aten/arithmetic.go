// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aten

import (
	"github.com/gomlx/gomlx/pkg/core/graph"
)

// The three-operand ops below re-promote after each pairwise promotion: every
// binary primitive independently requires matched element types, and the first
// promotion may have changed the common type, so the pair that will actually
// be combined is promoted again right before its operation.

// Div returns input/divisor, with type/shape promotion.
func Div(input, divisor *graph.Node) *graph.Node {
	input, divisor = Promote(input, divisor)
	return graph.Div(input, divisor)
}

// Mul returns input*other, with type/shape promotion.
func Mul(input, other *graph.Node) *graph.Node {
	input, other = Promote(input, other)
	return graph.Mul(input, other)
}

// Add returns input + alpha*other.
func Add(input, other, alpha *graph.Node) *graph.Node {
	input, other = Promote(input, other)
	input, alpha = Promote(input, alpha)
	input, other = Promote(input, other)

	multiplied := graph.Mul(other, alpha)
	return graph.Add(input, multiplied)
}

// Sub returns input - alpha*other.
func Sub(input, other, alpha *graph.Node) *graph.Node {
	input, other = Promote(input, other)
	input, alpha = Promote(input, alpha)
	input, other = Promote(input, other)

	multiplied := graph.Mul(other, alpha)
	return graph.Sub(input, multiplied)
}

// Rsub returns other - alpha*input.
func Rsub(input, other, alpha *graph.Node) *graph.Node {
	input, other = Promote(input, other)
	input, alpha = Promote(input, alpha)
	input, other = Promote(input, other)

	multiplied := graph.Mul(input, alpha)
	return graph.Sub(other, multiplied)
}

// Lerp returns start + weight*(end-start).
func Lerp(start, end, weight *graph.Node) *graph.Node {
	start, end = Promote(start, end)
	start, weight = Promote(start, weight)
	start, end = Promote(start, end)

	subResult := graph.Sub(end, start)
	mulResult := graph.Mul(weight, subResult)
	return graph.Add(start, mulResult)
}
