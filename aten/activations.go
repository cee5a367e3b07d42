// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aten

import (
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/torch-gomlx/convert"
)

// Threshold returns output where input > threshold, and the constant value
// (broadcast to input's shape) everywhere else.
func Threshold(input, output *graph.Node, threshold, value float64) *graph.Node {
	g := input.Graph()
	thresholdNode := graph.Scalar(g, input.DType(), threshold)
	valueNode := graph.Scalar(g, output.DType(), value)
	return graph.Where(
		graph.GreaterThan(input, thresholdNode),
		output,
		graph.BroadcastToDims(valueNode, input.Shape().Dimensions...))
}

// Relu returns max(input, 0). At input == 0 the result is exactly 0.
func Relu(input *graph.Node) *graph.Node {
	zero := graph.Scalar(input.Graph(), input.DType(), 0)
	if hasDynamicDims(input) {
		// Max doesn't implicitly broadcast operands with unbounded dynamic
		// axes, so the scalar must be promoted explicitly first.
		promotedInput, promotedZero := Promote(input, zero)
		return graph.Max(promotedInput, promotedZero)
	}
	return graph.Max(input, zero)
}

// Hardshrink zeroes input inside [-lambda, lambda] and passes it through
// unchanged outside.
func Hardshrink(input, lambda *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)

	// Mixed float precision is rejected by the binary primitives, so lambda
	// is aligned to input's element type first.
	lambda = convert.MaybeTo(lambda, dtype)
	checkLow := Compare(CompareGreaterOrEqual, input, graph.Sub(zero, lambda))
	checkHigh := Compare(CompareLessOrEqual, input, lambda)
	return graph.Where(graph.And(checkLow, checkHigh), zero, input)
}

// Softshrink returns input+lambda where input < -lambda, input-lambda where
// input > lambda, and 0 in the dead zone between.
func Softshrink(input, lambda *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	lambda = convert.MaybeTo(lambda, dtype)

	zero := graph.ScalarZero(g, dtype)
	toTheLeft := graph.LessThan(input, graph.Neg(lambda))
	toTheRight := graph.GreaterThan(input, lambda)
	return graph.Where(toTheLeft, graph.Add(input, lambda),
		graph.Where(toTheRight, graph.Sub(input, lambda), zero))
}

// ShrinkBackward zeroes gradOutput inside the hard/soft-shrink dead zone
// [-lambda, lambda] and passes it through outside.
func ShrinkBackward(gradOutput, input, lambda *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)

	lambda = convert.MaybeTo(lambda, dtype)
	checkLow := Compare(CompareGreaterOrEqual, input, graph.Sub(zero, lambda))
	checkHigh := Compare(CompareLessOrEqual, input, lambda)
	return graph.Where(graph.And(checkLow, checkHigh), zero, gradOutput)
}

// HardSigmoid returns clamp(input+3, 0, 6) / 6.
func HardSigmoid(input *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)
	three := graph.Scalar(g, dtype, 3)
	six := graph.Scalar(g, dtype, 6)
	return graph.Div(graph.Min(graph.Max(graph.Add(input, three), zero), six), six)
}

// HardSigmoidBackward returns gradOutput/6 inside (-3, 3) and 0 elsewhere.
func HardSigmoidBackward(gradOutput, input *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	six := graph.Scalar(g, dtype, 6)
	zero := graph.ScalarZero(g, dtype)
	return graph.Where(between(input, -3.0, 3.0), graph.Div(gradOutput, six), zero)
}

// HardSwish returns input * hardSigmoid(input).
func HardSwish(input *graph.Node) *graph.Node {
	return graph.Mul(input, HardSigmoid(input))
}

// HardSwishBackward applies the hard-swish derivative: gradOutput where
// input >= 3, gradOutput*(0.5 + input/3) inside [-3, 3), and 0 below -3
// (where the analytic derivative is exactly zero).
func HardSwishBackward(gradOutput, input *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	three := graph.Scalar(g, dtype, 3)
	zero := graph.ScalarZero(g, dtype)
	pointFive := graph.Scalar(g, dtype, 0.5)

	interior := graph.Mul(gradOutput, graph.Add(pointFive, graph.Div(input, three)))
	result := graph.Where(between(input, -3.0, 3.0), interior, zero)
	return graph.Where(graph.GreaterOrEqual(input, three), gradOutput, result)
}

// HardtanhBackward passes gradOutput through inside [minVal, maxVal] and
// returns 0 elsewhere.
func HardtanhBackward(gradOutput, input *graph.Node, minVal, maxVal float64) *graph.Node {
	zero := graph.ScalarZero(gradOutput.Graph(), gradOutput.DType())
	return graph.Where(between(input, minVal, maxVal), gradOutput, zero)
}

// LeakyRelu returns input where input > 0, and negativeSlope*input elsewhere.
// The forward pass is the backward formula evaluated with input as its own
// incoming gradient.
func LeakyRelu(input, negativeSlope *graph.Node) *graph.Node {
	return LeakyReluBackward(input, input, negativeSlope)
}

// LeakyReluBackward returns gradOutput where input > 0, and
// negativeSlope*gradOutput elsewhere.
func LeakyReluBackward(gradOutput, input, negativeSlope *graph.Node) *graph.Node {
	negativeSlope = convert.MaybeTo(negativeSlope, input.DType())
	zero := graph.ScalarZero(input.Graph(), input.DType())
	return graph.Where(graph.GreaterThan(input, zero),
		gradOutput, graph.Mul(negativeSlope, gradOutput))
}

// Prelu returns input where input > 0, and input*weight elsewhere.
func Prelu(input, weight *graph.Node) *graph.Node {
	zero := graph.ScalarZero(input.Graph(), input.DType())
	product := graph.Mul(input, weight)
	return graph.Where(graph.GreaterThan(input, zero), input, product)
}

// PreluBackward returns the Prelu gradients with respect to the input
// (gradOutput where input > 0, weight*gradOutput elsewhere) and with respect
// to the weight (0 where input > 0, input*gradOutput elsewhere).
func PreluBackward(gradOutput, input, weight *graph.Node) (gradInput, gradWeight *graph.Node) {
	zero := graph.ScalarZero(input.Graph(), input.DType())
	positive := graph.GreaterThan(input, zero)
	gradInput = graph.Where(positive, gradOutput, graph.Mul(weight, gradOutput))
	gradWeight = graph.Where(positive, zero, graph.Mul(input, gradOutput))
	return
}

// Rrelu is the randomized leaky relu. In training mode it samples a
// per-element negative slope uniformly from [lower, upper) -- consuming and
// returning the gomlx RNG state -- and returns both the activation and the
// noise tensor needed by RreluBackward: 1 where input > 0 and the sampled
// slope elsewhere. In inference mode it deterministically applies the
// midpoint slope (lower+upper)/2 and returns a zero noise tensor, with the
// RNG state passed through untouched.
func Rrelu(rngState, input *graph.Node, lower, upper float64, training bool) (newRngState, output, noise *graph.Node) {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)
	one := graph.ScalarOne(g, dtype)
	if training {
		var slope *graph.Node
		newRngState, slope = graph.RandomUniform(rngState, input.Shape())
		// Scale the [0, 1) draw to [lower, upper).
		slope = graph.AddScalar(graph.MulScalar(slope, upper-lower), lower)
		noise = graph.Where(graph.GreaterThan(input, zero), one, slope)
		output = graph.Mul(input, noise)
	} else {
		newRngState = rngState
		negativeSlope := graph.Scalar(g, dtype, (lower+upper)/2)
		noise = graph.BroadcastToDims(zero, input.Shape().Dimensions...)
		output = LeakyRelu(input, negativeSlope)
	}
	return
}

// RreluBackward reverses Rrelu: in training mode the gradient is
// noise*gradOutput (noise as returned by Rrelu); in inference mode it
// re-derives the midpoint slope and applies the leaky-relu backward rule.
func RreluBackward(gradOutput, input, noise *graph.Node, lower, upper float64, training bool) *graph.Node {
	if training {
		return graph.Mul(noise, gradOutput)
	}
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)
	negativeSlope := graph.Scalar(g, dtype, (lower+upper)/2)
	return graph.Where(graph.GreaterThan(input, zero),
		gradOutput, graph.Mul(gradOutput, negativeSlope))
}
