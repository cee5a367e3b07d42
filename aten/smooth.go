// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aten

import (
	"math"

	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/torch-gomlx/convert"
)

const (
	// Canonical SELU constants.
	seluAlpha = 1.6732632423543772848170429916717
	seluScale = 1.0507009873554804934193349852946

	invSqrt2      = 1.0 / math.Sqrt2  // 1/√2
	twoOverSqrtPi = 2.0 / math.SqrtPi // 2/√π
)

// Sigmoid returns the logistic function 1/(1+exp(-input)).
func Sigmoid(input *graph.Node) *graph.Node {
	return graph.Logistic(input)
}

// SiLUBackward applies the derivative of SiLU (x*sigmoid(x)):
// gradOutput * (σ * (1 + input*(1-σ))), with σ = sigmoid(input).
func SiLUBackward(gradOutput, input *graph.Node) *graph.Node {
	one := graph.ScalarOne(input.Graph(), input.DType())
	inputSigmoid := Sigmoid(input)
	return graph.Mul(gradOutput,
		graph.Mul(inputSigmoid,
			graph.Add(one, graph.Mul(input, graph.Sub(one, inputSigmoid)))))
}

// Reciprocal returns 1/input.
func Reciprocal(input *graph.Node) *graph.Node {
	one := graph.ScalarOne(input.Graph(), input.DType())
	return graph.Div(one, input)
}

// Gelu returns input * 0.5 * (erf(input/√2) + 1).
func Gelu(input *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	half := graph.Scalar(g, dtype, 0.5)
	one := graph.ScalarOne(g, dtype)
	invSqrt2Node := graph.Scalar(g, dtype, invSqrt2)

	return graph.Mul(graph.Mul(input, half),
		graph.Add(graph.Erf(graph.Mul(input, invSqrt2Node)), one))
}

// GeluBackward applies the analytic derivative of Gelu:
// gradOutput * (0.5*(1+erf(x/√2)) + x * exp(-x²/2) * (2/√π)*(1/√2)*0.5).
func GeluBackward(gradOutput, input *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	half := graph.Scalar(g, dtype, 0.5)
	one := graph.ScalarOne(g, dtype)
	invSqrt2Node := graph.Scalar(g, dtype, invSqrt2)
	kAlpha := graph.Scalar(g, dtype, twoOverSqrtPi*invSqrt2*0.5)

	scratch := graph.Erf(graph.Mul(input, invSqrt2Node))
	dInput := graph.Exp(graph.Neg(graph.Mul(graph.Mul(input, input), half)))
	return graph.Mul(gradOutput,
		graph.Add(graph.Mul(half, graph.Add(one, scratch)),
			graph.Mul(graph.Mul(input, dInput), kAlpha)))
}

// Softplus returns log1p(exp(input*beta))/beta, except where input*beta >
// threshold, in which case input is passed through unchanged to avoid the
// exp overflowing.
func Softplus(input, beta, threshold *graph.Node) *graph.Node {
	return graph.Where(
		graph.GreaterThan(graph.Mul(input, beta), threshold),
		input,
		graph.Div(graph.Log1p(graph.Exp(graph.Mul(input, beta))), beta))
}

// Celu returns max(0, input) + min(0, alpha*(exp(input/alpha)-1)).
func Celu(input *graph.Node, alpha float64) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)
	one := graph.ScalarOne(g, dtype)
	alphaNode := graph.Scalar(g, dtype, alpha)

	return graph.Add(
		graph.Max(zero, input),
		graph.Min(zero, graph.Mul(alphaNode,
			graph.Sub(graph.Exp(graph.Div(input, alphaNode)), one))))
}

// Selu returns seluScale * (max(0, input) + min(0, seluAlpha*(exp(input)-1))).
func Selu(input *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)
	one := graph.ScalarOne(g, dtype)
	alpha := graph.Scalar(g, dtype, seluAlpha)
	scale := graph.Scalar(g, dtype, seluScale)

	return graph.Mul(scale,
		graph.Add(graph.Max(zero, input),
			graph.Min(zero, graph.Mul(alpha, graph.Sub(graph.Exp(input), one)))))
}

// Elu returns scale * (alpha*(exp(input*inputScale)-1) where input <= 0, else
// input). The alpha, scale and inputScale operands are aligned to input's
// element type.
func Elu(input, alpha, scale, inputScale *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	alpha = convert.MaybeTo(alpha, dtype)
	scale = convert.MaybeTo(scale, dtype)
	inputScale = convert.MaybeTo(inputScale, dtype)
	scaledInput := graph.Mul(input, inputScale)
	zero := graph.ScalarZero(g, dtype)
	one := graph.ScalarOne(g, dtype)
	return graph.Mul(
		graph.Where(graph.LessOrEqual(input, zero),
			graph.Mul(alpha, graph.Sub(graph.Exp(scaledInput), one)),
			input),
		scale)
}

// EluBackward reconstructs the Elu derivative from the forward *output* (not
// the input): where output > 0 the derivative is scale, elsewhere it is
// inputScale*(output + alpha*scale).
func EluBackward(gradOutput, output *graph.Node, alpha, scale, inputScale float64) *graph.Node {
	g := output.Graph()
	dtype := output.DType()
	zero := graph.ScalarZero(g, dtype)
	alphaNode := graph.Scalar(g, dtype, alpha)
	scaleNode := graph.Scalar(g, dtype, scale)
	inputScaleNode := graph.Scalar(g, dtype, inputScale)
	negativeOutputBranch := graph.Mul(inputScaleNode,
		graph.Add(output, graph.Mul(alphaNode, scaleNode)))
	return graph.Mul(gradOutput,
		graph.Where(graph.GreaterThan(output, zero), scaleNode, negativeOutputBranch))
}

// LogSigmoid computes log(sigmoid(input)) through the numerically stable
// shift max(0, -input). Besides the output it returns the intermediate
// buffer exp(-max) + exp(-input-max), which LogSigmoidBackward needs.
func LogSigmoid(input *graph.Node) (output, buffer *graph.Node) {
	g := input.Graph()
	dtype := input.DType()
	negInput := graph.Neg(input)
	zero := graph.ScalarZero(g, dtype)
	maxElem := graph.Max(zero, negInput)
	buffer = graph.Add(
		graph.Exp(graph.Neg(maxElem)),
		graph.Exp(graph.Sub(negInput, maxElem)))
	output = graph.Neg(graph.Add(maxElem, graph.Log(buffer)))
	return
}

// LogSigmoidBackward reconstructs the log-sigmoid derivative from the buffer
// returned by LogSigmoid and the sign of input.
func LogSigmoidBackward(gradOutput, input, buffer *graph.Node) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	zero := graph.ScalarZero(g, dtype)
	one := graph.ScalarOne(g, dtype)
	minusOne := graph.Scalar(g, dtype, -1)

	negative := graph.LessThan(input, zero)
	maxDeriv := graph.Where(negative, minusOne, zero)
	sign := graph.Where(negative, one, minusOne)
	return graph.Mul(gradOutput,
		graph.Sub(graph.Neg(maxDeriv),
			graph.Mul(sign, graph.Div(graph.Sub(buffer, one), buffer))))
}

// Logit returns log(x/(1-x)) with x clamped to [eps, 1-eps] (eps of zero
// clamps to [0, 1], yielding ±Inf at the boundary). Inputs outside [0, 1] are
// reported as NaN regardless of eps: clamping only protects the log from
// blowing up, it never masks a domain violation.
func Logit(input *graph.Node, eps float64) *graph.Node {
	g := input.Graph()
	dtype := input.DType()
	one := graph.ScalarOne(g, dtype)
	zero := graph.ScalarZero(g, dtype)
	epsNode := graph.Scalar(g, dtype, eps)
	clamped := graph.Clip(input, epsNode, graph.Sub(one, epsNode))
	result := graph.Log(graph.Div(clamped, graph.Sub(one, clamped)))
	invalidInput := graph.Or(
		graph.LessThan(input, zero),
		graph.GreaterThan(input, one))
	return graph.Where(invalidInput, nanScalar(g, dtype), result)
}
