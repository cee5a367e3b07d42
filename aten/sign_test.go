// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aten_test

import (
	"math"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/torch-gomlx/aten"
	"github.com/gomlx/torch-gomlx/convert"
)

func TestAbs(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestAbs")
	u := graph.Const(g, []uint32{1, 2, 3})
	require.Same(t, u, aten.Abs(u))

	graphtest.RunTestGraphFn(t, "Abs",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{graph.Const(g, []float32{-2.5, 0, 3})}
			outputs = []*graph.Node{aten.Abs(inputs[0])}
			return
		}, []any{
			[]float32{2.5, 0, 3},
		}, 0)
}

func TestSign(t *testing.T) {
	graphtest.RunTestGraphFn(t, "Sign on unsigned",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{graph.Const(g, []uint8{0, 5, 255})}
			outputs = []*graph.Node{aten.Sign(nil, inputs[0])}
			return
		}, []any{
			[]uint8{0, 1, 1},
		}, 0)

	// Booleans promote to the numeric bool storage type first.
	graphtest.RunTestGraphFn(t, "Sign on bool",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{graph.Const(g, []bool{true, false})}
			outputs = []*graph.Node{aten.Sign(nil, inputs[0])}
			return
		}, []any{
			[]uint8{1, 0},
		}, 0)

	tc := &convert.TypeContext{BoolStorage: dtypes.Int32}
	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestSign")
	b := graph.Const(g, []bool{true, false})
	require.Equal(t, dtypes.Int32, aten.Sign(tc, b).DType())

	// NaN maps to 0, not to its IEEE sign.
	g = graph.NewGraph(backend, "TestSignNaN")
	x := graph.Const(g, []float64{-2.5, 0, 3, math.NaN()})
	g.Compile(aten.Sign(nil, x))
	got := tensors.MustCopyFlatData[float64](g.Run()[0])
	require.Equal(t, []float64{-1, 0, 1, 0}, got)
}

func TestSgn(t *testing.T) {
	// Non-complex input behaves exactly like Sign.
	graphtest.RunTestGraphFn(t, "Sgn on floats",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{graph.Const(g, []float32{-3, 0, 0.5})}
			outputs = []*graph.Node{aten.Sgn(nil, inputs[0])}
			return
		}, []any{
			[]float32{-1, 0, 1},
		}, 0)

	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestSgn")
	x := graph.Const(g, []complex64{3 + 4i, 0, complex(float32(math.Inf(1)), 0)})
	g.Compile(aten.Sgn(nil, x))
	got := tensors.MustCopyFlatData[complex64](g.Run()[0])

	require.InDelta(t, 0.6, float64(real(got[0])), 1e-6)
	require.InDelta(t, 0.8, float64(imag(got[0])), 1e-6)
	require.Equal(t, complex64(0), got[1])
	// Non-finite inputs yield NaN in both components.
	require.True(t, math.IsNaN(float64(real(got[2]))), "real part of sgn(Inf)")
	require.True(t, math.IsNaN(float64(imag(got[2]))), "imaginary part of sgn(Inf)")
}
