// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert_test

import (
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/gomlx/torch-gomlx/convert"
)

func TestTo(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestTo")
	x := graph.Const(g, []float32{1.5, -2.25})

	// Same source and target type: same node, no cast inserted.
	require.Same(t, x, convert.To(x, dtypes.Float32, dtypes.Float32))
	require.Same(t, x, convert.MaybeTo(x, dtypes.Float32))

	y := convert.To(x, dtypes.Float32, dtypes.Float16)
	require.Equal(t, dtypes.Float16, y.DType())
	g.Compile(y)
	got := g.Run()[0]
	want := tensors.FromFlatDataAndDimensions([]float16.Float16{
		float16.Fromfloat32(1.5), float16.Fromfloat32(-2.25)}, 2)
	require.Truef(t, want.Equal(got), "got %s, wanted %s", got.GoStr(), want.GoStr())
}

func TestToRaw(t *testing.T) {
	graphtest.RunTestGraphFn(t, "unsigned truncation to 8-bit storage",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{
				graph.Const(g, []uint64{1, 300, 255, 1<<40 + 7}),
			}
			outputs = []*graph.Node{
				convert.ToRaw(inputs[0], dtypes.Uint64, dtypes.Uint8, dtypes.Uint64, dtypes.Uint64),
			}
			return
		}, []any{
			[]uint64{1, 44, 255, 7},
		}, 0)

	graphtest.RunTestGraphFn(t, "signed round-trip through 8-bit storage",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{
				graph.Const(g, []int64{-1, 100, -120, 127}),
			}
			stored := convert.ToRaw(inputs[0], dtypes.Int64, dtypes.Int64, dtypes.Int64, dtypes.Int8)
			outputs = []*graph.Node{
				convert.ToRaw(stored, dtypes.Int64, dtypes.Int8, dtypes.Int64, dtypes.Int64),
			}
			return
		}, []any{
			[]int64{-1, 100, -120, 127},
		}, 0)

	graphtest.RunTestGraphFn(t, "logical conversion with narrow raw source",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{
				graph.Const(g, []uint64{3, 260}),
			}
			outputs = []*graph.Node{
				convert.ToRaw(inputs[0], dtypes.Uint64, dtypes.Uint8, dtypes.Int32, dtypes.Int32),
			}
			return
		}, []any{
			[]int32{3, 4},
		}, 0)

	// Floating types are never masked: the conversion is a plain cast.
	graphtest.RunTestGraphFn(t, "no-op for floats",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{
				graph.Const(g, []float64{1.5, -3.25}),
			}
			outputs = []*graph.Node{
				convert.ToRaw(inputs[0], dtypes.Float64, dtypes.Float32, dtypes.Float64, dtypes.Float64),
			}
			return
		}, []any{
			[]float64{1.5, -3.25},
		}, 0)
}

func TestToRawInvalidStorage(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestToRawInvalidStorage")
	x := graph.Const(g, []uint8{1, 2})
	// A raw storage type wider than the logical type is a caller bug.
	require.Panics(t, func() {
		convert.ToRaw(x, dtypes.Uint8, dtypes.Uint64, dtypes.Uint8, dtypes.Uint8)
	})
}

func TestToNumeric(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestToNumeric")
	b := graph.Const(g, []bool{true, false, true})
	f := graph.Const(g, []float32{1, 2})

	require.Equal(t, dtypes.Uint8, convert.ToNumeric(nil, b).DType())
	require.Same(t, f, convert.ToNumeric(nil, f))

	tc := &convert.TypeContext{BoolStorage: dtypes.Int32}
	require.Equal(t, dtypes.Int32, convert.ToNumeric(tc, b).DType())

	// The downcast table also applies to the default bool storage type.
	tc = &convert.TypeContext{Downcasts: map[dtypes.DType]dtypes.DType{dtypes.Uint8: dtypes.Uint32}}
	require.Equal(t, dtypes.Uint32, convert.ToNumeric(tc, b).DType())

	graphtest.RunTestGraphFn(t, "bool to numeric values",
		func(g *graph.Graph) (inputs, outputs []*graph.Node) {
			inputs = []*graph.Node{graph.Const(g, []bool{true, false, true})}
			outputs = []*graph.Node{convert.ToNumeric(nil, inputs[0])}
			return
		}, []any{
			[]uint8{1, 0, 1},
		}, 0)
}

func TestCastToScalarType(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	g := graph.NewGraph(backend, "TestCastToScalarType")
	x := graph.Const(g, []float32{1, 2})
	b := graph.Const(g, []bool{true, false})

	require.Equal(t, dtypes.Float64, convert.CastToScalarType(nil, x, dtypes.Float64).DType())

	// The device downcasts Float64, so the request resolves to Float32 and
	// no cast is needed.
	tc := &convert.TypeContext{Downcasts: map[dtypes.DType]dtypes.DType{dtypes.Float64: dtypes.Float32}}
	require.Same(t, x, convert.CastToScalarType(tc, x, dtypes.Float64))

	// Without a requested type, booleans promote to numeric, the rest is
	// left alone.
	require.Equal(t, dtypes.Uint8, convert.CastToScalarType(nil, b, dtypes.InvalidDType).DType())
	require.Same(t, x, convert.CastToScalarType(nil, x, dtypes.InvalidDType))
}
