// Copyright 2025-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"k8s.io/klog/v2"
)

// TypeContext describes the element-type policy of the device a graph is being
// built for. It is passed explicitly to every conversion that depends on the
// device -- there is no process-wide "current device".
//
// The zero value (and a nil pointer) is a valid context with no restrictions:
// booleans promote to Uint8 and every dtype is supported as-is.
type TypeContext struct {
	// BoolStorage is the numeric dtype booleans are promoted to before
	// arithmetic. If unset, it defaults to dtypes.Uint8.
	BoolStorage dtypes.DType

	// Downcasts maps dtypes the device does not support to the dtype used in
	// their place -- e.g. {Float64: Float32} for devices without f64 support.
	Downcasts map[dtypes.DType]dtypes.DType
}

// BoolStorageType returns the dtype booleans are promoted to on this device.
func (tc *TypeContext) BoolStorageType() dtypes.DType {
	if tc == nil || tc.BoolStorage == dtypes.InvalidDType {
		return dtypes.Uint8
	}
	return tc.BoolStorage
}

// DeviceDType maps a requested dtype to the dtype actually used on the device,
// applying the context's downcast table.
func (tc *TypeContext) DeviceDType(dtype dtypes.DType) dtypes.DType {
	if tc == nil {
		return dtype
	}
	if downcast, found := tc.Downcasts[dtype]; found {
		klog.V(1).Infof("convert: dtype %s not supported by device, using %s", dtype, downcast)
		return downcast
	}
	return dtype
}
