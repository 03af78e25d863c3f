// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds generic helpers missing from the standard [slices] package.
package slice

// Filter returns the elements of input for which keep reports true, in order.
//
// A non-nil input always yields a non-nil result, so JSON encodes an emptied
// list as [] rather than null.
func Filter[T any](input []T, keep func(T) bool) []T {
	if input == nil {
		return nil
	}

	result := make([]T, 0, len(input))
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
