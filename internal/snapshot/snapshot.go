// Package snapshot provides deep-copy helpers used to hand out immutable
// copies of property maps and configuration structs at API boundaries.
package snapshot

import (
	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

// Copy returns a deep copy of src. All nested pointers, slices and maps are
// recursively copied, so mutating the copy never leaks into the original.
// A nil src yields (nil, nil).
func Copy[T any](src *T) (*T, error) {
	if src == nil {
		return nil, nil
	}

	var dst T
	if err := deepcopy.Copy(&dst, src); err != nil {
		return nil, errors.Wrapf(err, "failed to deep copy type %T", src)
	}

	return &dst, nil
}

// MustCopy is Copy for constructor boundaries: a copy failure there is a
// programming error, so it panics instead of returning the error.
// A nil src yields nil.
func MustCopy[T any](src *T) *T {
	dst, err := Copy(src)
	if err != nil {
		panic(err)
	}
	return dst
}

// StringMap returns a copy of a flat string map. Property maps are the most
// common snapshot in this codebase, so they get a direct implementation
// instead of the reflective one.
func StringMap[M ~map[string]string](src M) M {
	if src == nil {
		return nil
	}

	dst := make(M, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
