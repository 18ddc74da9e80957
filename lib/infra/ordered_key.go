package infra

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// OrderedKey permits any type that supports the < operator.
// byte => ~uint8
type OrderedKey interface {
	constraints.Ordered
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// NaturalOrder is a total order, a NaN sorts before every other float
// and equals itself.
func NaturalOrder[K OrderedKey](i, j K) int64 {
	return int64(cmp.Compare(i, j))
}

func ReverseOrder[K OrderedKey](i, j K) int64 {
	return NaturalOrder[K](j, i)
}
