package ml

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// Fold is one cross-validation split of row indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits n rows into k contiguous folds without shuffling. The first n%k
// folds hold one extra row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: need at least 2 folds, got %d", common.ErrConfig, k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: cannot split %d rows into %d folds", common.ErrInsufficientData, n, k)
	}

	folds := make([]Fold, k)
	start := 0
	for f := range folds {
		size := n / k
		if f < n%k {
			size++
		}
		end := start + size

		test := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		folds[f] = Fold{Train: train, Test: test}
		start = end
	}
	return folds, nil
}

// TrainTestSplit shuffles row indices with a seeded generator and holds out
// ceil(n*testSize) of them. The same seed always yields the same split.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size must be in (0, 1), got %g", common.ErrConfig, testSize)
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows cannot be split with test size %g", common.ErrInsufficientData, n, testSize)
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
