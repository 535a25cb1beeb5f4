package ml

// Stump is a depth-one decision tree over one feature. Rows with a value at or
// below Threshold take Left, the rest take Right. Feature -1 marks a leaf that
// always answers Left. Classes are indices into the owning ensemble's classes.
type Stump struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
}

// PredictRow returns the class index for one row.
func (s Stump) PredictRow(v Vector) int {
	if s.Feature < 0 || v.At(s.Feature) <= s.Threshold {
		return s.Left
	}
	return s.Right
}

// predictColumns classifies every row of the training view.
func (s Stump) predictColumns(c *columns, out []int) {
	for i := range out {
		out[i] = s.Left
	}
	if s.Feature < 0 {
		return
	}
	for _, e := range c.cols[s.Feature] {
		if e.value > s.Threshold {
			out[e.row] = s.Right
		}
	}
}

// fitStump finds the weighted gini-optimal split. y holds class indices in [0,k).
// Features are scanned in column order and the first best split wins.
func fitStump(c *columns, y []int, k int, w []float64) Stump {
	total := make([]float64, k)
	for i, cls := range y {
		total[cls] += w[i]
	}

	leaf := Stump{Feature: -1, Left: argmax(total)}
	if isPure(total) {
		return leaf
	}

	best := leaf
	bestScore := -1.0
	left := make([]float64, k)
	right := make([]float64, k)

	for f, col := range c.cols {
		if len(col) == 0 {
			continue
		}

		// Zeros are not stored; they sort first and always fall left.
		copy(left, total)
		for _, e := range col {
			left[y[e.row]] -= w[e.row]
		}
		zeroRows := c.rows - len(col)

		consider := func(threshold float64) {
			for j := range right {
				right[j] = total[j] - left[j]
			}
			score := purity(left) + purity(right)
			if score > bestScore {
				bestScore = score
				best = Stump{Feature: f, Threshold: threshold, Left: argmax(left), Right: argmax(right)}
			}
		}

		if zeroRows > 0 {
			consider(col[0].value / 2)
		}
		for p, e := range col {
			left[y[e.row]] += w[e.row]
			if p+1 == len(col) {
				break
			}
			next := col[p+1].value
			if next <= e.value {
				continue
			}
			threshold := e.value + (next-e.value)/2
			if threshold >= next {
				threshold = e.value
			}
			consider(threshold)
		}
	}

	return best
}

// purity is sum(c²)/w for one child; maximizing the sum over children
// minimizes the weighted gini impurity of the split.
func purity(counts []float64) float64 {
	var sum, sq float64
	for _, c := range counts {
		sum += c
		sq += c * c
	}
	if sum <= 0 {
		return 0
	}
	return sq / sum
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// argmax returns the first index holding the largest value.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
