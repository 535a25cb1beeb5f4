package ml

import "github.com/Veraticus/disaster-triage/internal/textproc"

var testLabels = []string{"water", "food"}

// testCorpus returns n messages where the water label is set exactly when the
// text mentions water and the food label exactly when it mentions food.
func testCorpus(n int) ([]string, [][]int) {
	groups := []struct {
		texts []string
		y     []int
	}{
		{[]string{"need clean water", "water supply is cut", "drinking water please", "no water in village", "water tanks empty"}, []int{1, 0}},
		{[]string{"we are hungry send food", "food rations low", "need rice and food", "food supplies gone", "children need food"}, []int{0, 1}},
		{[]string{"food and water needed", "water and food running out", "send food water blankets"}, []int{1, 1}},
		{[]string{"roads are blocked", "power lines down", "bridge collapsed", "need tents urgently"}, []int{0, 0}},
	}

	texts := make([]string, n)
	y := make([][]int, n)
	for i := 0; i < n; i++ {
		g := groups[i%len(groups)]
		texts[i] = g.texts[(i/len(groups))%len(g.texts)]
		y[i] = append([]int(nil), g.y...)
	}
	return texts, y
}

func testTokenizer() textproc.Tokenizer {
	return textproc.NewStrict(nil)
}

func vec(indices []int, values []float64) Vector {
	return Vector{Indices: indices, Values: values}
}
