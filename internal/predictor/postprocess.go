package predictor

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Brownie44l1/plant-disease-api/internal/disease"
)

// TopK is the number of ranked predictions reported per image.
const TopK = 3

type ranked struct {
	index int
	prob  float64
}

// softmax converts raw scores into probabilities using the log-sum-exp form.
func softmax(scores []float32) ([]float64, error) {
	probs := make([]float64, len(scores))
	for i, s := range scores {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("score %d is not finite", i)
		}
		probs[i] = v
	}

	lse := floats.LogSumExp(probs)
	for i := range probs {
		probs[i] = math.Exp(probs[i] - lse)
	}
	return probs, nil
}

// topK returns the k most probable classes, highest first. Equal
// probabilities keep ascending index order.
func topK(probs []float64, k int) []ranked {
	all := make([]ranked, len(probs))
	for i, p := range probs {
		all[i] = ranked{index: i, prob: p}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].prob > all[j].prob
	})
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

// postprocess builds a successful Result from one score vector.
func postprocess(scores []float32) (Result, error) {
	if len(scores) != disease.Count() {
		return Result{}, fmt.Errorf("model returned %d scores, want %d", len(scores), disease.Count())
	}

	probs, err := softmax(scores)
	if err != nil {
		return Result{}, err
	}

	best := floats.MaxIdx(probs)
	top := topK(probs, TopK)

	res := Result{
		Success:        true,
		Prediction:     disease.Label(best),
		Confidence:     probs[best],
		ClassIndex:     best,
		TopPredictions: make([]Prediction, len(top)),
	}
	for i, r := range top {
		res.TopPredictions[i] = Prediction{
			Class:      disease.Label(r.index),
			Confidence: r.prob,
		}
	}
	res.IsHealthy = disease.IsHealthy(res.Prediction)
	return res, nil
}
