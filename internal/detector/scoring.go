package detector

import (
	"math"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/mempool"
	"github.com/MeKo-Tech/polyglot/internal/ngram"
	"golang.org/x/sync/errgroup"
)

// orderScores holds the summed log frequencies of one n-gram order for the
// candidates whose sum was negative.
type orderScores map[language.Language]float64

// score runs the statistical stage over candidates.
func (d *Detector) score(f *ngram.Features, candidates []language.Language) ([]Confidence, error) {
	var (
		perOrder []orderScores
		unigrams map[language.Language]int
	)

	seq := candidates
	for order := ngram.MinOrder; order <= ngram.MaxOrder; order++ {
		if f.Length < order {
			break
		}

		scores, nonZero, err := d.scoreOrder(f.Ngrams(order), seq, order)
		if err != nil {
			return nil, err
		}
		perOrder = append(perOrder, scores)

		if len(scores) > 0 {
			kept := seq[:0:0]
			for _, l := range seq {
				if _, ok := scores[l]; ok {
					kept = append(kept, l)
				}
			}
			seq = kept
		}
		if order == ngram.MinOrder {
			unigrams = nonZero
		}
	}

	summed := make(map[language.Language]float64, len(seq))
	for _, l := range seq {
		total := 0.0
		for _, scores := range perOrder {
			total += scores[l]
		}
		if total == 0 {
			continue
		}
		if n := unigrams[l]; n > 0 {
			total /= float64(n)
		}
		summed[l] = total
	}

	highest := math.Inf(-1)
	for _, v := range summed {
		if v > highest {
			highest = v
		}
	}

	out := make([]Confidence, 0, len(summed))
	for l, v := range summed {
		out = append(out, Confidence{Language: l, Value: highest / v})
	}
	sortConfidences(out)

	d.logger.Debug("Statistical detection finished",
		"candidates", len(candidates),
		"ranked", len(out),
		"orders", len(perOrder))

	return out, nil
}

// scoreOrder sums the weights of grams for every language in langs, in
// parallel bounded by the worker count. Only negative sums are kept. For
// unigrams it also counts, per language, the grams with a non-zero weight.
func (d *Detector) scoreOrder(grams []ngram.Ngram, langs []language.Language, order int) (orderScores, map[language.Language]int, error) {
	sums := mempool.GetFloat64(len(langs))
	defer mempool.PutFloat64(sums)
	nonZero := mempool.GetInt(len(langs))
	defer mempool.PutInt(nonZero)

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, l := range langs {
		g.Go(func() error {
			model, err := d.cache.Get(l, order)
			if err != nil {
				return err
			}
			for _, gram := range grams {
				w := model.Weight(gram)
				sums[i] += w
				if w != 0 {
					nonZero[i]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	scores := make(orderScores, len(langs))
	var counts map[language.Language]int
	if order == ngram.MinOrder {
		counts = make(map[language.Language]int, len(langs))
	}
	for i, l := range langs {
		if sums[i] < 0 {
			scores[l] = sums[i]
		}
		if counts != nil && nonZero[i] > 0 {
			counts[l] = nonZero[i]
		}
	}
	return scores, counts, nil
}
