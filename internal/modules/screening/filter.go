package screening

import "github.com/aristath/esgscreen/internal/domain"

// Predicate reports whether a record passes a filter.
type Predicate func(domain.MergedRecord) bool

// MinESGScore passes records scoring at least threshold.
func MinESGScore(threshold int) Predicate {
	return func(r domain.MergedRecord) bool {
		return r.ESGScore >= threshold
	}
}

// MaxPERatio passes records with a known P/E not above limit.
// An unknown P/E never passes.
func MaxPERatio(limit float64) Predicate {
	return func(r domain.MergedRecord) bool {
		return r.PERatio != nil && *r.PERatio <= limit
	}
}

// All combines predicates with logical AND.
func All(preds ...Predicate) Predicate {
	return func(r domain.MergedRecord) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Select returns the records passing pred, in input order.
func Select(records []domain.MergedRecord, pred Predicate) []domain.MergedRecord {
	out := make([]domain.MergedRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Filter applies both thresholds of c.
func Filter(records []domain.MergedRecord, c domain.FilterCriteria) []domain.MergedRecord {
	return Select(records, All(MinESGScore(c.MinESGScore), MaxPERatio(c.MaxPERatio)))
}
