package assign

import (
	"fmt"

	"github.com/markoori/variant-backend/internal/domain"
)

// Select walks the variant sequence in stored order, accumulating each
// variant's traffic percentage into a running threshold, and returns the
// first variant whose threshold exceeds the bucket. If the percentages do
// not cover the bucket (sum < 100, which violates the persistence
// invariant) it degrades to the last variant rather than failing the
// request. An empty sequence is a hard error: there is nothing safe to
// return.
func Select(variants []domain.Variant, bucket int) (domain.Variant, error) {
	if len(variants) == 0 {
		return domain.Variant{}, fmt.Errorf("experiment has no variants")
	}
	threshold := 0
	for _, v := range variants {
		threshold += v.TrafficPercentage
		if bucket < threshold {
			return v, nil
		}
	}
	return variants[len(variants)-1], nil
}
