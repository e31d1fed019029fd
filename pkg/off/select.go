package off

import "math/rand"

// FilterDisplayable keeps products that have something to show: a name
// (or generic name) and at least one image URL. This is the only gate
// between raw catalog entries and the UI.
func FilterDisplayable(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.DisplayName() != "" && p.Image() != "" {
			out = append(out, p)
		}
	}
	return out
}

// SampleUnique returns up to count distinct products drawn uniformly
// at random from products. When the population fits within count it is
// returned whole, in its original order. Otherwise no ordering is
// guaranteed beyond "count distinct entries from the input".
func SampleUnique(products []Product, count int, rng *rand.Rand) []Product {
	if count <= 0 {
		return nil
	}
	if len(products) <= count {
		return products
	}

	picked := make(map[int]struct{}, count)
	out := make([]Product, 0, count)
	// Rejection sampling over indices. The loop also terminates when
	// the whole population has been drawn, so count larger than the
	// distinct population cannot spin forever.
	for len(out) < count && len(picked) < len(products) {
		idx := rng.Intn(len(products))
		if _, dup := picked[idx]; dup {
			continue
		}
		picked[idx] = struct{}{}
		out = append(out, products[idx])
	}
	return out
}
