package domain

// ResolveTier computes the final tier for a verified purchase. The caller
// hint wins when positive, else the on-chain SKU, else 1. The configured
// offset is added and the result is clamped up to minTier.
func ResolveTier(hint *int64, sku int64, offset, minTier int64) int64 {
	tier := int64(1)
	switch {
	case hint != nil && *hint > 0:
		tier = *hint
	case sku > 0:
		tier = sku
	}

	tier += offset
	if tier < minTier {
		tier = minTier
	}
	return tier
}
