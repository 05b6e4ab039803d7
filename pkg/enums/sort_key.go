package enums

import "fmt"

// SortKey selects the ordering applied to the filtered catalog view.
type SortKey string

const (
	SortKeyName      SortKey = "name"
	SortKeyPriceLow  SortKey = "price-low"
	SortKeyPriceHigh SortKey = "price-high"
	SortKeyNewest    SortKey = "newest"
)

var validSortKeys = []SortKey{
	SortKeyName,
	SortKeyPriceLow,
	SortKeyPriceHigh,
	SortKeyNewest,
}

// String implements fmt.Stringer.
func (k SortKey) String() string {
	return string(k)
}

// IsValid reports whether the value is a known SortKey.
func (k SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey.
func ParseSortKey(value string) (SortKey, error) {
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
