package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name    string
		hint    *int64
		sku     int64
		offset  int64
		minTier int64
		want    int64
	}{
		{"sku drives tier", nil, 5, 0, 1, 5},
		{"offset applied to sku", nil, 5, 2, 1, 7},
		{"clamped up to min tier", nil, 1, 0, 3, 3},
		{"hint wins over sku", int64Ptr(4), 5, 0, 1, 4},
		{"zero hint falls back to sku", int64Ptr(0), 5, 0, 1, 5},
		{"negative hint falls back to sku", int64Ptr(-2), 5, 0, 1, 5},
		{"no hint no sku defaults to 1", nil, 0, 0, 1, 1},
		{"offset applied to hint", int64Ptr(3), 5, 1, 1, 4},
		{"default with offset", nil, 0, 2, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTier(tt.hint, tt.sku, tt.offset, tt.minTier)
			assert.Equal(t, tt.want, got)
		})
	}
}
