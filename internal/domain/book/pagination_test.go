package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		in    PageRequest
		page  int
		limit int
	}{
		{"零值使用默认值", PageRequest{}, 1, 10},
		{"正常参数保持不变", PageRequest{Page: 3, Limit: 20}, 3, 20},
		{"负页码夹到1", PageRequest{Page: -2, Limit: 5}, 1, 5},
		{"limit超过上限被截断", PageRequest{Page: 1, Limit: 1000}, 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.limit, got.Limit)
			assert.GreaterOrEqual(t, got.Offset(), 0)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 5, PageRequest{Page: 2, Limit: 5}.Offset())
	assert.Equal(t, 40, PageRequest{Page: 5, Limit: 10}.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 2, TotalPages(10, 5))
	assert.Equal(t, 0, TotalPages(10, 0))

	// 任意total/limit下都等于向上取整
	for total := int64(0); total <= 50; total++ {
		for limit := 1; limit <= 12; limit++ {
			want := int((total + int64(limit) - 1) / int64(limit))
			assert.Equal(t, want, TotalPages(total, limit), "total=%d limit=%d", total, limit)
		}
	}
}
