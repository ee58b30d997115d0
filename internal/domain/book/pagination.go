package book

const (
	// DefaultPage 默认页码
	DefaultPage = 1
	// DefaultLimit 默认每页数量
	DefaultLimit = 10
	// MaxLimit 每页最大数量
	MaxLimit = 100
)

// PageRequest 分页请求,零值表示使用默认值
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize 参数默认值与范围限制
// page<1夹到1(避免负偏移),limit<1取默认值,limit>MaxLimit截断
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

// Offset 跳过的记录数:(page-1)*limit
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Page 一页图书
type Page struct {
	Books      []*Book
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TotalPages 计算总页数:ceil(total/limit),total=0时为0
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
