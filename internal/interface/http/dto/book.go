package dto

// CreateBookRequest HTTP创建图书请求
// validator tag说明:
// - required: 必填字段
// - max: 长度上限
// - url: 提供时必须是合法URL
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,max=200" example:"Dune"`
	Author        string `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	ISBN          string `json:"isbn" binding:"omitempty,max=20" example:"9780441013593"`
	CoverImageURL string `json:"coverImageUrl" binding:"omitempty,url,max=500" example:"https://covers.openlibrary.org/b/isbn/9780441013593-L.jpg"`
}

// UpdateBookRequest HTTP修改图书请求
// 字段全部可选,未出现的字段不修改
type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=200" example:"Dune Messiah"`
	Author        *string `json:"author" binding:"omitempty,min=1,max=100" example:"Frank Herbert"`
	ISBN          *string `json:"isbn" binding:"omitempty,max=20" example:"9780593098233"`
	CoverImageURL *string `json:"coverImageUrl" binding:"omitempty,max=500" example:"https://example.com/cover.jpg"`
}

// ListBooksRequest HTTP图书列表请求
// 未提供时page=1、limit=10
type ListBooksRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
}

// TopRatedRequest HTTP Top榜请求
// Limit为nil时使用默认值5;显式传0或负数返回空列表
type TopRatedRequest struct {
	Limit *int `form:"limit" example:"5"`
}

