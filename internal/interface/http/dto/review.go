package dto

// CreateReviewRequest HTTP发表评论请求
type CreateReviewRequest struct {
	ReviewerName string `json:"reviewerName" binding:"required,max=100" example:"Alice"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment      string `json:"comment" binding:"omitempty,min=10,max=2000" example:"A masterpiece of world building."`
}

// UpdateReviewRequest HTTP修改评论请求
type UpdateReviewRequest struct {
	ReviewerName *string `json:"reviewerName" binding:"omitempty,min=1,max=100" example:"Alice"`
	Rating       *int    `json:"rating" binding:"omitempty,min=1,max=5" example:"4"`
	Comment      *string `json:"comment" binding:"omitempty,max=2000" example:"Even better on a second read."`
}
