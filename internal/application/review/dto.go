package review

import (
	"time"

	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// ReviewResponse 评论响应DTO
// 字段名与前端约定一致(_id、camelCase)
type ReviewResponse struct {
	ID           string    `json:"_id"`
	BookID       string    `json:"bookId"`
	ReviewerName string    `json:"reviewerName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewReviewResponse 实体转响应DTO
func NewReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		BookID:       r.BookID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// NewReviewResponses 批量转换,nil转为空切片
func NewReviewResponses(reviews []*review.Review) []ReviewResponse {
	list := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		list[i] = NewReviewResponse(r)
	}
	return list
}
