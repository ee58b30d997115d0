package review

import (
	"net/http"

	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// 评论领域错误定义
var (
	ErrReviewNotFound       = apperrors.New(http.StatusNotFound, "Review not found")
	ErrReviewerNameRequired = apperrors.New(http.StatusBadRequest, "Reviewer name cannot be empty.")
	ErrInvalidRating        = apperrors.New(http.StatusBadRequest, "Rating must be an integer between 1 and 5.")
	ErrCommentTooShort      = apperrors.New(http.StatusBadRequest, "Comment must be at least 10 characters long.")
)

// NotFound 带ID的404错误
func NotFound(id string) error {
	return ErrReviewNotFound.Withf("Review with ID %q not found", id)
}
