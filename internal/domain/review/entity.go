package review

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinRating 最低评分
	MinRating = 1
	// MaxRating 最高评分
	MaxRating = 5
	// MinCommentLength 评论内容最少字符数(提供评论时)
	MinCommentLength = 10
)

// Review 评论实体
// 设计说明:
// 1. BookID是对图书的弱引用,存储层不做外键约束
// 2. 创建时由领域服务校验图书存在,之后不再重复校验
// 3. 评论随图书删除而级联删除
type Review struct {
	ID           string
	BookID       string
	ReviewerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewReview 创建新评论(工厂方法)
func NewReview(bookID, reviewerName string, rating int, comment string) (*Review, error) {
	reviewerName = strings.TrimSpace(reviewerName)
	comment = strings.TrimSpace(comment)

	if err := validateReviewerName(reviewerName); err != nil {
		return nil, err
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Review{
		BookID:       bookID,
		ReviewerName: reviewerName,
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Patch 部分更新字段,nil表示不修改
type Patch struct {
	ReviewerName *string
	Rating       *int
	Comment      *string
}

// IsEmpty 没有任何需要修改的字段
func (p Patch) IsEmpty() bool {
	return p.ReviewerName == nil && p.Rating == nil && p.Comment == nil
}

// Validate 校验提供了的字段
func (p Patch) Validate() error {
	if p.ReviewerName != nil {
		if err := validateReviewerName(strings.TrimSpace(*p.ReviewerName)); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.Comment != nil {
		if err := validateComment(strings.TrimSpace(*p.Comment)); err != nil {
			return err
		}
	}
	return nil
}

// Apply 把部分更新应用到实体上
func (r *Review) Apply(p Patch) {
	if p.ReviewerName != nil {
		r.ReviewerName = strings.TrimSpace(*p.ReviewerName)
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = strings.TrimSpace(*p.Comment)
	}
	r.UpdatedAt = time.Now().UTC()
}

func validateReviewerName(name string) error {
	if name == "" {
		return ErrReviewerNameRequired
	}
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// 空评论合法,非空时至少MinCommentLength个字符
func validateComment(comment string) error {
	if comment != "" && utf8.RuneCountInString(comment) < MinCommentLength {
		return ErrCommentTooShort
	}
	return nil
}
