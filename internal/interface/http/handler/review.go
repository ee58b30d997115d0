package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookreviews/internal/application/review"
	"github.com/xiebiao/bookreviews/internal/interface/http/dto"
	"github.com/xiebiao/bookreviews/pkg/response"
)

// ReviewHandler 评论HTTP处理器
type ReviewHandler struct {
	createReviewUseCase *appreview.CreateReviewUseCase
	listReviewsUseCase  *appreview.ListReviewsUseCase
	updateReviewUseCase *appreview.UpdateReviewUseCase
	deleteReviewUseCase *appreview.DeleteReviewUseCase
}

// NewReviewHandler 创建评论处理器
func NewReviewHandler(
	createReviewUseCase *appreview.CreateReviewUseCase,
	listReviewsUseCase *appreview.ListReviewsUseCase,
	updateReviewUseCase *appreview.UpdateReviewUseCase,
	deleteReviewUseCase *appreview.DeleteReviewUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createReviewUseCase: createReviewUseCase,
		listReviewsUseCase:  listReviewsUseCase,
		updateReviewUseCase: updateReviewUseCase,
		deleteReviewUseCase: deleteReviewUseCase,
	}
}

// CreateReview 发表评论
// @Summary      发表评论
// @Description  rating取值1~5；comment可选，提供时至少10个字符
// @Tags         评论
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "图书ID"
// @Param        request body dto.CreateReviewRequest true "评论内容"
// @Success      201 {object} appreview.ReviewResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.ValidationMessages(err))
		return
	}

	result, err := h.createReviewUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		BookID:       c.Param("id"),
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReviews 查询图书的评论
// @Summary      评论列表
// @Tags         评论
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {array}  appreview.ReviewResponse
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	result, err := h.listReviewsUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateReview 修改评论
// @Summary      修改评论
// @Tags         评论
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "评论ID"
// @Param        request body dto.UpdateReviewRequest true "修改内容"
// @Success      200 {object} appreview.ReviewResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "评论不存在"
// @Router       /reviews/{id} [patch]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.ValidationMessages(err))
		return
	}

	result, err := h.updateReviewUseCase.Execute(c.Request.Context(), c.Param("id"), appreview.UpdateReviewRequest{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteReview 删除评论，返回被删除的评论
// @Summary      删除评论
// @Tags         评论
// @Produce      json
// @Param        id path string true "评论ID"
// @Success      200 {object} appreview.ReviewResponse
// @Failure      404 {object} response.ErrorBody "评论不存在"
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	result, err := h.deleteReviewUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}
