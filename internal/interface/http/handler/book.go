package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookreviews/internal/application/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/interface/http/dto"
	"github.com/xiebiao/bookreviews/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	getBookUseCase    *appbook.GetBookUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	topRatedUseCase   *appbook.TopRatedUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	topRatedUseCase *appbook.TopRatedUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		getBookUseCase:    getBookUseCase,
		updateBookUseCase: updateBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		topRatedUseCase:   topRatedUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// CreateBook 新建图书
// @Summary      新建图书
// @Description  title、author必填；isbn全局唯一
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} appbook.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.ValidationMessages(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBooks 分页查询图书
// @Summary      图书列表
// @Description  page默认1，limit默认10（最大100）；totalPages = ceil(total/limit)
// @Tags         图书
// @Produce      json
// @Param        page  query int false "页码" minimum(1) default(1)
// @Param        limit query int false "每页数量" minimum(1) maximum(100) default(10)
// @Success      200 {object} response.PageData[appbook.BookResponse]
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, dto.ValidationMessages(err))
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:  req.Page,
		Limit: req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, response.NewPageData(result.Books, result.Total, result.Page, result.Limit, result.TotalPages))
}

// TopRated 评分最高的图书
// @Summary      Top榜
// @Description  按平均评分降序；没有评论的书不会出现；limit<=0返回空数组
// @Tags         图书
// @Produce      json
// @Param        limit query int false "返回数量" default(5)
// @Success      200 {array}  appbook.TopRatedItem
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Router       /books/top [get]
func (h *BookHandler) TopRated(c *gin.Context) {
	var req dto.TopRatedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, dto.ValidationMessages(err))
		return
	}

	limit := rating.DefaultTopLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	items, err := h.topRatedUseCase.Execute(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, items)
}

// GetBook 查询图书详情（含评论）
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} appbook.BookDetailResponse
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.getBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  部分更新，未提供的字段保持不变
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} appbook.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Failure      409 {object} response.ErrorBody "ISBN已存在"
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.ValidationMessages(err))
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), c.Param("id"), appbook.UpdateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteBook 删除图书及其全部评论
// @Summary      删除图书
// @Description  先删除图书，成功后删除其全部评论；再次删除同一ID返回404
// @Tags         图书
// @Param        id path string true "图书ID"
// @Success      204 "删除成功"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Failure      500 {object} response.ErrorBody "评论级联删除失败"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
