package book

import (
	"net/http"

	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	// 对外消息通过 ErrBookNotFound.Withf 带上ID
	ErrBookNotFound = apperrors.New(http.StatusNotFound, "Book not found")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(http.StatusConflict, "A book with this ISBN already exists")

	// ErrTitleRequired 书名为空
	ErrTitleRequired = apperrors.New(http.StatusBadRequest, "Title cannot be empty.")

	// ErrAuthorRequired 作者为空
	ErrAuthorRequired = apperrors.New(http.StatusBadRequest, "Author cannot be empty.")

	// ErrCascadeIncomplete 图书已删除,但评论级联删除失败(存在孤儿评论)
	// 不回滚图书删除,只把缺口暴露给调用方
	ErrCascadeIncomplete = apperrors.New(http.StatusInternalServerError, "Book deleted but its reviews could not be removed")
)

// NotFound 带ID的404错误,消息格式与原接口一致
func NotFound(id string) error {
	return ErrBookNotFound.Withf("Book with ID %q not found", id)
}
