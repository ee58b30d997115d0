package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID由存储层生成(mongo为ObjectID十六进制串,mysql为UUID),对外是不透明字符串
// 2. ISBN可选,存在时唯一(批量导入时作为自然键)
// 3. 评论通过Review.BookID弱引用图书,图书本身不持有评论
type Book struct {
	ID            string
	Title         string // 书名(必填)
	Author        string // 作者(必填)
	ISBN          string // ISBN号(可选)
	CoverImageURL string // 封面图片URL(可选)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// 书名和作者去除首尾空白后不能为空
func NewBook(title, author, isbn, coverImageURL string) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if author == "" {
		return nil, ErrAuthorRequired
	}

	now := time.Now().UTC()
	return &Book{
		Title:         title,
		Author:        author,
		ISBN:          strings.TrimSpace(isbn),
		CoverImageURL: strings.TrimSpace(coverImageURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Patch 部分更新字段,nil表示不修改
type Patch struct {
	Title         *string
	Author        *string
	ISBN          *string
	CoverImageURL *string
}

// IsEmpty 没有任何需要修改的字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil && p.CoverImageURL == nil
}

// Validate 校验部分更新:提供了书名/作者时不能为空
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Author != nil && strings.TrimSpace(*p.Author) == "" {
		return ErrAuthorRequired
	}
	return nil
}

// Apply 把部分更新应用到实体上(领域行为)
func (b *Book) Apply(p Patch) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		b.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.CoverImageURL != nil {
		b.CoverImageURL = strings.TrimSpace(*p.CoverImageURL)
	}
	b.UpdatedAt = time.Now().UTC()
}
