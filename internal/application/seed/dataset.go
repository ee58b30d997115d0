package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record 数据集中的一行:一本书加一条评论
// 同一本书(按ISBN)可以出现多次,每次携带不同的评论
type Record struct {
	BookTitle    string `json:"Book.title"`
	BookAuthor   string `json:"Book.author"`
	BookISBN     string `json:"Book.isbn"`
	BookCoverURL string `json:"Book.coverUrl"`
	ReviewerName string `json:"Review.reviewerName"`
	Rating       int    `json:"Review.rating"`
	Comment      string `json:"Review.comment"`
}

// isbnKey 去重与图书查找共用的ISBN键,与CreateBook保存的ISBN一致(去掉首尾空白)
func (r Record) isbnKey() string {
	return strings.TrimSpace(r.BookISBN)
}

// LoadDataset 解析JSON数组格式的数据集
func LoadDataset(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return records, nil
}

// LoadDatasetFile 从文件读取数据集
func LoadDatasetFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}
