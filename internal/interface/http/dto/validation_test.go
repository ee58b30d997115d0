package dto

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestValidationMessages(t *testing.T) {
	t.Run("必填与长度", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&CreateBookRequest{Author: "x", CoverImageURL: "not a url"})

		msgs := ValidationMessages(err)
		assert.Contains(t, msgs, "title should not be empty")
		assert.Contains(t, msgs, "coverImageUrl must be a URL address")
	})

	t.Run("评分范围", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&CreateReviewRequest{ReviewerName: "a", Rating: 6, Comment: "short"})

		msgs := ValidationMessages(err)
		assert.Equal(t, []string{
			"rating must not be greater than 5",
			"comment must be longer than or equal to 10 characters",
		}, msgs)
	})

	t.Run("可选字段为空时通过", func(t *testing.T) {
		assert.NoError(t, binding.Validator.ValidateStruct(&UpdateReviewRequest{}))
		assert.NoError(t, binding.Validator.ValidateStruct(&ListBooksRequest{}))
	})

	t.Run("其他错误原样返回", func(t *testing.T) {
		assert.Equal(t, []string{"boom"}, ValidationMessages(errors.New("boom")))
	})
}

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"Title":         "title",
		"ReviewerName":  "reviewerName",
		"ISBN":          "isbn",
		"CoverImageURL": "coverImageUrl",
	}
	for in, want := range cases {
		assert.Equal(t, want, lowerFirst(in), in)
	}
}
