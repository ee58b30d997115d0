package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationMessages 把绑定错误转换为字段提示列表
// 例如:["title should not be empty", "rating must not be greater than 5"]
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, fieldMessage(fe))
		}
		return messages
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String())}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []string{"request body is not valid JSON"}
	}

	return []string{err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	case "url":
		return field + " must be a URL address"
	}
	return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
}

// lowerFirst 结构体字段名转JSON风格(ReviewerName → reviewerName, CoverImageURL → coverImageUrl)
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s == "ISBN" {
		return "isbn"
	}
	if strings.HasSuffix(s, "URL") {
		s = strings.TrimSuffix(s, "URL") + "Url"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
