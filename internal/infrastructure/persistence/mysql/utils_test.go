package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDuplicateError(errors.New("Error 1062: Duplicate entry '978' for key 'idx_books_isbn'")))
	assert.False(t, isDuplicateError(errors.New("connection refused")))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID(uuid.NewString()))
	assert.False(t, validID("65a1f0c2e4b0a1b2c3d4e5f6"))
	assert.False(t, validID(""))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "978", *nullable("978"))
	assert.Equal(t, "", deref(nil))
	assert.Equal(t, "978", deref(nullable("978")))
}

func TestToBookEntity(t *testing.T) {
	isbn := "9780441013593"
	b := toBookEntity(&BookModel{ID: "id-1", Title: "Dune", ISBN: &isbn})
	assert.Equal(t, "9780441013593", b.ISBN)

	b = toBookEntity(&BookModel{ID: "id-2", Title: "No ISBN"})
	assert.Empty(t, b.ISBN)
}
