package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrConflict, KindOf(fmt.Errorf("insert taxpayer: %w", Conflict("duplicate"))))
	assert.Equal(t, ErrNotFound, KindOf(ErrNotFound))
	assert.Nil(t, KindOf(errors.New("dial tcp: refused")))
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("commit transaction: %w", fmt.Errorf("insert taxpayer: %w", Conflict("Taxpayer with this TIN already exists")))
	assert.Equal(t, "Taxpayer with this TIN already exists", MessageOf(wrapped))
	assert.Equal(t, "employer x not found", MessageOf(BadRequest("employer %s not found", "x")))
	assert.Equal(t, "forbidden", MessageOf(fmt.Errorf("load: %w", ErrForbidden)))
	assert.Empty(t, MessageOf(errors.New("connection reset by peer")))
}
