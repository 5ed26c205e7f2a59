package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/validate"
)

type sample struct {
	Content  string  `json:"content" validate:"required,max=10"`
	Category string  `json:"category" validate:"omitempty,category"`
	Duration float64 `json:"duration" validate:"omitempty,gt=0"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, validate.Struct(sample{Content: "hi", Category: "tv shows"}))

	err := validate.Struct(sample{})
	assert.True(t, svcErr.Is(err, svcErr.KindInvalidArgument))
	assert.EqualError(t, err, "content is required")

	err = validate.Struct(sample{Content: "this is far too long"})
	assert.EqualError(t, err, "content must be at most 10 characters")

	err = validate.Struct(sample{Content: "ok", Category: "cooking"})
	assert.Contains(t, err.Error(), "category must be one of")

	err = validate.Struct(sample{Content: "ok", Duration: -1})
	assert.EqualError(t, err, "duration must be greater than 0")
}

func TestTrim(t *testing.T) {
	a, b := "  hello ", "\tworld\n"
	validate.Trim(&a, &b, nil)
	assert.Equal(t, "hello", a)
	assert.Equal(t, "world", b)
}
