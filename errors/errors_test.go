package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WrapStorage(nil, "context"))
	assert.False(t, IsStorageError(nil))
	assert.False(t, IsInvalidArgumentError(nil))
	assert.False(t, IsNotFoundError(nil))
}

func TestDomainConstructors(t *testing.T) {
	t.Run("storage", func(t *testing.T) {
		err := NewStorageError("bad header %q", "Day,Cups")
		assert.True(t, IsStorageError(err))
		assert.False(t, IsInvalidArgumentError(err))
		assert.Contains(t, err.Error(), `bad header "Day,Cups"`)
	})

	t.Run("invalid argument", func(t *testing.T) {
		err := NewInvalidArgumentError("day must be positive, got %d", 0)
		assert.True(t, IsInvalidArgumentError(err))
		assert.False(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), "day must be positive, got 0")
	})

	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("menu item %q", "Mocha")
		assert.True(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), `menu item "Mocha"`)
	})
}

func TestWrapStorage_KeepsCause(t *testing.T) {
	cause := New("disk full")

	err := WrapStorage(cause, "failed to read sales file")

	assert.True(t, IsStorageError(err))
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "failed to read sales file")
}

func TestErrorChaining(t *testing.T) {
	err := NewStorageError("corrupt row 3")
	err = WithHint(err, "remove or repair the sales file")
	err = Wrap(err, "failed to initialize engine")

	assert.True(t, IsStorageError(err))
	assert.Contains(t, err.Error(), "failed to initialize engine")
	assert.Contains(t, GetAllHints(err), "remove or repair the sales file")
}

func ExampleWrap() {
	baseErr := New("permission denied")
	err := Wrap(baseErr, "failed to write sales file")
	fmt.Println(err)
	// Output: failed to write sales file: permission denied
}

func ExampleNewInvalidArgumentError() {
	err := NewInvalidArgumentError("unknown taste %q", "sour")
	fmt.Println(err)
	// Output: unknown taste "sour": invalid argument
}
