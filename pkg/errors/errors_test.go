package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, cause, "persist cart")

	require.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "persist cart", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeNotFound, "cart not found")
	wrapped := fmt.Errorf("loading cart: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	assert.Nil(t, As(stdErrors.New("boom")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestConsistencyErrorsSurfaceAsInternal(t *testing.T) {
	meta := MetadataFor(CodeConsistency)
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
	assert.Equal(t, "internal server error", meta.PublicMessage)
	assert.False(t, meta.DetailsAllowed)
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("duplicate key value")
	err := Wrap(CodeConflict, cause, "insert cart")

	dump := Dump(err)
	require.Equal(t, CodeConflict, dump.Code)
	assert.Len(t, dump.Chain, 2)
}
