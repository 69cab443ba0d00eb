package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := EntityNotFound("student", "홍길동")
	err := Wrap(inner, "chart request failed")

	assert.Equal(t, CodeEntityNotFound, GetCode(err))
	assert.True(t, stderrors.Is(err, inner))
	assert.Contains(t, err.Error(), "홍길동")
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "step 3: boom", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", SourceUnavailable("no data rows", nil))
	assert.Equal(t, CodeSourceUnavailable, GetCode(err))
	assert.True(t, HasCode(err, CodeSourceUnavailable))
	assert.False(t, HasCode(nil, CodeSourceUnavailable))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestSchemaIncompleteMessage(t *testing.T) {
	err := SchemaIncomplete([]string{"focus", "enjoyment"})
	assert.Equal(t, "missing columns: focus, enjoyment", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		InvalidInput("x"):                   http.StatusBadRequest,
		EntityNotFound("student", "x"):      http.StatusNotFound,
		SchemaIncomplete([]string{"x"}):     http.StatusUnprocessableEntity,
		SourceUnavailable("x", nil):         http.StatusBadGateway,
		RenderFailure("x", nil):             http.StatusInternalServerError,
		CredentialMissing("x"):              http.StatusPreconditionFailed,
		fmt.Errorf("untyped"):               http.StatusInternalServerError,
		ExternalServiceError("sheets", nil): http.StatusBadGateway,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), GetCode(err))
	}
}
