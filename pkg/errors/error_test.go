package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("keeps the code of an application error", func(t *testing.T) {
		err := Wrap(NotFound("course not found"), "create order")
		assert.Equal(t, ErrNotFound, CodeOf(err))
		assert.Equal(t, "create order", err.(*AppError).Message())
	})

	t.Run("defaults to internal", func(t *testing.T) {
		cause := New("disk full")
		err := Wrap(cause, "save payment")
		assert.Equal(t, ErrInternal, CodeOf(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "noop"))
	})
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Forbidden("not your course"))
	assert.True(t, HasCode(err, ErrForbidden))
	assert.False(t, HasCode(err, ErrNotFound))
	assert.False(t, HasCode(nil, ErrForbidden))
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", NotFound("course not found"), http.StatusNotFound, "course not found"},
		{"invalid argument", InvalidArgument("courseId is required", nil), http.StatusBadRequest, "courseId is required"},
		{"unauthenticated", Unauthenticated("missing session"), http.StatusUnauthorized, "missing session"},
		{"forbidden", Forbidden("instructors only"), http.StatusForbidden, "instructors only"},
		{"upstream hides the cause", Upstream("payment gateway unavailable", New("key rzp_live rejected")), http.StatusBadGateway, "payment gateway unavailable"},
		{"echo error passes through", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unknown error is a bare 500", New("pq: connection refused"), http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := ToHTTPError(tt.err)
			require.NotNil(t, httpErr)
			assert.Equal(t, tt.status, httpErr.Code)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}

	assert.Nil(t, ToHTTPError(nil))
}

func TestFromHTTPError(t *testing.T) {
	err := FromHTTPError(echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	assert.Equal(t, ErrNotFound, CodeOf(err))

	err = FromHTTPError(echo.ErrUnsupportedMediaType)
	assert.Equal(t, ErrInvalidArgument, CodeOf(err))

	original := Forbidden("no")
	assert.Same(t, original, FromHTTPError(original))
}

func TestGetCodeMapping(t *testing.T) {
	httpStatus, grpcCode := GetCodeMapping(ErrUpstream)
	assert.Equal(t, http.StatusBadGateway, httpStatus)
	assert.Equal(t, 14, grpcCode)

	httpStatus, grpcCode = GetCodeMapping("SOMETHING_ELSE")
	assert.Equal(t, http.StatusInternalServerError, httpStatus)
	assert.Equal(t, 13, grpcCode)
}
