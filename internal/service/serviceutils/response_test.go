package serviceutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	testCases := map[string]struct {
		err  error
		want int
	}{
		"invalid range":         {err: fmt.Errorf("parse: %w", domain.ErrInvalidDateRange), want: http.StatusBadRequest},
		"invalid create":        {err: domain.ErrInvalidRecord, want: http.StatusBadRequest},
		"invalid stored record": {err: fmt.Errorf("%w: sales: %w", domain.ErrDataUnavailable, domain.ErrInvalidRecord), want: http.StatusServiceUnavailable},
		"provider down":         {err: fmt.Errorf("%w: rules", domain.ErrDataUnavailable), want: http.StatusServiceUnavailable},
		"archive disabled":      {err: domain.ErrArchiveDisabled, want: http.StatusServiceUnavailable},
		"read only":             {err: domain.ErrReadOnlyProvider, want: http.StatusNotImplemented},
		"not found":             {err: domain.ErrNotFound, want: http.StatusNotFound},
		"unknown":               {err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFromError(tc.err))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, ResponseSuccess(c, http.StatusOK, "ok", map[string]int{"n": 1}))

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Message)
	assert.Empty(t, body.Error)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, ResponseError(c, http.StatusBadRequest, "Invalid dates", domain.ErrInvalidDateRange))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = APIResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "invalid date range", body.Error)
}
