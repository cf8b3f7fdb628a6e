package echoapi

import (
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
	logsvc "github.com/trezcool/masomo-reports/services/logger"
)

func TestAppHTTPErrorHandler(t *testing.T) {
	conf := &core.Config{TestMode: true}
	handler := newAppHTTPErrorHandler(
		logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf),
		core.NewTranslator(),
	)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "not loaded",
			err:      errors.Wrap(assessment.ErrNoSnapshot, "building catalog"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error": "assessment data not loaded yet"}`,
		},
		{
			name:     "superseded refresh",
			err:      assessment.ErrStaleSnapshot,
			wantCode: http.StatusConflict,
			wantBody: `{"error": "snapshot superseded by a newer refresh"}`,
		},
		{
			name:     "unknown report kind",
			err:      errors.Wrapf(assessment.ErrUnknownReportKind, "%q", "weekly"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error": "unknown report kind"}`,
		},
		{
			name:     "field errors",
			err:      core.NewValidationError(nil, core.FieldError{Field: "class", Error: "unknown class"}),
			wantCode: http.StatusBadRequest,
			wantBody: `{"class": "unknown class"}`,
		},
		{
			name:     "http error",
			err:      echo.NewHTTPError(http.StatusMethodNotAllowed),
			wantCode: http.StatusMethodNotAllowed,
			wantBody: `{"error": "Method Not Allowed"}`,
		},
		{
			name:     "anything else",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error": "Internal Server Error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/reports", nil), rec)

			handler(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
