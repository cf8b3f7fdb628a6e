package echoapi

import (
	"context"
	"net/http"
	"regexp"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
)

var (
	assessmentRefTag   = "assessmentref"
	assessmentRefText  = "{0} must look like test:<id> or exam:<id>"
	assessmentRefRegex = regexp.MustCompile(`^(test|exam):[\w-]+$`)
)

func registerReportValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(assessmentRefTag, func(fl validator.FieldLevel) bool {
		return assessmentRefRegex.MatchString(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, assessmentRefTag, assessmentRefText)
}

type (
	catalogRequest struct {
		ClassID string `query:"class_id" json:"class_id" validate:"omitempty,max=64,recordid"`
	}

	catalogResponse struct {
		Snapshot    assessment.SnapshotInfo `json:"snapshot"`
		Assessments []assessment.Assessment `json:"assessments"`
	}

	reportRequest struct {
		Kind         string `param:"kind" json:"kind" validate:"required,oneof=test-results class-summary subject-summary top-performers"`
		ClassID      string `query:"class_id" json:"class_id" validate:"omitempty,max=64,recordid"`
		SubjectID    string `query:"subject_id" json:"subject_id" validate:"omitempty,max=64,recordid"`
		AssessmentID string `query:"assessment_id" json:"assessment_id" validate:"omitempty,max=80,assessmentref"`
	}
)

func (r *reportRequest) clean() {
	r.Kind = core.CleanString(r.Kind, true)
	r.ClassID = core.CleanString(r.ClassID)
	r.SubjectID = core.CleanString(r.SubjectID)
	r.AssessmentID = core.CleanString(r.AssessmentID)
}

func (r reportRequest) filter() assessment.Filter {
	return assessment.Filter{ClassID: r.ClassID, SubjectID: r.SubjectID, AssessmentRef: r.AssessmentID}
}

type reportApi struct {
	svc      assessment.ServiceInterface
	metrics  *Metrics
	logger   core.Logger
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, deps ServerDeps) {
	api := reportApi{
		svc:      deps.ReportSvc,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		validate: deps.Validate,
	}

	g.GET("/assessments", api.catalog)
	g.GET("/reports", api.reportKinds)
	g.GET("/reports/:kind", api.report)
	g.GET("/snapshot", api.snapshotInfo)
	g.POST("/snapshot/refresh", api.refresh)
}

// Handlers

func (api *reportApi) catalog(ctx echo.Context) error {
	var req catalogRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to catalogRequest")
	}
	req.ClassID = core.CleanString(req.ClassID)
	if err := api.validate.Struct(req); err != nil {
		return err
	}

	info, err := api.svc.Info()
	if err != nil {
		return errors.Wrap(err, "getting snapshot info")
	}
	list, err := api.svc.Catalog(req.ClassID)
	if err != nil {
		return errors.Wrap(err, "building catalog")
	}
	return ctx.JSON(http.StatusOK, catalogResponse{Snapshot: info, Assessments: list})
}

func (api *reportApi) reportKinds(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, assessment.ReportKinds)
}

func (api *reportApi) report(ctx echo.Context) error {
	var req reportRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to reportRequest")
	}
	req.clean()
	if err := api.validate.Struct(req); err != nil {
		return err
	}

	start := time.Now()
	rep, err := api.svc.Report(assessment.ReportKind(req.Kind), req.filter())
	if err != nil {
		return errors.Wrapf(err, "computing %s report", req.Kind)
	}
	api.metrics.ObserveReport(req.Kind, time.Since(start))

	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) snapshotInfo(ctx echo.Context) error {
	info, err := api.svc.Info()
	if err != nil {
		return errors.Wrap(err, "getting snapshot info")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *reportApi) refresh(ctx echo.Context) error {
	info, err := Refresh(ctx.Request().Context(), api.svc, api.metrics, api.logger)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, info)
}

// Refresh reloads the report data and records the outcome.
func Refresh(ctx context.Context, svc assessment.ServiceInterface, metrics *Metrics, logger core.Logger) (assessment.SnapshotInfo, error) {
	info, err := svc.Refresh(ctx)
	switch {
	case err == nil:
		metrics.CountRefresh(RefreshOK)
		logger.Info("snapshot refreshed", map[string]interface{}{
			"generation": info.Generation,
			"tests":      info.Tests,
			"exams":      info.Exams,
		})
	case errors.Cause(err) == assessment.ErrStaleSnapshot:
		metrics.CountRefresh(RefreshStale)
		logger.Warn("snapshot refresh superseded")
	default:
		metrics.CountRefresh(RefreshError)
		return info, errors.Wrap(err, "refreshing snapshot")
	}
	return info, err
}
