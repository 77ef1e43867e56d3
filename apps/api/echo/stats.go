package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/stats"
	"github.com/trezcool/chuo/core/user"
)

type statsApi struct {
	svc *academic.Service
}

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc *academic.Service) {
	api := statsApi{svc: svc}

	sg := g.Group("/stats", jwt, adminMiddleware(usrSvc))
	sg.GET("/overview", api.overview)
	sg.GET("/attendance/monthly", api.monthlyAttendance)
	sg.GET("/attendance/daily", api.dailyAttendance)
	sg.GET("/attendance/status", api.statusDistribution)
	sg.GET("/marks/distribution", api.marksDistribution)
	sg.GET("/subjects/performance", api.subjectPerformance)
	sg.GET("/grades", api.gradeGroups)
	sg.GET("/library", api.library)
}

func (api *statsApi) overview(ctx echo.Context) error {
	ov, err := api.svc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *statsApi) monthlyAttendance(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	summaries, err := api.svc.MonthlyAttendance(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing monthly attendance")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *statsApi) dailyAttendance(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	summaries, err := api.svc.DailyAttendance(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing daily attendance")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *statsApi) statusDistribution(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hist, err := api.svc.StatusDistribution(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing status distribution")
	}
	return ctx.JSON(http.StatusOK, hist)
}

func (api *statsApi) marksDistribution(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	buckets, err := api.svc.MarksDistribution(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing marks distribution")
	}
	return ctx.JSON(http.StatusOK, buckets)
}

func (api *statsApi) subjectPerformance(ctx echo.Context) error {
	summaries, err := api.svc.SubjectPerformance(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing subject performance")
	}
	if summaries == nil {
		summaries = []stats.SubjectPerformanceSummary{}
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *statsApi) gradeGroups(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hist, err := api.svc.GradeGroups(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing grade groups")
	}
	return ctx.JSON(http.StatusOK, hist)
}

func (api *statsApi) library(ctx echo.Context) error {
	avail, err := api.svc.LibraryAvailability(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing library availability")
	}
	return ctx.JSON(http.StatusOK, avail)
}
