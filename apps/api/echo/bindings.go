package echoapi

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/user"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func bindUserFilter(ctx echo.Context) (user.QueryFilter, error) {
	var filter user.QueryFilter
	err := echo.QueryParamsBinder(ctx).
		String("search", &filter.Search).
		Strings("role", &filter.Roles).
		Time("created_from", &filter.CreatedFrom, time.RFC3339).
		Time("created_to", &filter.CreatedTo, time.RFC3339).
		BindError()
	if err != nil {
		return filter, err
	}
	if v := ctx.QueryParam("is_active"); v != "" {
		active := v == "true" || v == "1"
		filter.IsActive = &active
	}
	filter.Clean()
	return filter, nil
}

func bindAcademicFilter(ctx echo.Context) (academic.Filter, error) {
	var filter academic.Filter
	err := echo.QueryParamsBinder(ctx).
		String("student_id", &filter.StudentID).
		String("subject_id", &filter.SubjectID).
		String("month", &filter.Month).
		Time("from", &filter.From, time.RFC3339).
		Time("to", &filter.To, time.RFC3339).
		BindError()
	return filter, err
}

func bindStudentFilter(ctx echo.Context) (academic.StudentFilter, error) {
	var filter academic.StudentFilter
	err := echo.QueryParamsBinder(ctx).
		String("search", &filter.Search).
		String("department", &filter.Department).
		Int("year", &filter.Year).
		BindError()
	return filter, err
}

func bindBookFilter(ctx echo.Context) (academic.BookFilter, error) {
	var filter academic.BookFilter
	err := echo.QueryParamsBinder(ctx).String("search", &filter.Search).BindError()
	if err != nil {
		return filter, err
	}
	if v := ctx.QueryParam("available"); v != "" {
		avail := v == "true" || v == "1"
		filter.Available = &avail
	}
	return filter, nil
}
