package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/user"
)

type academicApi struct {
	svc *academic.Service
}

func registerAcademicAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc *academic.Service) {
	api := academicApi{svc: svc}
	admin := adminMiddleware(usrSvc)

	sg := g.Group("/students", jwt)
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent, admin)
	sg.GET("/:id", api.retrieveStudent)
	sg.DELETE("/:id", api.destroyStudent, admin)
	sg.GET("/:id/attendance-status", api.attendanceStatus)

	subg := g.Group("/subjects", jwt)
	subg.GET("", api.querySubjects)
	subg.POST("", api.createSubject, admin)
	subg.DELETE("/:id", api.destroySubject, admin)

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.queryAttendance)
	ag.POST("", api.recordAttendance, admin)
	ag.DELETE("/:id", api.destroyAttendance, admin)
	ag.GET("/daily", api.queryDaily)
	ag.POST("/daily", api.markDaily, admin)

	mg := g.Group("/marks", jwt)
	mg.GET("", api.queryMarks)
	mg.POST("", api.recordMark, admin)
	mg.PUT("/:id", api.updateMark, admin)
	mg.DELETE("/:id", api.destroyMark, admin)

	bg := g.Group("/books", jwt)
	bg.GET("", api.queryBooks)
	bg.POST("", api.addBook, admin)
	bg.DELETE("/:id", api.destroyBook, admin)
	bg.POST("/:id/issue", api.issueBook, admin)
	bg.POST("/:id/return", api.returnBook, admin)
}

// Students

func (api *academicApi) createStudent(ctx echo.Context) error {
	var data academic.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	st, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *academicApi) queryStudents(ctx echo.Context) error {
	filter, err := bindStudentFilter(ctx)
	if err != nil {
		return ctx.JSON(http.StatusOK, []academic.Student{})
	}
	students, err := api.svc.ListStudents(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []academic.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *academicApi) retrieveStudent(ctx echo.Context) error {
	st, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *academicApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) attendanceStatus(ctx echo.Context) error {
	totals, err := api.svc.AttendanceStatus(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, totals)
}

// Subjects

func (api *academicApi) createSubject(ctx echo.Context) error {
	var data academic.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	subj, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, subj)
}

func (api *academicApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.ListSubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []academic.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *academicApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Attendance

func (api *academicApi) recordAttendance(ctx echo.Context) error {
	var data academic.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	att, err := api.svc.RecordAttendance(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *academicApi) queryAttendance(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return ctx.JSON(http.StatusOK, []academic.Attendance{})
	}
	atts, err := api.svc.ListAttendance(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if atts == nil {
		atts = []academic.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}

func (api *academicApi) destroyAttendance(ctx echo.Context) error {
	if err := api.svc.DeleteAttendance(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) markDaily(ctx echo.Context) error {
	var data academic.NewDailyAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDailyAttendance")
	}
	daily, err := api.svc.MarkDaily(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, daily)
}

func (api *academicApi) queryDaily(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return ctx.JSON(http.StatusOK, []academic.DailyAttendance{})
	}
	dailies, err := api.svc.ListDaily(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying daily attendance")
	}
	if dailies == nil {
		dailies = []academic.DailyAttendance{}
	}
	return ctx.JSON(http.StatusOK, dailies)
}

// Marks

func (api *academicApi) recordMark(ctx echo.Context) error {
	var data academic.NewMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}
	mark, err := api.svc.RecordMark(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mark)
}

func (api *academicApi) queryMarks(ctx echo.Context) error {
	filter, err := bindAcademicFilter(ctx)
	if err != nil {
		return ctx.JSON(http.StatusOK, []academic.Mark{})
	}
	marks, err := api.svc.ListMarks(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	if marks == nil {
		marks = []academic.Mark{}
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *academicApi) updateMark(ctx echo.Context) error {
	var data academic.UpdateMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMark")
	}
	mark, err := api.svc.UpdateMark(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mark)
}

func (api *academicApi) destroyMark(ctx echo.Context) error {
	if err := api.svc.DeleteMark(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Library

func (api *academicApi) addBook(ctx echo.Context) error {
	var data academic.NewBook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBook")
	}
	book, err := api.svc.AddBook(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, book)
}

func (api *academicApi) queryBooks(ctx echo.Context) error {
	filter, err := bindBookFilter(ctx)
	if err != nil {
		return ctx.JSON(http.StatusOK, []academic.Book{})
	}
	books, err := api.svc.ListBooks(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying books")
	}
	if books == nil {
		books = []academic.Book{}
	}
	return ctx.JSON(http.StatusOK, books)
}

func (api *academicApi) destroyBook(ctx echo.Context) error {
	if err := api.svc.DeleteBook(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) issueBook(ctx echo.Context) error {
	book, err := api.svc.IssueBook(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, book)
}

func (api *academicApi) returnBook(ctx echo.Context) error {
	book, err := api.svc.ReturnBook(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, book)
}
