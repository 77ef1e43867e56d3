package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

type noticeApi struct {
	svc *notice.Service
}

func registerNoticeAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc *notice.Service) {
	api := noticeApi{svc: svc}

	ng := g.Group("/notices", jwt)
	ng.GET("", api.query)
	ng.POST("", api.publish, adminMiddleware(usrSvc))
	ng.GET("/:id", api.retrieve)
	ng.DELETE("/:id", api.destroy, adminMiddleware(usrSvc))
}

func (api *noticeApi) publish(ctx echo.Context) error {
	var data notice.NewNotice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.Publish(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *noticeApi) query(ctx echo.Context) error {
	filter := notice.QueryFilter{Audience: ctx.QueryParam("audience")}
	notices, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	if notices == nil {
		notices = []notice.Notice{}
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *noticeApi) retrieve(ctx echo.Context) error {
	n, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noticeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
