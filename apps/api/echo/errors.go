package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// domainErrors lists the service sentinel errors and their HTTP status.
var domainErrors = []struct {
	err  error
	code int
}{
	{academic.ErrNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},
	{notice.ErrNotFound, http.StatusNotFound},
	{academic.ErrNoCopiesAvailable, http.StatusConflict},
	{academic.ErrAllCopiesReturned, http.StatusConflict},
}

// errorResponse maps err to a status code and a response body.
// ok is false for unexpected errors, which are answered with a 500.
func errorResponse(err error, translator ut.Translator) (code int, body interface{}, ok bool) {
	cause := errors.Cause(err)
	switch e := cause.(type) {
	case *echo.HTTPError:
		// a missing token is reported as 400 by the JWT middleware
		if e == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, e.Message, true
		}
		return e.Code, e.Message, true
	case validator.ValidationErrors:
		return http.StatusBadRequest, core.TranslateValidationErrors(e, translator), true
	case *core.ValidationError:
		if len(e.Fields) == 0 {
			return http.StatusBadRequest, e.Error(), true
		}
		fields := make(map[string]string, len(e.Fields))
		for _, fe := range e.Fields {
			fields[fe.Field] = fe.Error
		}
		return http.StatusBadRequest, fields, true
	}

	for _, de := range domainErrors {
		if cause != de.err {
			continue
		}
		if de.code == http.StatusNotFound {
			return de.code, errHttpNotFound.Message, true
		}
		return de.code, cause.Error(), true
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false
}

// logServerError reports err along with the authenticated user, if any.
func logServerError(ctx echo.Context, logger core.Logger, err error) {
	msg := http.StatusText(http.StatusInternalServerError)
	var usr user.User
	if claims, cErr := getContextClaims(ctx); cErr == nil {
		usr.ID = claims.Subject
		usr.Username = claims.Username
		usr.Email = claims.Email
	}
	logger.Error(msg, errors.Wrap(err, msg), usr)
}

// newAppHTTPErrorHandler returns the echo.HTTPErrorHandler of the API.
// signalShutdown is called to gracefully stop the Server when a core shutdown error comes up.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, body, ok := errorResponse(err, translator)
		if !ok {
			logServerError(ctx, logger, err)
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				body = err.Error()
			}
		}
		if m, isStr := body.(string); isStr {
			body = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, body)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
