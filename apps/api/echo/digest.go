package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/digest"
)

type digestApi struct {
	svc digest.ServiceInterface
}

func registerDigestAPI(g *echo.Group, svc digest.ServiceInterface) {
	api := digestApi{svc: svc}

	dg := g.Group("/digests")
	dg.GET("", api.aggregate)
	dg.POST("", api.aggregate)
	dg.POST("/run", api.run)
}

// Handlers

// aggregate builds and emails the digest of ?userId, and responds with the digest.
// The send outcome does not change the response.
func (api *digestApi) aggregate(ctx echo.Context) error {
	userID := core.CleanString(ctx.QueryParam("userId"))
	if userID == "" {
		return errMissingUserID
	}

	res, err := api.svc.Aggregate(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "aggregating digest")
	}
	return ctx.JSON(http.StatusOK, res.Digest)
}

func (api *digestApi) run(ctx echo.Context) error {
	report, err := api.svc.Run(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "processing all users")
	}
	return ctx.JSON(http.StatusOK, report)
}
