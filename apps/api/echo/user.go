package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core/digest"
	"github.com/truongductri01/daily-spark/core/user"
)

type userApi struct {
	svc       user.ServiceInterface
	digestSvc digest.ServiceInterface
	validate  *validator.Validate
}

type countResponse struct {
	Count int `json:"count"`
}

func registerUserAPI(g *echo.Group, svc user.ServiceInterface, digestSvc digest.ServiceInterface, validate *validator.Validate) {
	api := userApi{
		svc:       svc,
		digestSvc: digestSvc,
		validate:  validate,
	}

	ug := g.Group("/users")
	ug.POST("", api.create)
	ug.GET("/count", api.count)

	// detail endpoints
	dg := ug.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.GET("/topics", api.topics)
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) count(ctx echo.Context) error {
	n, err := api.svc.Count(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	return ctx.JSON(http.StatusOK, countResponse{Count: n})
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	data.ID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Update(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

// topics previews the digest of the user, without sending it.
func (api *userApi) topics(ctx echo.Context) error {
	dgst, err := api.digestSvc.Preview(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "previewing digest")
	}
	return ctx.JSON(http.StatusOK, dgst)
}
