package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
)

type curriculumApi struct {
	svc      curriculum.ServiceInterface
	validate *validator.Validate
}

func registerCurriculumAPI(g *echo.Group, svc curriculum.ServiceInterface, validate *validator.Validate) {
	api := curriculumApi{svc: svc, validate: validate}

	cg := g.Group("/users/:id/curricula")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:cid", api.retrieve)
	cg.PUT("/:cid", api.update)
}

// Handlers

func (api *curriculumApi) query(ctx echo.Context) error {
	filter := curriculum.QueryFilter{Status: curriculum.Status(ctx.QueryParam("status"))}
	if filter.Status != "" && !filter.Status.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid curriculum status"})
	}

	curricula, err := api.svc.QueryByUser(ctx.Request().Context(), ctx.Param("id"), filter)
	if err != nil {
		return errors.Wrap(err, "querying curricula")
	}
	return ctx.JSON(http.StatusOK, curricula)
}

func (api *curriculumApi) create(ctx echo.Context) error {
	var data curriculum.NewCurriculum
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCurriculum")
	}
	data.UserID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating curriculum")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *curriculumApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), ctx.Param("cid"))
	if err != nil {
		return errors.Wrap(err, "getting curriculum")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *curriculumApi) update(ctx echo.Context) error {
	var data curriculum.UpdateCurriculum
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCurriculum")
	}
	data.UserID = ctx.Param("id")
	data.ID = ctx.Param("cid")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating curriculum")
	}
	return ctx.JSON(http.StatusOK, c)
}
