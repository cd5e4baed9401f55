package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/rick"
	"github.com/trezcool/gradebook/core/rick/format"
)

type (
	ChatRequest struct {
		Message string `json:"message" validate:"required,notblank,max=500"`
	}

	DigestResponse struct {
		Response   string      `json:"response"`
		Structured interface{} `json:"structured"`
	}
)

func (r ChatRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type rickApi struct {
	svc      *rick.Service
	validate *validator.Validate
}

func registerRickAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *rick.Service, validate *validator.Validate) {
	api := rickApi{svc: svc, validate: validate}

	rg := g.Group("/rick", jwt)
	rg.POST("/chat", api.chat)
	rg.GET("/digest", api.digest)
}

// Handlers

func (api *rickApi) chat(ctx echo.Context) error {
	teacherID, err := contextTeacherID(ctx)
	if err != nil {
		return err
	}

	var data ChatRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.HandleQuery(ctx.Request().Context(), data.Message, teacherID)
	if err != nil {
		return errors.Wrap(err, "handling query")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *rickApi) digest(ctx echo.Context) error {
	teacherID, err := contextTeacherID(ctx)
	if err != nil {
		return err
	}

	d, err := api.svc.Digest(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "building digest")
	}
	return ctx.JSON(http.StatusOK, DigestResponse{Response: format.Digest(d), Structured: d})
}
