// Package rangedelivery exposes the inclusive range check over http.
package rangedelivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/bank-account/pkg/validatorpkg"
	"github.com/go-petr/bank-account/pkg/web"
)

// Handler serves range check requests.
type Handler struct{}

// NewHandler returns range handler.
func NewHandler() Handler {
	return Handler{}
}

// Pointers let an explicit zero pass the required check.
type checkRequest struct {
	Value *float64 `form:"value" binding:"required"`
	Min   *float64 `form:"min" binding:"required"`
	Max   *float64 `form:"max" binding:"required"`
}

type data struct {
	WithinRange bool `json:"within_range"`
}

// Check handles http request to check whether value lies within [min, max].
func (h *Handler) Check(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req checkRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	ok, err := validatorpkg.IsWithinRange(*req.Value, *req.Min, *req.Max)
	if err != nil {
		l.Info().Err(err).Float64("min", *req.Min).Float64("max", *req.Max).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{WithinRange: ok}})
}
