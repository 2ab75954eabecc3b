package transport

import (
	"errors"
	"net/http"

	"github.com/guregu/null/v6"
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/portage/internal/model"
	"github.com/beanbocchi/portage/internal/service"
	"github.com/beanbocchi/portage/pkg/response"
)

type RelayRequest struct {
	OwnerID    string      `json:"owner_id" validate:"required"`
	SourceURL  string      `json:"source_url" validate:"required,url"`
	Namespace  string      `json:"namespace" validate:"required"`
	ObjectName null.String `json:"object_name" validate:"omitnil,min=1"`
}

func (h *Handler) Relay(c echo.Context) error {
	var req RelayRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	res, err := h.svc.Relay(c.Request().Context(), service.RelayParams{
		OwnerID:    req.OwnerID,
		SourceURL:  req.SourceURL,
		Namespace:  req.Namespace,
		ObjectName: req.ObjectName,
	})
	if err != nil {
		var coded model.Error
		if errors.As(err, &coded) && coded.Code() == model.ErrOwnerBusy.Code() {
			return response.FromError(c.Response().Writer, http.StatusConflict, err)
		}
		return response.FromError(c.Response().Writer, http.StatusInternalServerError, err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusAccepted, res)
}
