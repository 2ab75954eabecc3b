package transport

import (
	"errors"
	"net/http"

	"github.com/guregu/null/v6"
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/portage/internal/db"
	"github.com/beanbocchi/portage/internal/model"
	"github.com/beanbocchi/portage/internal/service"
	"github.com/beanbocchi/portage/pkg/response"
)

type ListTransfersRequest struct {
	model.PaginationParams
	OwnerID null.String `query:"owner_id" validate:"omitnil,min=1"`
}

func (h *Handler) ListTransfers(c echo.Context) error {
	var req ListTransfersRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	transfers, err := h.svc.ListTransfers(c.Request().Context(), service.ListTransfersParams{
		PaginationParams: req.PaginationParams,
		OwnerID:          req.OwnerID,
	})
	if err != nil {
		return response.FromError(c.Response().Writer, http.StatusInternalServerError, err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, response.PaginationResponse[db.Transfer]{
		Data:     transfers,
		PageMeta: response.NewPageMeta(req.GetPage(), req.GetLimit(), len(transfers)),
	})
}

type GetTransferRequest struct {
	TransferID string `param:"transfer_id" validate:"required,uuid"`
}

func (h *Handler) GetTransfer(c echo.Context) error {
	var req GetTransferRequest
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.FromError(c.Response().Writer, http.StatusBadRequest, err)
	}

	detail, err := h.svc.GetTransfer(c.Request().Context(), req.TransferID)
	if err != nil {
		if errors.Is(err, model.ErrResourceNotFound) {
			return response.FromError(c.Response().Writer, http.StatusNotFound, err)
		}
		return response.FromError(c.Response().Writer, http.StatusInternalServerError, err)
	}

	return response.FromDTO(c.Response().Writer, http.StatusOK, detail)
}
