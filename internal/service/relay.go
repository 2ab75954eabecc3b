package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"github.com/beanbocchi/portage/internal/model"
	"github.com/beanbocchi/portage/internal/transfer"
)

type RelayParams struct {
	OwnerID    string      `validate:"required"`
	SourceURL  string      `validate:"required,url"`
	Namespace  string      `validate:"required"`
	ObjectName null.String `validate:"omitnil,min=1"`
}

type RelayResult struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// Relay accepts one transfer and runs it in the background. The owner's slot
// is taken synchronously, so a second request while one is in flight is
// rejected here, not queued.
func (s *Service) Relay(ctx context.Context, params RelayParams) (RelayResult, error) {
	id := uuid.New().String()
	if err := s.registry.Acquire(params.OwnerID, id); err != nil {
		if errors.Is(err, transfer.ErrOwnerBusy) {
			return RelayResult{}, model.ErrOwnerBusy.Fmt(params.OwnerID)
		}
		return RelayResult{}, err
	}

	req := transfer.Request{
		ID:         id,
		Owner:      params.OwnerID,
		SourceRef:  params.SourceURL,
		Namespace:  params.Namespace,
		ObjectName: params.ObjectName.String,
	}

	job := func() {
		// Detached from the request context: the transfer outlives the HTTP call.
		if _, err := s.coordinator.Run(context.Background(), req); err != nil {
			slog.Error("relay failed", "transfer", id, "owner", params.OwnerID, "error", err)
		}
	}

	select {
	case s.jobs <- job:
	default:
		s.registry.Release(params.OwnerID)
		return RelayResult{}, model.ErrQueueFull
	}

	return RelayResult{
		TransferID: id,
		Status:     string(transfer.StatusPending),
	}, nil
}
