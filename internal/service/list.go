package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guregu/null/v6"

	"github.com/beanbocchi/portage/internal/db"
	"github.com/beanbocchi/portage/internal/model"
)

type ListTransfersParams struct {
	model.PaginationParams
	OwnerID null.String `validate:"omitnil,min=1"`
}

func (s *Service) ListTransfers(ctx context.Context, params ListTransfersParams) ([]db.Transfer, error) {
	if params.OwnerID.Valid {
		transfers, err := s.storage.ListTransfersByOwner(ctx, db.ListTransfersByOwnerParams{
			OwnerID: params.OwnerID.String,
			Limit:   int64(params.GetLimit()),
			Offset:  int64(params.Offset()),
		})
		if err != nil {
			return nil, fmt.Errorf("list transfers by owner: %w", err)
		}
		return transfers, nil
	}

	transfers, err := s.storage.ListTransfers(ctx, db.ListTransfersParams{
		Limit:  int64(params.GetLimit()),
		Offset: int64(params.Offset()),
	})
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

// TransferDetail joins a transfer with its uploaded parts.
type TransferDetail struct {
	db.Transfer
	Parts []db.TransferPart `json:"parts"`
}

func (s *Service) GetTransfer(ctx context.Context, id string) (TransferDetail, error) {
	t, err := s.storage.GetTransfer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TransferDetail{}, model.ErrResourceNotFound
		}
		return TransferDetail{}, fmt.Errorf("get transfer: %w", err)
	}

	parts, err := s.storage.ListTransferParts(ctx, id)
	if err != nil {
		return TransferDetail{}, fmt.Errorf("list transfer parts: %w", err)
	}

	return TransferDetail{Transfer: t, Parts: parts}, nil
}
