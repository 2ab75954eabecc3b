package service

import (
	"context"
	"time"

	"github.com/aws/smithy-go/ptr"

	"github.com/beanbocchi/portage/internal/db"
	"github.com/beanbocchi/portage/internal/transfer"
	"github.com/beanbocchi/portage/pkg/sqlc"
)

// sqlJournal persists transfer state into sqlite as the engine reports it.
type sqlJournal struct {
	storage *sqlc.Storage
}

func (j *sqlJournal) TransferStarted(ctx context.Context, t transfer.Transfer) error {
	_, err := j.storage.CreateTransfer(ctx, db.CreateTransferParams{
		ID:         t.ID,
		OwnerID:    t.Owner,
		ObjectName: t.ObjectName,
		Namespace:  t.Namespace,
		SourceRef:  t.SourceRef,
		Size:       sizePtr(t.Size),
		Strategy:   strPtr(t.Strategy),
		Status:     string(t.Status),
		StartedAt:  time.Now(),
	})
	return err
}

func (j *sqlJournal) TransferUpdated(ctx context.Context, t transfer.Transfer) error {
	params := db.UpdateTransferParams{
		ID:       t.ID,
		Size:     sizePtr(t.Size),
		Strategy: strPtr(t.Strategy),
		Status:   ptr.String(string(t.Status)),
	}
	if t.Error != "" {
		params.ErrorMessage = ptr.String(t.Error)
	}
	if t.Status == transfer.StatusDone || t.Status == transfer.StatusFailed {
		params.CompletedAt = ptr.Time(time.Now())
	}
	return j.storage.UpdateTransfer(ctx, params)
}

func (j *sqlJournal) PartUploaded(ctx context.Context, transferID string, d transfer.PartDescriptor) error {
	_, err := j.storage.CreateTransferPart(ctx, db.CreateTransferPartParams{
		TransferID: transferID,
		Ordinal:    int64(d.Ordinal),
		Name:       d.Name,
		Size:       d.Size,
		UploadedAt: time.Now(),
	})
	return err
}

func sizePtr(size int64) *int64 {
	if size < 0 {
		return nil
	}
	return ptr.Int64(size)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return ptr.String(s)
}
