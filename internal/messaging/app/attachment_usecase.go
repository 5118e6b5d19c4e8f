package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"customs_clearance_service/internal/messaging/domain"

	"github.com/google/uuid"
)

// presignExpiry lifetime of generated download links
const presignExpiry = 15 * time.Minute

// ObjectStore binary storage for message attachments; satisfied by the
// MinIO client wrapper.
type ObjectStore interface {
	UploadObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// AttachmentUseCase attachment upload and download-link generation
type AttachmentUseCase struct {
	store ObjectStore
	rooms *RoomUseCase
}

// NewAttachmentUseCase create an AttachmentUseCase
func NewAttachmentUseCase(store ObjectStore, rooms *RoomUseCase) *AttachmentUseCase {
	return &AttachmentUseCase{
		store: store,
		rooms: rooms,
	}
}

// Upload stores one binary for a shipment the caller can access and returns
// the attachment descriptor to embed in a message.
func (uc *AttachmentUseCase) Upload(ctx context.Context, id domain.Identity, shipmentID, filename, contentType string, reader io.Reader, size int64) (*domain.Attachment, error) {
	if _, err := uc.rooms.Authorize(ctx, shipmentID, id); err != nil {
		return nil, err
	}

	fileID := uuid.New().String()
	key := fmt.Sprintf("shipments/%s/messages/%s-%s", shipmentID, fileID, filename)

	if err := uc.store.UploadObject(ctx, key, reader, size, contentType); err != nil {
		return nil, err
	}

	return &domain.Attachment{
		FileID:     fileID,
		Filename:   filename,
		FileType:   contentType,
		Size:       size,
		StorageKey: key,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// DownloadURL returns a short-lived link for an attachment of a shipment
// the caller can access.
func (uc *AttachmentUseCase) DownloadURL(ctx context.Context, id domain.Identity, shipmentID, storageKey string) (string, error) {
	if _, err := uc.rooms.Authorize(ctx, shipmentID, id); err != nil {
		return "", err
	}
	return uc.store.PresignGetURL(ctx, storageKey, presignExpiry)
}
