package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/guardian/internal/blobstore"
	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/dmitrijs2005/guardian/internal/store"
)

// Uploader stores evidence payloads remotely. blobstore.S3Store implements
// it.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type EvidenceService struct {
	e        *store.Engine
	evidence *store.Collection[models.Evidence, *models.Evidence]
	uploader Uploader
	em       emitter
}

func NewEvidenceService(e *store.Engine, up Uploader, em emitter) *EvidenceService {
	return &EvidenceService{
		e:        e,
		evidence: store.NewCollection[models.Evidence](e, store.Evidence),
		uploader: up,
		em:       em,
	}
}

// Add stores a new piece of evidence. Payloads above 50 MiB are rejected
// with ErrPayloadTooLarge.
func (s *EvidenceService) Add(ctx context.Context, ev *models.Evidence) (*models.Evidence, error) {
	if ev.FileSize == 0 {
		ev.FileSize = int64(len(ev.FilePayload))
	}
	if _, err := insertOwned(ctx, s.e, store.Evidence, ev.UserID, ev); err != nil {
		return nil, fmt.Errorf("add evidence: %w", err)
	}
	s.em.emit(ctx, client.EventEvidence, "add", withoutPayload(ev))
	return ev, nil
}

func (s *EvidenceService) Get(ctx context.Context, id int64) (*models.Evidence, error) {
	return s.evidence.Get(ctx, id)
}

// List returns the user's evidence, newest first, optionally of one type.
func (s *EvidenceService) List(ctx context.Context, userID int64, typ *models.EvidenceType) ([]*models.Evidence, error) {
	list, err := s.evidence.ByIndex(ctx, store.UserIDField, userID)
	if err != nil {
		return nil, err
	}
	if typ != nil {
		list = slices.DeleteFunc(list, func(e *models.Evidence) bool { return e.Type != *typ })
	}
	slices.SortFunc(list, func(a, b *models.Evidence) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return list, nil
}

func (s *EvidenceService) Delete(ctx context.Context, id int64) error {
	return s.evidence.Delete(ctx, id)
}

// Backup uploads the payload to object storage and records the object key.
// Evidence that is already backed up is returned unchanged.
func (s *EvidenceService) Backup(ctx context.Context, id int64) (*models.Evidence, error) {
	if s.uploader == nil {
		return nil, blobstore.ErrNotConfigured
	}
	ev, err := s.evidence.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.RemoteKey != "" {
		return ev, nil
	}

	key := blobstore.EvidenceKey(ev.UserID, ev.CreatedAt)
	if err := s.uploader.Put(ctx, key, ev.FilePayload, ev.MimeType); err != nil {
		return nil, fmt.Errorf("backup evidence %d: %w", id, err)
	}

	ev.RemoteKey = key
	if err := s.evidence.Replace(ctx, ev); err != nil {
		return nil, err
	}
	s.em.emit(ctx, client.EventEvidence, "backup", withoutPayload(ev))
	return ev, nil
}

// withoutPayload keeps blobs out of sync events.
func withoutPayload(ev *models.Evidence) *models.Evidence {
	cp := *ev
	cp.FilePayload = nil
	return &cp
}
