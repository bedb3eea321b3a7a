package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/guardian/internal/common"
)

type EvidenceType string

const (
	EvidencePhoto    EvidenceType = "photo"
	EvidenceVideo    EvidenceType = "video"
	EvidenceAudio    EvidenceType = "audio"
	EvidenceChatLog  EvidenceType = "chat_log"
	EvidenceDocument EvidenceType = "document"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidencePhoto, EvidenceVideo, EvidenceAudio, EvidenceChatLog, EvidenceDocument:
		return true
	}
	return false
}

// Evidence is a captured artifact. The payload is stored as is; IsEncrypted
// is informational only.
type Evidence struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Type        EvidenceType `json:"type"`
	FilePayload []byte       `json:"file_payload"`
	FileName    string       `json:"file_name,omitempty"`
	MimeType    string       `json:"mime_type,omitempty"`
	FileSize    int64        `json:"file_size"`
	IsEncrypted bool         `json:"is_encrypted"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	LocationLat *float64     `json:"location_lat,omitempty"`
	LocationLng *float64     `json:"location_lng,omitempty"`
	// RemoteKey is the object key once the payload is backed up.
	RemoteKey string `json:"remote_key,omitempty"`
}

func (e *Evidence) GetID() int64 { return e.ID }
func (e *Evidence) SetID(id int64) { e.ID = id }
func (e *Evidence) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *Evidence) SetCreatedAt(t time.Time) { e.CreatedAt = t }

func (e *Evidence) Validate() error {
	if err := requireUser(e.UserID); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return invalid("unknown evidence type %q", e.Type)
	}
	if e.FileSize < 0 {
		return invalid("file_size must not be negative")
	}
	if e.FileSize > common.MaxEvidenceSize || int64(len(e.FilePayload)) > common.MaxEvidenceSize {
		return fmt.Errorf("%d bytes, limit %d: %w", max(e.FileSize, int64(len(e.FilePayload))), common.MaxEvidenceSize, ErrPayloadTooLarge)
	}
	return optionalPoint(e.LocationLat, e.LocationLng)
}
