package models

import "time"

type ImageStatus string

const (
	ImageStatusProcessing ImageStatus = "processing"
	ImageStatusReady      ImageStatus = "ready"
	ImageStatusBlocked    ImageStatus = "blocked"
	ImageStatusDeleted    ImageStatus = "deleted"
)

type Image struct {
	ID           string
	UserID       string
	Bucket       string
	ObjectKey    string
	OriginalName string
	Format       string
	MIME         string
	SizeBytes    int64
	Status       ImageStatus
	Checksum     []byte
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
