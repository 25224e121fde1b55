// Package storage uploads note exports to Google Cloud Storage.
package storage

import (
	"bytes"
	"context"
	"path"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/notekeeper/pkg/helpers"
)

type uploadFunc func(ctx context.Context, objectPath string, body []byte) error
type linkFunc func(objectPath string) (string, error)

// Archiver implements application.NoteArchiver.
type Archiver struct {
	Bucket string
	upload uploadFunc
	link   linkFunc
	newID  func() string
}

// NewArchiver uploads into bucket. With linkTTL > 0 the returned URL is a signed link
// valid for linkTTL; otherwise it is the plain object URL and the bucket must be readable.
func NewArchiver(client *gcs.Client, bucket string, linkTTL time.Duration) *Archiver {
	link := func(objectPath string) (string, error) { return helpers.PublicURL(bucket, objectPath), nil }
	if linkTTL > 0 {
		link = func(objectPath string) (string, error) {
			return helpers.SignedURL(client, bucket, objectPath, linkTTL)
		}
	}
	return &Archiver{
		Bucket: bucket,
		upload: func(ctx context.Context, objectPath string, body []byte) error {
			_, err := helpers.UploadObject(ctx, client, bucket, objectPath, "application/json", bytes.NewReader(body))
			return err
		},
		link:  link,
		newID: uuid.NewString,
	}
}

func (a *Archiver) Archive(ctx context.Context, ownerID string, body []byte) (string, error) {
	objectPath := ObjectPath(ownerID, a.newID())
	if err := a.upload(ctx, objectPath, body); err != nil {
		return "", err
	}
	return a.link(objectPath)
}

// ObjectPath is where an export for ownerID lands inside the bucket.
func ObjectPath(ownerID, id string) string {
	return path.Join("exports", ownerID, id+".json")
}
