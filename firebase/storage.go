package firebase

import (
	"context"

	"glowup-backend/utils"
)

// StorageClient abstracts media storage for dependency injection and testing.
type StorageClient interface {
	UploadImage(ctx context.Context, folder, name string, img utils.DataURL) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

// FirebaseStorageClient is the real implementation that delegates to package-level functions.
type FirebaseStorageClient struct {
	Bucket string
}

func NewStorageClient(bucket string) StorageClient {
	return &FirebaseStorageClient{Bucket: bucket}
}

func (f *FirebaseStorageClient) UploadImage(ctx context.Context, folder, name string, img utils.DataURL) (string, error) {
	return UploadImage(ctx, f.Bucket, folder, name, img)
}

func (f *FirebaseStorageClient) DeleteFile(ctx context.Context, objectPath string) error {
	return DeleteFile(ctx, f.Bucket, objectPath)
}
