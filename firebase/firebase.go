package firebase

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/google/uuid"
	"github.com/juju/loggo"
	"google.golang.org/api/option"

	"glowup-backend/utils"
)

var logger = loggo.GetLogger("glowup.firebase")

var App *firebase.App

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

// objectPath builds a collision-free object name under folder. Every folder
// segment is sanitized so callers may pass ids straight through.
func objectPath(folder, name, ext string, now time.Time) string {
	var segments []string
	for _, s := range strings.Split(folder, "/") {
		if s != "" {
			segments = append(segments, sanitizeFilename(s))
		}
	}
	segments = append(segments, fmt.Sprintf("%d_%s_%s%s",
		now.Unix(), sanitizeFilename(name), uuid.New().String()[:8], ext))
	return strings.Join(segments, "/")
}

// Init connects to Firebase with the credentials in
// GOOGLE_APPLICATION_CREDENTIALS, either inline JSON or a file path.
func Init(ctx context.Context) error {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption
	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			logger.Infof("using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			logger.Infof("using Firebase credentials from file %s", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		logger.Warningf("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return fmt.Errorf("firebase init failed: %w", err)
	}

	App = app
	logger.Infof("Firebase initialized")
	return nil
}

func bucketHandle(ctx context.Context, bucketName string) (*storage.BucketHandle, error) {
	if App == nil {
		return nil, fmt.Errorf("firebase app not initialized")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := App.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(bucketName)
}

// UploadImage stores a decoded image under folder and returns its public URL.
func UploadImage(ctx context.Context, bucketName, folder, name string, img utils.DataURL) (string, error) {
	bucket, err := bucketHandle(ctx, bucketName)
	if err != nil {
		return "", err
	}

	path := objectPath(folder, name, img.Extension(), time.Now())
	obj := bucket.Object(path)
	wc := obj.NewWriter(ctx)
	wc.ContentType = img.ContentType

	if _, err := wc.Write(img.Data); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %v", err)
	}

	// Make object publicly readable so the URL works without authentication
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		logger.Warningf("failed to set public ACL on %s: %v", path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, path), nil
}

// DeleteFile deletes a file from Firebase Storage given its object path
func DeleteFile(ctx context.Context, bucketName, objectPath string) error {
	bucket, err := bucketHandle(ctx, bucketName)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectPath, err)
	}

	logger.Debugf("deleted %s from bucket %s", objectPath, bucketName)
	return nil
}
