package utils

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const avatarMaxEdge = 256

func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC; explicit JSON only for local runs via GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// UploadAvatar resizes the uploaded image to a square thumbnail and stores
// it, returning the public URL. Storage target is the GCS_BUCKET bucket;
// when no bucket is configured the file lands under UPLOAD_DIR (default
// ./uploads) for local runs.
func UploadAvatar(ctx context.Context, userId int, fileContent io.Reader) (string, error) {
	src, err := imaging.Decode(fileContent, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: unreadable image: %v", ErrorValidation, err)
	}

	thumb := imaging.Fill(src, avatarMaxEdge, avatarMaxEdge, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("avatars/%d/%s.jpg", userId, uuid.NewString())

	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return saveAvatarLocally(objectName, buf.Bytes())
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	wc := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = "image/jpeg"
	if _, err := wc.Write(buf.Bytes()); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}

func saveAvatarLocally(objectName string, data []byte) (string, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	path := filepath.Join(dir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(path), nil
}
