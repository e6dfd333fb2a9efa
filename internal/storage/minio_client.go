package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nfnt/resize"

	"buildlog/internal/config"
)

type Storage interface {
	UploadPhoto(ctx context.Context, fileName string, file io.Reader, size int64) (*UploadResult, error)
	DeletePhoto(ctx context.Context, objectName string) error
}

// UploadResult describes the stored original and its generated thumbnail.
type UploadResult struct {
	ObjectName      string
	ThumbObjectName string
	URL             string
	ThumbnailURL    string
	Width           int
	Height          int
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Created bucket %s", cfg.MinIO.BucketName)
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// UploadPhoto stores the original image and a resized thumbnail next to it.
// The thumbnail keeps the aspect ratio at the configured width.
func (m *MinIOClient) UploadPhoto(ctx context.Context, fileName string, file io.Reader, size int64) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(file, m.config.MaxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()

	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	base := uuid.New().String()
	objectName := fmt.Sprintf("photos/%d/%02d/%s%s", now.Year(), now.Month(), base, fileExt)
	thumbObjectName := fmt.Sprintf("thumbnails/%d/%02d/%s.jpg", now.Year(), now.Month(), base)

	_, err = m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	thumb := resize.Resize(m.config.ThumbnailWidth, 0, img, resize.Lanczos3)
	var thumbBuf bytes.Buffer
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		m.removeObject(ctx, objectName)
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	_, err = m.client.PutObject(ctx, m.config.MinIO.BucketName, thumbObjectName,
		bytes.NewReader(thumbBuf.Bytes()), int64(thumbBuf.Len()),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		m.removeObject(ctx, objectName)
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	return &UploadResult{
		ObjectName:      objectName,
		ThumbObjectName: thumbObjectName,
		URL:             m.publicURL(objectName),
		ThumbnailURL:    m.publicURL(thumbObjectName),
		Width:           bounds.Dx(),
		Height:          bounds.Dy(),
	}, nil
}

func (m *MinIOClient) DeletePhoto(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (m *MinIOClient) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimSuffix(m.config.MinIO.PublicURL, "/"),
		m.config.MinIO.BucketName,
		objectName)
}

func (m *MinIOClient) removeObject(ctx context.Context, objectName string) {
	if err := m.DeletePhoto(ctx, objectName); err != nil {
		log.Printf("Warning: failed to clean up object %s: %v", objectName, err)
	}
}
