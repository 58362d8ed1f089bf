package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Kind アップロードの用途
type Kind string

const (
	KindListingImage Kind = "listing_image"
	KindMessageAudio Kind = "message_audio"
)

var (
	ErrUnknownKind        = errors.New("Unbekannter Upload-Typ")
	ErrInvalidContentType = errors.New("Dateityp nicht erlaubt")
	ErrFileName           = errors.New("Dateiname ist erforderlich")
)

// Upload フロントエンドは UploadURL に直接 PUT し、PublicURL を保存する
type Upload struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Object    string    `json:"object"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Uploader struct {
	client *storage.Client
	bucket string
	expiry time.Duration
	now    func() time.Time
}

func NewUploader(ctx context.Context, bucket, credentialsFile string, expiry time.Duration) (*Uploader, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket, expiry: expiry, now: time.Now}, nil
}

func (u *Uploader) Close() error { return u.client.Close() }

// ObjectName 用途とContent-Typeを確認して保存先を決める
func ObjectName(kind Kind, userID, fileName, contentType string, now time.Time) (string, error) {
	var prefix, family string
	switch kind {
	case KindListingImage:
		prefix, family = "listings", "image/"
	case KindMessageAudio:
		prefix, family = "messages", "audio/"
	default:
		return "", ErrUnknownKind
	}
	if !strings.HasPrefix(strings.ToLower(contentType), family) {
		return "", ErrInvalidContentType
	}

	clean := strings.ReplaceAll(fileName, "\\", "/")
	base := path.Base(clean)
	if strings.HasSuffix(clean, "/") || base == "." || strings.TrimSpace(base) == "" {
		return "", ErrFileName
	}
	base = strings.ReplaceAll(base, " ", "_")

	return fmt.Sprintf("%s/%s/%d-%s-%s", prefix, userID, now.Unix(), uuid.NewString()[:8], base), nil
}

func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// SignedUploadURL V4署名付きのPUT用URLを発行する
func (u *Uploader) SignedUploadURL(ctx context.Context, kind Kind, userID, fileName, contentType string) (*Upload, error) {
	now := u.now()
	object, err := ObjectName(kind, userID, fileName, contentType, now)
	if err != nil {
		return nil, err
	}

	expires := now.Add(u.expiry)
	signed, err := u.client.Bucket(u.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     expires,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return &Upload{
		UploadURL: signed,
		PublicURL: PublicURL(u.bucket, object),
		Object:    object,
		ExpiresAt: expires,
	}, nil
}
