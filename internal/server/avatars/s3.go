package avatars

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// test seams
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// UploadTTL is how long a presigned upload URL stays valid.
const UploadTTL = 15 * time.Minute

// S3Config describes the object store holding uploaded avatars.
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
}

// Upload is a presigned PUT for a new avatar object. PublicURL is where the
// object is readable once uploaded.
type Upload struct {
	URL       string    `json:"upload_url"`
	Key       string    `json:"-"`
	PublicURL string    `json:"avatar"`
	ExpiresAt time.Time `json:"expires_at"`
}

// S3Storage presigns avatar uploads against an S3-compatible store.
type S3Storage struct {
	cfg    S3Config
	client *s3.PresignClient
	now    func() time.Time
}

// NewS3Storage builds the presign client. No request is made to the store.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Storage{cfg: cfg, client: newS3PresignClient(client), now: time.Now}, nil
}

// ObjectKey returns a fresh key under the user's avatar prefix.
func ObjectKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%s", userID, uuid.New())
}

// PresignUpload issues a presigned PUT URL for a new avatar of userID.
func (s *S3Storage) PresignUpload(ctx context.Context, userID, contentType string) (*Upload, error) {
	bucket := s.cfg.Bucket
	key := ObjectKey(userID)

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(s.client, ctx, in, s3.WithPresignExpires(UploadTTL))
	if err != nil {
		return nil, err
	}

	return &Upload{
		URL:       req.URL,
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresAt: s.now().Add(UploadTTL),
	}, nil
}

// PublicURL returns the path-style URL of key in the bucket.
func (s *S3Storage) PublicURL(key string) string {
	base := strings.TrimRight(s.cfg.BaseEndpoint, "/")
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", s.cfg.Region)
	}
	return base + "/" + s.cfg.Bucket + "/" + key
}
