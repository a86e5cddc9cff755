package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/ratelimit"
	"github.com/google/uuid"
)

// MaxFileSize matches the dashboard uploader limit.
const MaxFileSize = 10 << 20

const (
	keyPrefix = "uploads/"

	MsgNameRequired  = "اسم الملف مطلوب"
	MsgFileTooLarge  = "حجم الملف يجب ألا يتجاوز 10 ميغابايت"
	MsgInvalidSize   = "حجم الملف غير صالح"
	MsgPresignFailed = "فشل في إنشاء رابط الرفع"
	MsgNotConfigured = "تخزين الملفات غير مُعد"
)

var (
	errNameRequired  = internal.NewValidationFieldError("name", MsgNameRequired, internal.ErrCodeMissingFields)
	errFileTooLarge  = internal.NewValidationFieldError("size", MsgFileTooLarge, internal.ErrCodeValidationFailed)
	errInvalidSize   = internal.NewValidationFieldError("size", MsgInvalidSize, internal.ErrCodeValidationFailed)
	errNotConfigured = internal.NewInternalError(MsgNotConfigured, errors.New("storage bucket not configured"))
)

type Request struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type Response struct {
	UploadURL  string `json:"uploadURL"`
	ObjectPath string `json:"objectPath"`
}

// Presigner signs direct-to-bucket PUT requests.
type Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
	newKey func(ext string) string
}

// NewPresigner builds an S3 client from the storage section. Static keys are
// used when both are set, otherwise the default credential chain applies.
func NewPresigner(ctx context.Context, cfg internal.StorageConfig) (*Presigner, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Presigner{
		client: s3.NewPresignClient(client),
		bucket: cfg.Bucket,
		ttl:    ttl,
		newKey: func(ext string) string { return keyPrefix + uuid.NewString() + ext },
	}, nil
}

// PresignPut returns a URL the browser can PUT the file to and the object
// path that gets stored on the record afterwards.
func (p *Presigner) PresignPut(ctx context.Context, name, contentType string, size int64) (*Response, error) {
	if p.bucket == "" {
		return nil, errNotConfigured
	}

	key := p.newKey(strings.ToLower(path.Ext(name)))
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := p.client.PresignPutObject(ctx, input, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, internal.NewInternalError(MsgPresignFailed, err)
	}

	return &Response{
		UploadURL:  req.URL,
		ObjectPath: "/" + p.bucket + "/" + key,
	}, nil
}

type URLSigner interface {
	PresignPut(ctx context.Context, name, contentType string, size int64) (*Response, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, scope ratelimit.Scope, key string) error
}

type Service struct {
	signer  URLSigner
	limiter RateLimiter
	logger  *slog.Logger
}

func NewService(signer URLSigner, limiter RateLimiter, logger *slog.Logger) *Service {
	return &Service{signer: signer, limiter: limiter, logger: logger}
}

func (s *Service) RequestURL(ctx context.Context, req Request, clientIP string) (*Response, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, errNameRequired
	case req.Size < 0:
		return nil, errInvalidSize
	case req.Size > MaxFileSize:
		return nil, errFileTooLarge
	}

	if s.limiter != nil {
		err := s.limiter.Allow(ctx, ratelimit.ScopeUpload, "ip:"+clientIP)
		if errors.Is(err, ratelimit.ErrRateLimited) {
			return nil, internal.ErrTooManyAttempts
		}
		if err != nil {
			s.logger.Error("upload rate limiter unavailable", "error", err)
		}
	}

	resp, err := s.signer.PresignPut(ctx, name, req.ContentType, req.Size)
	if err != nil {
		s.logger.Error("failed to presign upload", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("upload url issued", "object_path", resp.ObjectPath, "size", req.Size)
	return resp, nil
}
