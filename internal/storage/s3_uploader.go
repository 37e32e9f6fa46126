package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Uploader stores receipt images in S3-compatible object storage
type S3Uploader struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
}

// Config holds configuration for the S3 uploader
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region:           aws.String(config.Region),
		Endpoint:         aws.String(config.Endpoint + "/storage/v1/s3"),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(false),
	}))

	return &S3Uploader{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: config.Endpoint,
	}, nil
}

// UploadReceiptImage uploads a receipt image keyed by its receipt id and
// returns the public URL. Identical bytes hash to the same receipt id, so a
// re-upload overwrites the same object and the URL stays stable.
func (u *S3Uploader) UploadReceiptImage(imageData []byte, receiptID, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	key := objectKey(receiptID, mimeType)

	_, err := u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(imageData),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(imageData))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return u.PublicURL(key), nil
}

// ReceiptImageURL is the public URL an image with the given receipt id would
// have, whether or not it was uploaded by this process.
func (u *S3Uploader) ReceiptImageURL(receiptID string) string {
	return u.PublicURL(objectKey(receiptID, "image/png"))
}

// PublicURL constructs the public URL for a stored object.
// Format: {endpoint}/storage/v1/object/public/{bucket}/{key}
func (u *S3Uploader) PublicURL(key string) string {
	baseURL := strings.Replace(u.endpoint, "/storage/v1/s3", "", 1)
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", baseURL, u.bucket, key)
}

func objectKey(receiptID, mimeType string) string {
	ext := ".png"
	switch mimeType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return "receipts/" + receiptID + ext
}
