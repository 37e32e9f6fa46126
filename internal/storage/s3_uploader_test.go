package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3UploaderValidation(t *testing.T) {
	_, err := NewS3Uploader(&Config{})
	assert.Error(t, err)

	_, err = NewS3Uploader(&Config{
		Endpoint:        "https://project.supabase.co",
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
	})
	assert.Error(t, err, "bucket is required")
}

func TestPublicURL(t *testing.T) {
	uploader, err := NewS3Uploader(&Config{
		Endpoint:        "https://project.supabase.co",
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
		Bucket:          "receipts",
		Region:          "us-east-1",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://project.supabase.co/storage/v1/object/public/receipts/receipts/abc123.jpg",
		uploader.PublicURL("receipts/abc123.jpg"))

	assert.Equal(t,
		"https://project.supabase.co/storage/v1/object/public/receipts/receipts/abc123.png",
		uploader.ReceiptImageURL("abc123"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "receipts/abc.jpg", objectKey("abc", "image/jpeg"))
	assert.Equal(t, "receipts/abc.jpg", objectKey("abc", "image/jpg"))
	assert.Equal(t, "receipts/abc.webp", objectKey("abc", "image/webp"))
	assert.Equal(t, "receipts/abc.png", objectKey("abc", "image/png"))
	assert.Equal(t, "receipts/abc.png", objectKey("abc", "application/octet-stream"))
}
