package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Task and reward images live in a public Cloudflare R2 bucket
// (S3-compatible). The DB stores the durable public URL; deletes resolve the
// object key back out of that URL.

// getR2Config returns AWS config for Cloudflare R2
func getR2Config() (aws.Config, error) {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")

	if accountID == "" || accessKey == "" || secretKey == "" {
		return aws.Config{}, fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID or R2_SECRET_ACCESS_KEY is not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"), // Required by SDK, R2 ignores this
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return cfg, nil
}

// getR2Client returns an S3 client configured for Cloudflare R2
func getR2Client() (*s3.Client, error) {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	if accountID == "" {
		return nil, fmt.Errorf("R2_ACCOUNT_ID is not set")
	}

	cfg, err := getR2Config()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return client, nil
}

func getR2Bucket() (string, error) {
	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		return "", fmt.Errorf("R2_BUCKET_NAME is not set")
	}
	return bucket, nil
}

// publicBaseURL is the bucket's public access URL (custom domain or r2.dev).
func publicBaseURL() (string, error) {
	base := strings.TrimRight(os.Getenv("R2_PUBLIC_BASE_URL"), "/")
	if base == "" {
		return "", fmt.Errorf("R2_PUBLIC_BASE_URL is not set")
	}
	return base, nil
}

// UploadToS3 uploads an object to R2.
func UploadToS3(objectName string, file io.Reader) error {
	bucket, err := getR2Bucket()
	if err != nil {
		return err
	}

	client, err := getR2Client()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("R2 upload failed: %w", err)
	}

	return nil
}

// UploadImage uploads an object and returns the durable public URL to store.
func UploadImage(objectName string, file io.Reader) (string, error) {
	base, err := publicBaseURL()
	if err != nil {
		return "", err
	}
	if err := UploadToS3(objectName, file); err != nil {
		return "", err
	}
	return base + "/" + objectName, nil
}

// DeleteFromS3 deletes an object from R2.
func DeleteFromS3(objectName string) error {
	bucket, err := getR2Bucket()
	if err != nil {
		return err
	}

	client, err := getR2Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("R2 delete failed: %w", err)
	}

	return nil
}

// DeleteFromS3ByURL maps a stored public URL back to its object key and
// deletes it. URLs outside our public base are rejected.
func DeleteFromS3ByURL(url string) error {
	base, err := publicBaseURL()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(url, base+"/") {
		return fmt.Errorf("url %q is not under the configured image store", url)
	}
	key := strings.TrimPrefix(url, base+"/")
	if key == "" {
		return fmt.Errorf("url %q has no object key", url)
	}
	return DeleteFromS3(key)
}
