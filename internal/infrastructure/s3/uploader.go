package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores shop images in S3 and returns their public URLs.
type Uploader struct {
	client *s3.Client
	bucket string
	region string
}

// NewUploader builds an uploader from the ambient AWS credential chain.
// bucket が空のときは nil を返し、画像アップロードを無効化する。
func NewUploader(ctx context.Context, bucket, region string) (*Uploader, error) {
	if bucket == "" {
		return nil, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS 設定の読み込みに失敗しました: %w", err)
	}
	return &Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Upload writes one image and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("shop-images/%s%s", uuid.New().String(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("S3 へのアップロードに失敗しました: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
