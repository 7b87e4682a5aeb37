// Package r2 stores generated images in a Cloudflare R2 bucket through its
// S3 compatible API.
package r2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nulzo/image-playground/internal/store"
	"github.com/nulzo/image-playground/internal/store/model"
)

const metaModel = "model"

type Config struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type Bucket struct {
	client *s3.Client
	bucket string
}

var _ store.ImageStore = (*Bucket)(nil)

func New(ctx context.Context, cfg Config) (*Bucket, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("r2: endpoint and bucket are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("r2: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Bucket{client: client, bucket: cfg.Bucket}, nil
}

func (b *Bucket) Put(ctx context.Context, obj *model.Object) error {
	obj.Size = int64(len(obj.Data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Data),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(obj.Size),
	}
	if obj.Model != "" {
		input.Metadata = map[string]string{metaModel: obj.Model}
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("r2: put %s: %w", obj.Key, err)
	}
	return nil
}

func (b *Bucket) Get(ctx context.Context, key string) (*model.Object, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("r2: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("r2: read %s: %w", key, err)
	}

	return &model.Object{
		Image: model.Image{
			Key:         key,
			ContentType: aws.ToString(out.ContentType),
			Size:        int64(len(data)),
			Model:       out.Metadata[metaModel],
			UploadedAt:  aws.ToTime(out.LastModified),
		},
		Data: data,
	}, nil
}

// List walks every page of the bucket listing. R2 returns keys in
// lexicographic order.
func (b *Bucket) List(ctx context.Context) ([]model.Image, error) {
	images := []model.Image{}
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("r2: list: %w", err)
		}
		for _, o := range page.Contents {
			images = append(images, model.Image{
				Key:        aws.ToString(o.Key),
				Size:       aws.ToInt64(o.Size),
				UploadedAt: aws.ToTime(o.LastModified).UTC().Truncate(time.Second),
			})
		}
	}
	return images, nil
}

func (b *Bucket) Close() error { return nil }
