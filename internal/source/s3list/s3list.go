// Package s3list reads the flat-file list from two objects in an
// S3-compatible bucket.
package s3list

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/internal/shoplist"
	"github.com/m3rciful/buylist/internal/source/filelist"
)

// Config names the bucket and both object keys.
type Config struct {
	Bucket    string
	ItemsKey  string
	UsersKey  string
	Region    string
	Endpoint  string // optional, e.g. MinIO
	PathStyle bool
}

// Reader is a shoplist.Source that fetches both objects on every read.
type Reader struct {
	client *s3.Client
	cfg    Config
}

// New loads the default AWS credential chain and builds the client.
// optFns run after the endpoint settings derived from cfg.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Reader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3list: bucket required")
	}
	if cfg.ItemsKey == "" || cfg.UsersKey == "" {
		return nil, fmt.Errorf("s3list: items and users keys required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3list: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &Reader{client: client, cfg: cfg}, nil
}

// Read downloads and parses the items and users objects.
func (r *Reader) Read(ctx context.Context) (shoplist.Snapshot, error) {
	start := time.Now()
	items, err := getObject(ctx, r, r.cfg.ItemsKey, filelist.ParseItems)
	if err != nil {
		return shoplist.Snapshot{}, err
	}
	users, err := getObject(ctx, r, r.cfg.UsersKey, filelist.ParseUsers)
	if err != nil {
		return shoplist.Snapshot{}, err
	}
	logger.LogEvent(ctx, logger.SRC, slog.LevelDebug, "source.read",
		slog.String("status", "ok"),
		slog.String("source", "s3"),
		slog.String("bucket", r.cfg.Bucket),
		slog.Int("items_total", len(items)),
		slog.Int("users_total", len(users)),
		slog.Duration("duration", time.Since(start)),
	)
	return shoplist.Snapshot{Items: items, Users: users}, nil
}

func getObject[T any](ctx context.Context, r *Reader, key string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(r.cfg.Bucket), Key: aws.String(key)})
	if err != nil {
		return zero, fmt.Errorf("s3list: get %s: %w", key, err)
	}
	defer out.Body.Close()
	v, err := parse(out.Body)
	if err != nil {
		return zero, fmt.Errorf("s3list: %s: %w", key, err)
	}
	return v, nil
}
