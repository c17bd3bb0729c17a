// Package backup copies the locally persisted client state (entity mirror,
// pending uploads and cached profile) to an S3-compatible bucket and back.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/wmsclient/internal/client/auth"
	"github.com/dmitrijs2005/wmsclient/internal/client/config"
	"github.com/dmitrijs2005/wmsclient/internal/client/mirror"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

const (
	LatestName    = "latest"
	snapshotExt   = ".json"
	nameLayout    = "20060102T150405Z"
	formatVersion = 1
)

var (
	ErrNoBucket    = errors.New("backup bucket is not configured")
	ErrNoStore     = errors.New("no local store to back up")
	ErrBadSnapshot = errors.New("malformed snapshot")
	ErrVersionSkew = errors.New("unsupported snapshot version")
)

// Keys are the persisted keys a snapshot carries. The auth token is left
// out so a snapshot never holds a credential.
var Keys = []string{mirror.EntitiesKey, mirror.UploadsKey, auth.ProfileKey}

// ObjectAPI is the subset of *s3.Client used here.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Guard serializes access to persisted state; *mirror.Mirror and
// *mirror.Uploads implement it.
type Guard interface {
	Exclusive(fn func())
}

// Snapshot is the JSON document stored in the bucket.
type Snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Values    map[string]string `json:"values"`
}

// NewS3Client builds a client for cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg config.Backup) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}

type Service struct {
	api    ObjectAPI
	bucket string
	prefix string
	store  *kv.Adapter
	guards []Guard
	log    logging.Logger
	now    func() time.Time
}

// NewService returns a backup service over store. Backup and Restore hold
// every guard, in order, while they read or write the persisted keys.
func NewService(api ObjectAPI, cfg config.Backup, store *kv.Adapter, log logging.Logger, guards ...Guard) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		api:    api,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		store:  store,
		guards: guards,
		log:    log.With("component", "backup"),
		now:    time.Now,
	}
}

func (s *Service) exclusive(fn func()) {
	for i := len(s.guards) - 1; i >= 0; i-- {
		g, next := s.guards[i], fn
		fn = func() { g.Exclusive(next) }
	}
	fn()
}

func (s *Service) objectKey(name string) string {
	return path.Join(s.prefix, name+snapshotExt)
}

// Backup uploads the current state under a timestamped name and as
// "latest". It returns the timestamped name.
func (s *Service) Backup(ctx context.Context) (string, error) {
	if s.bucket == "" {
		return "", ErrNoBucket
	}
	if !s.store.Available() {
		return "", ErrNoStore
	}

	snap := Snapshot{
		Version:   formatVersion,
		CreatedAt: s.now().UTC(),
		Values:    make(map[string]string, len(Keys)),
	}
	s.exclusive(func() {
		for _, k := range Keys {
			if v, ok := s.store.Get(ctx, k); ok {
				snap.Values[k] = v
			}
		}
	})

	body, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}

	name := snap.CreatedAt.Format(nameLayout)
	for _, n := range []string{name, LatestName} {
		_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.objectKey(n)),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return "", fmt.Errorf("put %s: %w", s.objectKey(n), err)
		}
	}

	s.log.Info(ctx, "backup stored", "bucket", s.bucket, "name", name, "keys", len(snap.Values))
	return name, nil
}

// Restore downloads the named snapshot ("" means latest) and writes its
// values into the local store. Keys missing from the snapshot are removed.
func (s *Service) Restore(ctx context.Context, name string) (*Snapshot, error) {
	if s.bucket == "" {
		return nil, ErrNoBucket
	}
	if !s.store.Available() {
		return nil, ErrNoStore
	}
	if name == "" {
		name = LatestName
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.objectKey(name), err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if snap.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersionSkew, snap.Version)
	}

	var applyErr error
	s.exclusive(func() { applyErr = s.apply(ctx, snap.Values) })
	if applyErr != nil {
		return nil, applyErr
	}

	s.log.Info(ctx, "backup restored", "bucket", s.bucket, "name", name, "keys", len(snap.Values))
	return &snap, nil
}

// apply must run under s.exclusive.
func (s *Service) apply(ctx context.Context, values map[string]string) error {
	present := make(map[string]string, len(values))
	for _, k := range Keys {
		if v, ok := values[k]; ok {
			present[k] = v
		}
	}

	if bs, ok := s.store.Store().(kv.BatchSetter); ok && len(present) > 0 {
		if err := bs.SetAll(ctx, present); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	} else {
		for k, v := range present {
			s.store.Set(ctx, k, v)
		}
	}

	for _, k := range Keys {
		if _, ok := present[k]; !ok {
			s.store.Remove(ctx, k)
		}
	}
	return nil
}
