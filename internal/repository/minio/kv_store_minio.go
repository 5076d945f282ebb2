package minio

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

// KeyValueStore keeps one object per key under prefix in bucket.
type KeyValueStore struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewKeyValueStore(client *minio.Client, bucket, prefix string) *KeyValueStore {
	return &KeyValueStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key), strings.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	return err
}

func (s *KeyValueStore) objectName(key string) string {
	return path.Join(s.prefix, key+".json")
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

var _ ports.KeyValueStore = (*KeyValueStore)(nil)
