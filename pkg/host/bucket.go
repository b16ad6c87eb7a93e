package host

import (
	"bytes"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

type ObjectStore interface {
	PutObject(bucket, key string, data io.ReadSeeker) error
	GetObject(bucket, key string) (io.ReadCloser, error)
}

type ObjectNotFoundErr struct {
	Bucket string
	Key    string
}

func (err *ObjectNotFoundErr) Error() string {
	return fmt.Sprintf("object not found: bucket=%s key=%s", err.Bucket, err.Key)
}

// Bucket is a FileSystem over the objects under `Prefix` in an object
// store bucket. Created objects are uploaded when they are closed.
type Bucket struct {
	Store  ObjectStore
	Name   string
	Prefix string
}

func (bucket *Bucket) Open(name string) (io.ReadCloser, error) {
	return bucket.Store.GetObject(bucket.Name, bucket.key(name))
}

func (bucket *Bucket) Create(name string) (io.WriteCloser, error) {
	return &objectWriter{bucket: bucket, key: bucket.key(name)}, nil
}

func (bucket *Bucket) key(name string) string {
	return path.Join(bucket.Prefix, name)
}

type objectWriter struct {
	bytes.Buffer
	bucket *Bucket
	key    string
	closed bool
}

func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.bucket.Store.PutObject(
		w.bucket.Name,
		w.key,
		bytes.NewReader(w.Bytes()),
	)
}

type S3ObjectStore struct {
	Client *s3.S3
}

func (os *S3ObjectStore) PutObject(bucket, key string, data io.ReadSeeker) error {
	if _, err := os.Client.PutObject(&s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   data,
	}); err != nil {
		return fmt.Errorf(
			"putting object in bucket `%s` at key `%s`: %w",
			bucket,
			key,
			err,
		)
	}
	return nil
}

func (os *S3ObjectStore) GetObject(bucket, key string) (io.ReadCloser, error) {
	rsp, err := os.Client.GetObject(&s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		if err, ok := err.(awserr.Error); ok {
			if err.Code() == s3.ErrCodeNoSuchKey {
				return nil, &ObjectNotFoundErr{Bucket: bucket, Key: key}
			}
		}
		return nil, fmt.Errorf(
			"getting object from bucket `%s` at key `%s`: %w",
			bucket,
			key,
			err,
		)
	}
	return rsp.Body, nil
}
