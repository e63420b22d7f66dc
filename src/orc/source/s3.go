package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// s3API is the subset of *s3.Client this package depends on, so tests can
// fake it out without standing up a real endpoint.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Source reads byte ranges from an S3 object using the Range request
// header.
type S3Source struct {
	api    s3API
	bucket string
	key    string
	size   int64
}

// OpenS3 issues a HeadObject to learn the object's size, then returns a
// Source that range-reads lazily from GetObject calls.
func OpenS3(ctx context.Context, api s3API, bucket, key string) (*S3Source, error) {
	out, err := api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, orcerrors.IoError(orcerrors.Context{File: bucket + "/" + key}, "head object failed", err)
	}
	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return &S3Source{api: api, bucket: bucket, key: key, size: size}, nil
}

func (s *S3Source) Size() int64  { return s.size }
func (s *S3Source) Name() string { return s.bucket + "/" + s.key }

func (s *S3Source) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > s.size {
		return nil, orcerrors.Malformed(orcerrors.Context{File: s.Name(), ByteOffset: offset, HasOffset: true},
			"range out of object bounds", nil)
	}
	rng := fmt.Sprintf("bytes=%d-%d", offset, offset+length-1)
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(rng),
	})
	if err != nil {
		return nil, shortRead(s.Name(), offset, length, 0, err)
	}
	defer out.Body.Close()
	buf := make([]byte, length)
	n, err := io.ReadFull(out.Body, buf)
	if err != nil {
		return nil, shortRead(s.Name(), offset, length, n, err)
	}
	return buf, nil
}

func (s *S3Source) Close() error { return nil }
