package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putIn      *s3.PutObjectInput
	putBody    []byte
	getBody    string
	deletedKey string
	uploadIn   *s3.UploadPartInput
	completeIn *s3.CompleteMultipartUploadInput
	abortIn    *s3.AbortMultipartUploadInput
	err        error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.putIn = in
	f.putBody, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.getBody))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletedKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String("up-1")}, nil
}

func (f *fakeS3) UploadPart(ctx context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploadIn = in
	return &s3.UploadPartOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func (f *fakeS3) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.completeIn = in
	return &s3.CompleteMultipartUploadOutput{}, nil
}

func (f *fakeS3) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.abortIn = in
	return &s3.AbortMultipartUploadOutput{}, nil
}

type fakePresigner struct {
	in      *s3.GetObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	var po s3.PresignOptions
	for _, fn := range optFns {
		fn(&po)
	}
	f.in = in
	f.expires = po.Expires
	return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + aws.ToString(in.Key)}, nil
}

func newTestStore(api *fakeS3, pre *fakePresigner) *S3Store {
	return &S3Store{api: api, presigner: pre, bucket: "media", presignTTL: 5 * time.Minute}
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		require.NotNil(t, c)
		return &s3.PresignClient{}
	}

	st, err := NewS3Store(context.Background(), S3Options{
		User:         "minioadmin",
		Password:     "minioadmin",
		Bucket:       "media",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, 15*time.Minute, st.presignTTL)
	assert.Equal(t, "media", st.bucket)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Store(context.Background(), S3Options{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aws config")
}

func TestS3Store_PutGetDelete(t *testing.T) {
	api := &fakeS3{getBody: "hello"}
	st := newTestStore(api, &fakePresigner{})
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "u/s/a", []byte("data"), "image/png"))
	assert.Equal(t, "media", aws.ToString(api.putIn.Bucket))
	assert.Equal(t, "u/s/a", aws.ToString(api.putIn.Key))
	assert.Equal(t, "image/png", aws.ToString(api.putIn.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(api.putIn.ContentLength))
	assert.Equal(t, []byte("data"), api.putBody)

	b, err := st.Get(ctx, "u/s/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	require.NoError(t, st.Delete(ctx, "u/s/a"))
	assert.Equal(t, "u/s/a", api.deletedKey)
}

func TestS3Store_ErrorsAreTransient(t *testing.T) {
	api := &fakeS3{err: errors.New("connection reset")}
	st := newTestStore(api, &fakePresigner{err: errors.New("sign")})
	ctx := context.Background()

	errs := []error{
		st.Put(ctx, "k", nil, ""),
		st.Delete(ctx, "k"),
		st.CompleteMultipart(ctx, "k", "u", nil),
		st.AbortMultipart(ctx, "k", "u"),
	}
	_, err := st.Get(ctx, "k")
	errs = append(errs, err)
	_, err = st.PresignGet(ctx, "k", "")
	errs = append(errs, err)
	_, err = st.InitiateMultipart(ctx, "k", "")
	errs = append(errs, err)
	_, err = st.UploadPart(ctx, "k", "u", 1, nil)
	errs = append(errs, err)

	for _, e := range errs {
		require.Error(t, e)
		assert.ErrorIs(t, e, common.ErrTransient)
	}
}

func TestS3Store_PresignGet(t *testing.T) {
	pre := &fakePresigner{}
	st := newTestStore(&fakeS3{}, pre)

	url, err := st.PresignGet(context.Background(), "u/s/a", "cover.png")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/u/s/a", url)
	assert.Equal(t, 5*time.Minute, pre.expires)
	assert.Equal(t, `attachment; filename="cover.png"`, aws.ToString(pre.in.ResponseContentDisposition))

	_, err = st.PresignGet(context.Background(), "u/s/a", "")
	require.NoError(t, err)
	assert.Nil(t, pre.in.ResponseContentDisposition)
}

func TestS3Store_Multipart(t *testing.T) {
	api := &fakeS3{}
	st := newTestStore(api, &fakePresigner{})
	ctx := context.Background()

	id, err := st.InitiateMultipart(ctx, "u/s/a", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "up-1", id)

	etag, err := st.UploadPart(ctx, "u/s/a", id, 2, []byte("chunk"))
	require.NoError(t, err)
	assert.Equal(t, `"etag-1"`, etag)
	assert.Equal(t, int32(2), aws.ToInt32(api.uploadIn.PartNumber))
	assert.Equal(t, "up-1", aws.ToString(api.uploadIn.UploadId))

	parts := []models.PartTag{{PartNumber: 2, ETag: "b"}, {PartNumber: 1, ETag: "a"}}
	require.NoError(t, st.CompleteMultipart(ctx, "u/s/a", id, parts))
	got := api.completeIn.MultipartUpload.Parts
	require.Len(t, got, 2)
	assert.Equal(t, int32(2), aws.ToInt32(got[0].PartNumber))
	assert.Equal(t, "a", aws.ToString(got[1].ETag))

	require.NoError(t, st.AbortMultipart(ctx, "u/s/a", id))
	assert.Equal(t, "up-1", aws.ToString(api.abortIn.UploadId))
}
