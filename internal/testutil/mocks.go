// Package testutil provides test utilities and mocks for deployment operations.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/awsapi"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	PutObjectFunc               func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2Func           func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjectsFunc           func(context.Context, *s3.DeleteObjectsInput, ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	CreateMultipartUploadFunc   func(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPartFunc              func(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUploadFunc func(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUploadFunc    func(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// DeleteObjects mocks the S3 DeleteObjects operation.
func (m *MockS3Client) DeleteObjects(
	ctx context.Context,
	params *s3.DeleteObjectsInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectsOutput, error) {
	if m.DeleteObjectsFunc != nil {
		return m.DeleteObjectsFunc(ctx, params, optFns...)
	}
	return &s3.DeleteObjectsOutput{}, nil
}

// CreateMultipartUpload mocks the S3 CreateMultipartUpload operation.
func (m *MockS3Client) CreateMultipartUpload(
	ctx context.Context,
	params *s3.CreateMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CreateMultipartUploadOutput, error) {
	if m.CreateMultipartUploadFunc != nil {
		return m.CreateMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String("mock-upload")}, nil
}

// UploadPart mocks the S3 UploadPart operation.
func (m *MockS3Client) UploadPart(
	ctx context.Context,
	params *s3.UploadPartInput,
	optFns ...func(*s3.Options),
) (*s3.UploadPartOutput, error) {
	if m.UploadPartFunc != nil {
		return m.UploadPartFunc(ctx, params, optFns...)
	}
	return &s3.UploadPartOutput{ETag: aws.String("mock-etag")}, nil
}

// CompleteMultipartUpload mocks the S3 CompleteMultipartUpload operation.
func (m *MockS3Client) CompleteMultipartUpload(
	ctx context.Context,
	params *s3.CompleteMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CompleteMultipartUploadOutput, error) {
	if m.CompleteMultipartUploadFunc != nil {
		return m.CompleteMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.CompleteMultipartUploadOutput{}, nil
}

// AbortMultipartUpload mocks the S3 AbortMultipartUpload operation.
func (m *MockS3Client) AbortMultipartUpload(
	ctx context.Context,
	params *s3.AbortMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.AbortMultipartUploadOutput, error) {
	if m.AbortMultipartUploadFunc != nil {
		return m.AbortMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.AbortMultipartUploadOutput{}, nil
}

// MockCloudFormationClient is a mock implementation of the CloudFormationAPI interface.
type MockCloudFormationClient struct {
	ListStackResourcesFunc func(
		context.Context,
		*cloudformation.ListStackResourcesInput,
		...func(*cloudformation.Options),
	) (*cloudformation.ListStackResourcesOutput, error)

	mu    sync.Mutex
	calls int
}

// ListStackResources mocks the CloudFormation ListStackResources operation.
func (m *MockCloudFormationClient) ListStackResources(
	ctx context.Context,
	params *cloudformation.ListStackResourcesInput,
	optFns ...func(*cloudformation.Options),
) (*cloudformation.ListStackResourcesOutput, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.ListStackResourcesFunc != nil {
		return m.ListStackResourcesFunc(ctx, params, optFns...)
	}
	return &cloudformation.ListStackResourcesOutput{}, nil
}

// Calls returns how many times ListStackResources was invoked.
func (m *MockCloudFormationClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// PutRecord captures one PutObject request.
type PutRecord struct {
	Input *s3.PutObjectInput
	Body  []byte
}

// RecordingS3Client records PutObject calls in arrival order and delegates
// everything else to the embedded mock.
type RecordingS3Client struct {
	MockS3Client

	mu   sync.Mutex
	puts []PutRecord
}

// PutObject records the request and then calls PutObjectFunc when set.
func (r *RecordingS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	var body []byte
	if params.Body != nil {
		data, err := io.ReadAll(params.Body)
		if err != nil {
			return nil, err
		}
		body = data
		params.Body = bytes.NewReader(data)
	}

	r.mu.Lock()
	r.puts = append(r.puts, PutRecord{Input: params, Body: body})
	r.mu.Unlock()

	return r.MockS3Client.PutObject(ctx, params, optFns...)
}

// Puts returns a copy of the recorded PutObject requests.
func (r *RecordingS3Client) Puts() []PutRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PutRecord(nil), r.puts...)
}

// Keys returns the object keys of the recorded PutObject requests.
func (r *RecordingS3Client) Keys() []string {
	puts := r.Puts()
	keys := make([]string, 0, len(puts))
	for _, p := range puts {
		keys = append(keys, aws.ToString(p.Input.Key))
	}
	return keys
}

// Ensure the mocks implement the API interfaces
var (
	_ awsapi.S3API             = (*MockS3Client)(nil)
	_ awsapi.S3API             = (*RecordingS3Client)(nil)
	_ awsapi.CloudFormationAPI = (*MockCloudFormationClient)(nil)
)
