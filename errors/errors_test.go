package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewError("upload", cause).WithBucket("assets").WithKey("static/app.js"),
			want: "s3deploy.upload assets/static/app.js: boom",
		},
		{
			name: "bucket only",
			err:  NewError("erase", cause).WithBucket("assets"),
			want: "s3deploy.erase bucket assets: boom",
		},
		{
			name: "key only",
			err:  NewError("read", cause).WithKey("dist/app.js"),
			want: "s3deploy.read dist/app.js: boom",
		},
		{
			name: "operation only",
			err:  NewError("inventory", cause),
			want: "s3deploy.inventory: boom",
		},
		{
			name: "with message",
			err:  NewError("resolve", cause).WithMessage("target 2"),
			want: "s3deploy.resolve: target 2: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")

	err := Wrap("upload", ErrUpload, cause)
	assert.True(t, IsUpload(err))
	assert.ErrorIs(t, err, cause)

	bare := Wrap("upload", ErrUpload, nil)
	assert.True(t, IsUpload(bare))
	assert.Equal(t, "s3deploy.upload: s3deploy: upload failed", bare.Error())
}

func TestFromAWS(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "access denied",
			err:      &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"},
			sentinel: ErrAccessDenied,
		},
		{
			name:     "missing bucket",
			err:      &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "gone"},
			sentinel: ErrBucketNotFound,
		},
		{
			name:     "missing stack",
			err:      &smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id app-dev does not exist"},
			sentinel: ErrStackNotFound,
		},
		{
			name: "wrapped api error",
			err: fmt.Errorf("operation error S3: PutObject: %w",
				&smithy.GenericAPIError{Code: "AccessDenied"}),
			sentinel: ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAWS("op", tt.err)
			require.NotNil(t, got)
			assert.ErrorIs(t, got, tt.sentinel)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		apiErr := &smithy.GenericAPIError{Code: "SlowDown"}
		got := FromAWS("op", apiErr)
		assert.ErrorIs(t, got, apiErr)
		assert.False(t, IsAccessDenied(got))
	})

	t.Run("plain error", func(t *testing.T) {
		plain := errors.New("dial tcp: timeout")
		got := FromAWS("op", plain)
		assert.ErrorIs(t, got, plain)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, FromAWS("op", nil))
	})
}
