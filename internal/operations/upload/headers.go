package upload

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// metaPrefix is stripped from header keys that already carry it.
const metaPrefix = "x-amz-meta-"

// reservedHeaders name request fields a header cannot replace.
var reservedHeaders = map[string]struct{}{
	"body": {},
}

// headerSetters maps normalized header names onto request fields.
var headerSetters = map[string]func(*s3.PutObjectInput, string) error{
	"bucket": func(in *s3.PutObjectInput, v string) error {
		in.Bucket = aws.String(v)
		return nil
	},
	"key": func(in *s3.PutObjectInput, v string) error {
		in.Key = aws.String(v)
		return nil
	},
	"acl": func(in *s3.PutObjectInput, v string) error {
		in.ACL = awstypes.ObjectCannedACL(v)
		return nil
	},
	"contenttype": func(in *s3.PutObjectInput, v string) error {
		in.ContentType = aws.String(v)
		return nil
	},
	"cachecontrol": func(in *s3.PutObjectInput, v string) error {
		in.CacheControl = aws.String(v)
		return nil
	},
	"contentencoding": func(in *s3.PutObjectInput, v string) error {
		in.ContentEncoding = aws.String(v)
		return nil
	},
	"contentdisposition": func(in *s3.PutObjectInput, v string) error {
		in.ContentDisposition = aws.String(v)
		return nil
	},
	"contentlanguage": func(in *s3.PutObjectInput, v string) error {
		in.ContentLanguage = aws.String(v)
		return nil
	},
	"expires": func(in *s3.PutObjectInput, v string) error {
		t, err := parseExpires(v)
		if err != nil {
			return err
		}
		in.Expires = aws.Time(t)
		return nil
	},
	"storageclass": func(in *s3.PutObjectInput, v string) error {
		in.StorageClass = awstypes.StorageClass(v)
		return nil
	},
	"serversideencryption": func(in *s3.PutObjectInput, v string) error {
		in.ServerSideEncryption = awstypes.ServerSideEncryption(v)
		return nil
	},
	"ssekmskeyid": func(in *s3.PutObjectInput, v string) error {
		in.SSEKMSKeyId = aws.String(v)
		return nil
	},
	"websiteredirectlocation": func(in *s3.PutObjectInput, v string) error {
		in.WebsiteRedirectLocation = aws.String(v)
		return nil
	},
	"tagging": func(in *s3.PutObjectInput, v string) error {
		in.Tagging = aws.String(v)
		return nil
	},
}

// normalizeHeader folds case and drops dashes, so "Cache-Control",
// "cacheControl" and "CacheControl" all name the same field.
func normalizeHeader(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "-", ""))
}

// ValidateHeaders rejects headers that name a field no header may set.
func ValidateHeaders(headers map[string]string) error {
	for name := range headers {
		if _, ok := reservedHeaders[normalizeHeader(name)]; ok {
			return fmt.Errorf("header %s cannot override the file content", name)
		}
	}
	return nil
}

// applyHeaders merges headers into input. Known names set request fields,
// anything else becomes user metadata.
func applyHeaders(input *s3.PutObjectInput, headers map[string]string) error {
	if err := ValidateHeaders(headers); err != nil {
		return err
	}
	for name, value := range headers {
		if set, ok := headerSetters[normalizeHeader(name)]; ok {
			if err := set(input, value); err != nil {
				return fmt.Errorf("header %s: %w", name, err)
			}
			continue
		}

		key := name
		if len(key) > len(metaPrefix) && strings.EqualFold(key[:len(metaPrefix)], metaPrefix) {
			key = key[len(metaPrefix):]
		}
		if input.Metadata == nil {
			input.Metadata = make(map[string]string)
		}
		input.Metadata[key] = value
	}
	return nil
}

func parseExpires(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC1123, time.RFC1123Z, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", v)
}
