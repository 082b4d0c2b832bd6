// Package resolver turns bucket specifications into physical bucket names.
package resolver

import (
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/inventory"
)

// Resolve returns the bucket name for spec. Literal names are returned as is
// without consulting inv; references are looked up by logical id.
func Resolve(inv *inventory.Inventory, spec deploytypes.BucketSpec) (string, error) {
	switch spec.Kind() {
	case deploytypes.BucketLiteral:
		if spec.Name() == "" {
			return "", errors.NewError("resolve", errors.ErrInvalidBucketSpec).
				WithMessage("bucket name is empty")
		}
		return spec.Name(), nil

	case deploytypes.BucketReference:
		physicalID, ok := inv.Lookup(spec.LogicalID())
		if !ok || physicalID == "" {
			return "", errors.NewError("resolve", errors.ErrUnresolvedReference).
				WithMessage(fmt.Sprintf("no stack resource with logical id %q", spec.LogicalID()))
		}
		return physicalID, nil

	default:
		return "", errors.NewError("resolve", errors.ErrInvalidBucketSpec).
			WithMessage(spec.Reason())
	}
}
