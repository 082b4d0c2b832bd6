package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/inventory"
)

func TestResolve(t *testing.T) {
	inv := inventory.New([]deploytypes.ResourceRecord{
		{LogicalID: "AssetsBucket", PhysicalID: "app-dev-assetsbucket-1a2b"},
		{LogicalID: "Dup", PhysicalID: "dup-first"},
		{LogicalID: "Dup", PhysicalID: "dup-second"},
		{LogicalID: "Pending", PhysicalID: ""},
	})

	tests := []struct {
		name    string
		inv     *inventory.Inventory
		spec    deploytypes.BucketSpec
		want    string
		wantErr error
		wantMsg string
	}{
		{
			name: "literal bypasses inventory",
			inv:  nil,
			spec: deploytypes.LiteralBucket("my-assets"),
			want: "my-assets",
		},
		{
			name: "literal matching a logical id is not looked up",
			inv:  inv,
			spec: deploytypes.LiteralBucket("AssetsBucket"),
			want: "AssetsBucket",
		},
		{
			name: "reference resolves to physical id",
			inv:  inv,
			spec: deploytypes.ReferenceBucket("AssetsBucket"),
			want: "app-dev-assetsbucket-1a2b",
		},
		{
			name: "duplicate logical ids take the last record",
			inv:  inv,
			spec: deploytypes.ReferenceBucket("Dup"),
			want: "dup-second",
		},
		{
			name:    "unknown reference",
			inv:     inv,
			spec:    deploytypes.ReferenceBucket("Missing"),
			wantErr: errors.ErrUnresolvedReference,
		},
		{
			name:    "reference without physical id",
			inv:     inv,
			spec:    deploytypes.ReferenceBucket("Pending"),
			wantErr: errors.ErrUnresolvedReference,
		},
		{
			name:    "reference against empty inventory",
			inv:     inventory.New(nil),
			spec:    deploytypes.ReferenceBucket("AssetsBucket"),
			wantErr: errors.ErrUnresolvedReference,
		},
		{
			name:    "zero value spec",
			inv:     inv,
			spec:    deploytypes.BucketSpec{},
			wantErr: errors.ErrInvalidBucketSpec,
		},
		{
			name:    "malformed spec from configuration",
			inv:     inv,
			spec:    deploytypes.InvalidBucket("line 7: bucket must be a name"),
			wantErr: errors.ErrInvalidBucketSpec,
			wantMsg: "line 7: bucket must be a name",
		},
		{
			name:    "empty literal",
			inv:     inv,
			spec:    deploytypes.LiteralBucket(""),
			wantErr: errors.ErrInvalidBucketSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.inv, tt.spec)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.wantMsg)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
