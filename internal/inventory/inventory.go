// Package inventory loads the resources of a deployed CloudFormation stack.
// The inventory maps logical resource ids to physical ids and is used to
// resolve bucket references.
package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/awsapi"
)

// Inventory is a read-only snapshot of stack resources in listing order.
// It is safe for concurrent reads.
type Inventory struct {
	records []deploytypes.ResourceRecord
}

// New creates an inventory from records, keeping their order.
func New(records []deploytypes.ResourceRecord) *Inventory {
	return &Inventory{records: append([]deploytypes.ResourceRecord(nil), records...)}
}

// Records returns a copy of the records in listing order.
func (i *Inventory) Records() []deploytypes.ResourceRecord {
	if i == nil {
		return nil
	}
	return append([]deploytypes.ResourceRecord(nil), i.records...)
}

// Len returns the number of records.
func (i *Inventory) Len() int {
	if i == nil {
		return 0
	}
	return len(i.records)
}

// Lookup returns the physical id for logicalID. When several records share
// the logical id the last one in listing order wins.
func (i *Inventory) Lookup(logicalID string) (string, bool) {
	if i == nil {
		return "", false
	}

	physicalID, found := "", false
	for _, r := range i.records {
		if r.LogicalID == logicalID {
			physicalID, found = r.PhysicalID, true
		}
	}
	return physicalID, found
}

// Loader fetches the inventory of one stack.
type Loader struct {
	client    awsapi.CloudFormationAPI
	stackName string
	enabled   bool
}

// NewLoader creates a loader for stackName. When enabled is false Load
// returns an empty inventory without calling CloudFormation.
func NewLoader(client awsapi.CloudFormationAPI, stackName string, enabled bool) *Loader {
	return &Loader{
		client:    client,
		stackName: stackName,
		enabled:   enabled,
	}
}

// Load lists every resource of the stack, following continuation tokens
// until the last page.
func (l *Loader) Load(ctx context.Context) (*Inventory, error) {
	if !l.enabled {
		return New(nil), nil
	}
	if l.stackName == "" {
		return nil, errors.NewError("inventory", errors.ErrInventoryLoad).
			WithMessage("stack name is required to resolve bucket references")
	}

	var (
		records   []deploytypes.ResourceRecord
		nextToken *string
		page      int
	)

	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap("inventory", errors.ErrInventoryLoad, ctx.Err())
		default:
		}

		output, err := l.client.ListStackResources(ctx, &cloudformation.ListStackResourcesInput{
			StackName: aws.String(l.stackName),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, errors.Wrap("inventory", errors.ErrInventoryLoad, errors.FromAWS("listStackResources", err)).
				WithMessage(fmt.Sprintf("stack %s page %d", l.stackName, page+1))
		}
		page++

		for _, summary := range output.StackResourceSummaries {
			records = append(records, deploytypes.ResourceRecord{
				LogicalID:  aws.ToString(summary.LogicalResourceId),
				PhysicalID: aws.ToString(summary.PhysicalResourceId),
			})
		}

		if aws.ToString(output.NextToken) == "" {
			break
		}
		nextToken = output.NextToken
	}

	return &Inventory{records: records}, nil
}
