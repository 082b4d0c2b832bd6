package s3deploy

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/inventory"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/resolver"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/scheduler"
)

// Deploy runs every configured target and reports the outcome of each.
//
// A TriggerDeployFinished run only proceeds when the configuration enables
// auto deployment; otherwise a skipped report is returned without any AWS
// request. Target and file failures are recorded in the report and do not
// produce an error. The error is reserved for failures of the run itself,
// such as a stack inventory that cannot be loaded.
func (d *Deployer) Deploy(
	ctx context.Context,
	trigger deploytypes.Trigger,
	opts ...deploytypes.DeployOption,
) (*deploytypes.Report, error) {
	startTime := time.Now()

	if trigger == deploytypes.TriggerDeployFinished && !d.config.Auto {
		d.logger.Debug("auto deployment disabled, skipping", "trigger", trigger)
		return &deploytypes.Report{Skipped: true}, nil
	}

	runCfg := &deploytypes.DeployOptionConfig{}
	for _, opt := range opts {
		opt(runCfg)
	}

	inv, err := inventory.NewLoader(d.cfnClient, d.stackName, d.needsInventory()).Load(ctx)
	if err != nil {
		d.logger.Error("failed to load stack resources", "stack", d.stackName, "error", err)
		return nil, err
	}

	targets := d.config.Targets
	results := make([]deploytypes.TargetResult, len(targets))
	tasks := make([]scheduler.Task, len(targets))
	for i := range targets {
		results[i] = deploytypes.TargetResult{Index: i, Status: deploytypes.StatusPending}
		tasks[i] = func(ctx context.Context) error {
			return d.deployTarget(ctx, inv, targets[i], runCfg, &results[i])
		}
	}

	limit := d.config.UploadConcurrency
	if limit < 1 {
		limit = deploytypes.DefaultUploadConcurrency
	}
	scheduler.RunAll(ctx, limit, tasks)

	report := &deploytypes.Report{
		Targets:  results,
		Duration: time.Since(startTime),
	}
	d.logSummary(report)

	return report, nil
}

// needsInventory reports whether any target refers to a stack resource.
func (d *Deployer) needsInventory() bool {
	if !d.config.ResolveReferences {
		return false
	}
	for _, t := range d.config.Targets {
		if t.Bucket.Kind() == deploytypes.BucketReference {
			return true
		}
	}
	return false
}

// deployTarget runs one target and writes its outcome into result.
func (d *Deployer) deployTarget(
	ctx context.Context,
	inv *inventory.Inventory,
	target deploytypes.AssetTarget,
	runCfg *deploytypes.DeployOptionConfig,
	result *deploytypes.TargetResult,
) error {
	fail := func(err error) error {
		result.Status = deploytypes.StatusFailed
		result.Err = err
		return err
	}

	bucket, err := resolver.Resolve(inv, target.Bucket)
	if err != nil {
		d.logger.Warn("skipping target, bucket could not be resolved",
			"target", result.Index, "bucket", target.Bucket.String(), "error", err)
		return fail(err)
	}
	result.Bucket = bucket

	if runCfg.BucketFilter != "" && runCfg.BucketFilter != bucket {
		d.logger.Debug("skipping target, bucket filtered out",
			"target", result.Index, "bucket", bucket, "filter", runCfg.BucketFilter)
		result.Status = deploytypes.StatusSkipped
		return nil
	}

	d.logger.Debug("bucket selected", "target", result.Index, "bucket", bucket, "prefix", target.Prefix)

	if target.Empty {
		erased, err := d.eraser.Erase(ctx, bucket, target.Prefix)
		if erased != nil {
			result.ObjectsErased = erased.Deleted
		}
		if err != nil {
			d.logger.Warn("failed to empty bucket prefix",
				"target", result.Index, "bucket", bucket, "prefix", target.Prefix, "error", err)
			return fail(err)
		}
	}

	groups := make([]scheduler.Task, len(target.Files))
	for i, group := range target.Files {
		groups[i] = func(ctx context.Context) error {
			return d.deployGroup(ctx, target, group, bucket, result)
		}
	}
	scheduler.RunInOrder(ctx, groups)

	if err := ctx.Err(); err != nil {
		return fail(errors.NewError("deploy", err).WithBucket(bucket))
	}

	result.Status = deploytypes.StatusCompleted
	d.logger.Debug("target completed",
		"target", result.Index,
		"bucket", bucket,
		"uploaded", result.FilesUploaded,
		"failed", result.FilesFailed,
		"size", humanize.Bytes(uint64(result.BytesUploaded)))
	return nil
}

// deployGroup uploads the files of one group in order. Failures are
// recorded in result and do not stop the remaining files.
func (d *Deployer) deployGroup(
	ctx context.Context,
	target deploytypes.AssetTarget,
	group deploytypes.FileGroup,
	bucket string,
	result *deploytypes.TargetResult,
) error {
	files, err := d.scanner.Expand(ctx, group.Source, group.Globs)
	if err != nil {
		d.logger.Warn("failed to scan source", "bucket", bucket, "source", group.Source, "error", err)
		result.FilesFailed++
		result.Errors = append(result.Errors, deploytypes.FileError{Path: group.Source, Err: err})
		return err
	}

	d.logger.Debug("path scanned", "source", group.Source, "globs", group.Globs, "files", len(files))

	tasks := make([]scheduler.Task, len(files))
	for i, file := range files {
		tasks[i] = func(ctx context.Context) error {
			uploaded, err := d.pipeline.UploadFile(ctx, target, group, bucket, file)
			if err != nil {
				d.logger.Warn("failed to upload file", "bucket", bucket, "file", file, "error", err)
				result.FilesFailed++
				result.Errors = append(result.Errors, deploytypes.FileError{
					Path: file,
					Key:  upload.ObjectKey(target.Prefix, file),
					Err:  err,
				})
				return err
			}
			result.FilesUploaded++
			result.BytesUploaded += uploaded.Size
			return nil
		}
	}

	return scheduler.FirstError(scheduler.RunInOrder(ctx, tasks))
}

func (d *Deployer) logSummary(report *deploytypes.Report) {
	var (
		uploaded, failed int
		size             int64
	)
	for _, t := range report.Targets {
		uploaded += t.FilesUploaded
		failed += t.FilesFailed
		size += t.BytesUploaded
	}

	attrs := []any{
		"targets", len(report.Targets),
		"uploaded", uploaded,
		"failed", failed,
		"size", humanize.Bytes(uint64(size)),
		"duration", report.Duration,
	}
	if report.Failed() {
		d.logger.Warn("deployment finished with errors", attrs...)
		return
	}
	d.logger.Debug("deployment finished", attrs...)
}
