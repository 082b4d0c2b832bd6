// Package s3deploy uploads local asset files to S3 buckets as part of a
// deployment pipeline.
//
// A deployment configuration lists targets. Each target names a bucket, an
// optional key prefix and canned ACL, and one or more file groups made of a
// source directory and glob patterns. For every target the Deployer
//
//   - resolves the bucket, either a literal name or a reference to a resource
//     of the deployed CloudFormation stack
//   - optionally erases the objects under the prefix
//   - expands the globs and uploads each file with its content type and the
//     group headers
//
// Targets are processed concurrently with a small ceiling. File groups and
// the files inside them are uploaded one at a time, in order.
//
// Failures of a single file or target do not abort the run. They are
// recorded in the returned Report, which callers inspect with Report.Failed
// and Report.Warnings. Only failures that prevent the run as a whole, such
// as an unreadable stack inventory, are returned as errors.
//
// Example usage:
//
//	project, err := config.Load(osfs.New("."), "serverless.yml")
//	if err != nil {
//	    return err
//	}
//
//	deployer, err := s3deploy.New(ctx, project.Assets,
//	    s3deploy.WithRegion(project.Region),
//	    s3deploy.WithStackName(project.StackName()),
//	    s3deploy.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    return err
//	}
//
//	report, err := deployer.Deploy(ctx, deploytypes.TriggerCommand)
//	if err != nil {
//	    return err
//	}
//	if report.Failed() {
//	    for _, w := range report.Warnings() {
//	        log.Println(w)
//	    }
//	}
package s3deploy
