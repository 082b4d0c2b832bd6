// Package upload turns local files into S3 objects.
//
// For every file the pipeline reads the body, resolves its content type,
// derives the object key from the target prefix and builds the request from
// the target ACL and the group headers. Headers override computed values.
//
// Bodies at or above the multipart threshold go through the SDK upload
// manager; everything else is a single PutObject request.
package upload
