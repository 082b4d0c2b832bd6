// Package erase removes every object under a bucket prefix.
//
// Objects are listed a page at a time and each page is removed with a single
// DeleteObjects batch of up to 1000 keys, the S3 maximum. The loop repeats
// while the listing reports more keys, up to a fixed number of cycles.
package erase
