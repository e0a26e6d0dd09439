// Package objectstore prepares the S3-compatible store that object-store
// workers write their results to.
//
// Workers receive the store's URL and credentials through their environment
// and write into a bucket named after the request. [Client.EnsureBucket]
// creates that bucket before the workers start.
package objectstore
