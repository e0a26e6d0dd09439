// Package retry repeats caller-side operations with exponential backoff.
//
// [Do] retries an operation until it succeeds, fails with a [Fatal] error, or
// runs out of attempts. [Until] polls a condition the same way. Neither is
// used inside the cluster adapter, which never retries on its own; they serve
// callers that choose to wait, such as status polling and object store
// preparation.
package retry
