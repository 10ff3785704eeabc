// Package imagejob contains the image upload job aggregate.
//
// An image upload job tracks asynchronous processing of a restaurant menu
// image after the raw bytes have already been persisted to object storage.
// Jobs move Pending -> Processing -> Completed/Failed; the Pending ->
// Processing step is an atomic claim so each job is processed by exactly one
// worker even when several workers poll concurrently.
package imagejob
