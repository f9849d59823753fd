// Package ingest implements the image ingestion pipeline.
//
// A pass lists pending images from a source directory, claims every
// listed file by moving it into the processed directory, then runs each
// image through blob upload, vision captioning, and EXIF metadata
// extraction concurrently. The stage outputs are assembled into a
// composite text, embedded, and upserted into the search index in
// batches.
//
// Claiming before processing makes each image an at-most-once attempt:
// a file that makes the pipeline fail is never replayed. The Driver
// retries failed passes with exponential backoff under an explicit
// attempt limit and stops when a listing comes back empty.
package ingest
