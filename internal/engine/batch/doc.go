// Package batch partitions keyword lists into provider-sized batches and
// tracks run progress.
//
// The DataForSEO search-volume endpoint caps the number of keywords per
// task, so large inputs are split into fixed-size, order-preserving batches,
// each submitted as one remote task. Key features:
//   - Deterministic partitioning: same input and cap always yield the same
//     batches, with 1-based sequence numbers
//   - Progress tracking with thread-safe counters for UI updates
//   - No item is dropped, reordered across batches, or duplicated
package batch
