// Package syncq is the durable offline queue for outbound sync events.
//
// Events that could not be delivered are appended to the sync_queue table
// and replayed later in FIFO order. Two drain policies exist:
//
//   - PolicyClearAll: every item is tried once, then everything that was
//     in the queue when the pass started is removed, failures included.
//   - PolicyRetainFailed: each item is retried with exponential backoff;
//     delivered items are removed, the rest stay with their attempt count
//     bumped.
//
// Syncer puts the two halves together: try the client, fall back to the
// queue.
package syncq
