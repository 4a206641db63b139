// Package tasks implements the notification-driven download pipeline and the
// follower reconciliation pass.
//
// # Pipeline
//
// [Pipeline.RunOnce] is one end-to-end pass: [Ingestor] polls unread
// notifications and converts them to download requests (marking each source
// notification read immediately, an at-most-once dedup strategy),
// [Dispatcher] invokes the download engine per request, and [SyncEngine]
// mirrors playlist downloads into the media server, resolving file paths to
// library item ids through the run-scoped [LibraryIndex].
//
// Failures inside one notification's pipeline never propagate to other
// notifications in the same batch; nothing is retried within a run.
//
// # Friend Reconciliation
//
// [FriendLoop.Reconcile] computes followers minus following and follows back
// the gap. The operation is idempotent at the remote service, so overlapping
// or repeated passes are harmless.
//
// # Scheduling
//
// [Scheduler] runs both as independent fixed-interval loops. Each loop is
// single-flight: a tick that would overlap a still-running pass is skipped
// and counted rather than spawned concurrently.
package tasks
