// Package async drives a read-only remote fetch through an explicit
// lifecycle: Idle, Loading, then Succeeded or Failed.
//
// A Controller re-runs its producer on first activation and whenever its
// dependency values change. Every run is stamped with a generation from a
// monotonic counter; when a run settles after a newer one has started, its
// result is discarded. Observers therefore never see a stale response
// overwrite a fresher one, regardless of the order in which the fetches
// resolve.
//
// After settlement exactly one of State.Data and State.Err is meaningful.
package async
