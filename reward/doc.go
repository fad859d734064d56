// Package reward implements the transient reward notification slot: one
// displayed event at a time, auto-expired after a fixed window.
//
// # Timer ownership
//
// The display countdown is a cancellable timer owned exclusively by the
// [Store]. Showing a new event cancels the previous countdown and arms a new
// one inside a single critical section, and every armed timer carries a
// generation number so a stale timer can never clear a newer event. There is
// no "arm and forget" path.
//
// # Single writer, many readers
//
// Only reward-producing flows call [Store.Show]; the notification view only
// reads via [Store.Current] or [Store.Subscribe]. There is no history and no
// queue: a second event replaces the first, even mid-display.
package reward
