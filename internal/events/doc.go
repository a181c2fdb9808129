// Package events provides synchronous domain-event fan-out.
//
// The task service emits an event after each successful mutation of
// interest (task created, task completed). Observers are invoked in
// registration order; a failing or panicking observer is logged and
// isolated so it can never abort the operation that triggered the event
// or block later observers.
package events
