// Package announce turns domain events into channel-ready notifications for
// configured outgoing webhooks.
//
// The pipeline is visibility resolution -> webhook matching -> text
// building -> payload assembly, with actual HTTP delivery handed off to an
// asynchronous queue. The whole path is best-effort: configuration gaps
// degrade to a logged no-op and never fail the business operation that
// produced the event.
package announce
