// Package dispatch performs the outbound HTTP leg of an announcement.
//
// Delivery is fire-and-forget: one POST per job, bounded by a client
// timeout, response status not inspected. A bounded in-process queue with a
// fixed worker pool decouples delivery from the producing request cycle.
package dispatch
