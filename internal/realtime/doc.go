// Package realtime implements the broadcast registry: the owner of all
// open live channels and the fan-out path for change notifications.
//
// Each channel gets a buffered outbox drained by its own write pump
// goroutine, so no lock is ever held across a blocking send and a hung
// peer degrades only its own delivery path. A failed or saturated channel
// is closed and removed without affecting delivery to the others.
package realtime
