// Package automation reconciles a guild's scheduled events against the
// local job table and starts voice/stage events when their time arrives.
//
// # Sync
//
// Sync rebuilds the whole job table from the remote event list: clear,
// filter to eligible events (scheduled + voice/stage), schedule one job per
// event at its start time. A start time that already passed is clamped to
// now+grace instead of being dropped, so an event is never silently skipped
// just because the process was down or a sync ran late.
//
// # Firing
//
// When a job fires the event is re-fetched (it may have been started,
// canceled or deleted since scheduling), conflicting active events in the
// destination channel are ended, and the start action is issued. Failures
// are classified (not-found, already-active, permission, remote) and
// contained per event; nothing here ever takes down the process or other
// pending jobs.
package automation
