// Package setup supervises integration instances.
//
// An Integration's Setup returns an explicit Result instead of panicking or
// throwing: Ready, RetryLater, AuthRequired or Fatal. The Supervisor pattern
// matches on the outcome: Ready instances run until shutdown, RetryLater
// schedules another attempt with capped exponential backoff, AuthRequired
// raises a fixable issue in the issue registry and waits for the user,
// Fatal parks the instance until the operator intervenes.
//
// Each instance gets a Context carrying its identity and the shared
// facilities (logger, issue registry, service registry) so integrations never
// reach for globals.
package setup
