// Package service is the service-call surface: named operations grouped by
// domain, each with a declarative parameter schema validated before dispatch.
//
// A Schema lists the fields a call accepts (kind, required, default, numeric
// range). Apply validates a raw parameter map and fills defaults, so handlers
// receive complete, typed parameters and never re-check them.
//
// The Registry maps (domain, name) to a Definition and owns the error
// boundary: recognized domain errors pass through to the caller untouched,
// anything else is wrapped as ErrServiceFailed. Every call is written to the
// audit trail, including failures.
package service
