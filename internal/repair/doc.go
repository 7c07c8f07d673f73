// Package repair runs multi-step repair flows bound to fixable issues.
//
// A Flow is a small wizard: Begin returns the first step, Submit advances
// until a step reports done or abort. The Manager owns the live flows,
// checks that the underlying issue exists and is fixable before starting,
// and deletes the issue when its flow completes.
//
// Form steps describe their inputs with service.Schema, so the API layer
// validates submissions the same way it validates service calls.
package repair
