// Package device models the devices exposed by the cloud hub as typed
// capability interfaces backed by concrete per-class models.
//
// Each device class (shutter, light, climate, water heater, lock) is a
// concrete type implementing only the capabilities it actually has, so a
// caller holding a *Shutter can set its position but cannot ask it to unlock.
// Cross-cutting code (API handlers, state recorder) type-asserts against the
// capability interfaces in capability.go instead of inspecting string-typed
// state bags.
//
// Device state is a transient in-memory mirror of the hub's reported state:
// the hub owns the truth, this package only caches the latest report. Nothing
// here is persisted.
//
// Commands flow the other way through the Executor interface, implemented by
// the hub client. Models translate capability calls into vendor commands and
// vendor state reports into canonical state; the two vocabularies meet only
// in translate.go.
package device
