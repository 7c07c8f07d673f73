// Package media integrates a music-streaming account: playback control,
// queue and history, favorites across every media kind, following, playlist
// editing, catalog and browse lookups, and listening insights over the
// streaming service's Web API.
//
// The Client wraps the HTTP surface. Command dispatch is a single table in
// dispatch.go mapping each Command constant to its parameter schema and
// handler, so adding a command means adding one table entry and the service
// registry picks it up through RegisterServices. There is no string-matched
// branching anywhere on the call path.
//
// Authentication is a bearer token supplied in config. Token refresh is the
// account owner's problem; when the token dies the setup supervisor raises
// an auth issue and waits for new credentials.
package media
