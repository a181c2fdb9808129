// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The task service composes the pieces of the access path in a fixed order:
// the rate limiter admits the request, the ownership guard (optionally
// wrapped in the caching decorator) mediates store access, the query engine
// shapes list results, and the event dispatcher fans out domain events after
// successful mutations. Services receive dependencies through constructor
// injection and translate store errors into application-level errors; the
// API layer maps those to transport status codes and never re-interprets
// error kinds itself.
package service
