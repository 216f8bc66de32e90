// Package fetch turns query keys into backend list requests.
//
// One Adapter exists per resource kind. It shapes the key's pagination,
// sort, search and secondary filters into the backend's query parameters
// (page, size, order_by, descending, plus the resource's filter fields),
// resolves nested keys against the parent-scoped resource path, and
// validates the {items, pages} envelope before anything reaches the cache.
//
// Failures split into TransportError (the collaborator failed; the user
// gets a retry affordance) and SchemaValidationError (the payload shape is
// wrong; diagnostics are logged, the payload is discarded whole). An empty
// result set is a valid page, not an error.
package fetch
