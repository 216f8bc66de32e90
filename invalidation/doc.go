// Package invalidation maps entity mutations onto the cache keys they make
// stale.
//
// The Registry is the static Related-Keys table: for each entity kind it
// enumerates the families to evict, in two modes. Detail and stats views
// have exactly one cache entry, so they invalidate by concrete key. List
// views invalidate by prefix, because every page/sort/filter combination a
// caller ever requested may be cached and no finite enumeration exists.
//
// The Invalidator executes that table against the shared cache and then
// notifies registered observers (mounted tables) whose active key fell in
// an affected family, so fresh data appears without the table blanking.
//
// The registry is maintained by hand alongside the querykey model; Check
// catches the two drifting apart and is run at container wiring time.
package invalidation
