// Package tablestate provides the composable state units of one mounted
// table: pagination, sorting, primary free-text filter, secondary column
// filters, column visibility and row selection.
//
// Each unit is independent and synchronous; none of them perform fetches.
// Pagination, sorting and the filters feed the query key through the
// controller, which binds their OnChange callbacks. Visibility and
// selection are presentation state only and are deliberately excluded from
// key construction.
//
// The primary filter debounces raw input (DefaultDebounce) so a keystroke
// burst commits once, and its SetValue entry point drops non-string values
// defensively. Page-size choices persist per entity kind through a
// PreferenceStore; a viper-backed file store and an in-memory store are
// provided.
package tablestate
