// Package pager holds the paginated dataset cache behind the records table.
//
// A Cache owns three pieces of state:
//   - the dataset, fetched in full from the backend and held in memory
//   - a zero-based page cursor
//   - the fixed page size
//
// Every page, summary line and pagination button is derived from that state on
// demand. Filters narrow the dataset in place: records removed by a filter stay
// gone until the next LoadAll. Rendering and error reporting are collaborators
// injected into the cache so the whole package can be exercised without a terminal.
package pager
