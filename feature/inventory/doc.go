// Package inventory reads and displays the resources of a single instance.
//
// It backs the get command group. Listings reuse the fetchers of the
// migration features so a listing shows exactly what a migration would read,
// before any migration filter is applied.
package inventory
