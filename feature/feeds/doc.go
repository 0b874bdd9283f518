// Package feeds migrates rule feeds between instances.
//
// Feeds are matched by name. System feeds are left alone unless explicitly
// included.
package feeds
