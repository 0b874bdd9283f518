package filter

// Options combines the standard filters for one record type.
// A filter only runs when its accessor is set.
type Options[T any] struct {
	IncludeIDs string
	ExcludeIDs string
	ID         func(T) string

	IncludeTypes string
	ExcludeTypes string
	Ignored      Set
	Type         func(T) string

	IncludeSystem   bool
	ExcludedAuthors Set
	Creator         func(T) (user, org string)

	// Custom filters run last, in order.
	Custom []func([]T) []T
}

// Apply runs the id, type, creator and custom filters in that order.
func Apply[T any](items []T, opts Options[T]) []T {
	out := items
	if opts.ID != nil {
		out = ByIDs(out, opts.IncludeIDs, opts.ExcludeIDs, opts.ID)
	}
	if opts.Type != nil {
		out = ByTypes(out, opts.IncludeTypes, opts.ExcludeTypes, opts.Ignored, opts.Type)
	}
	if opts.Creator != nil {
		out = ByCreator(out, opts.IncludeSystem, opts.ExcludedAuthors, opts.Creator)
	}
	for _, fn := range opts.Custom {
		if fn != nil {
			out = fn(out)
		}
	}
	return out
}
