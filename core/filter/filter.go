package filter

// Where keeps the items for which keep returns true.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// ByIDs keeps items whose id is listed in include (when non-empty) and not
// listed in exclude. Both arguments are comma-separated.
func ByIDs[T any](items []T, include, exclude string, id func(T) string) []T {
	return byMembership(items, ParseSet(include), ParseSet(exclude), id)
}

// ByTypes drops ignored types, then applies the include and exclude lists.
func ByTypes[T any](items []T, include, exclude string, ignored Set, typ func(T) string) []T {
	out := items
	if len(ignored) > 0 {
		out = Where(out, func(item T) bool { return !ignored.Has(typ(item)) })
	}
	return byMembership(out, ParseSet(include), ParseSet(exclude), typ)
}

// ByCreator drops items created by one of the excluded authors, matched on
// either the user or the organization name. includeSystem disables it.
func ByCreator[T any](items []T, includeSystem bool, excluded Set, creator func(T) (user, org string)) []T {
	if includeSystem || len(excluded) == 0 {
		return items
	}
	return Where(items, func(item T) bool {
		user, org := creator(item)
		return !excluded.Has(user) && !excluded.Has(org)
	})
}

// ByAttribute keeps items whose attribute equals want.
func ByAttribute[T any, V comparable](items []T, value func(T) V, want V) []T {
	return Where(items, func(item T) bool { return value(item) == want })
}

// ByBool keeps items whose flag equals *want. A nil want keeps everything.
func ByBool[T any](items []T, value func(T) bool, want *bool) []T {
	if want == nil {
		return items
	}
	return ByAttribute(items, value, *want)
}

func byMembership[T any](items []T, include, exclude Set, key func(T) string) []T {
	out := items
	if len(include) > 0 {
		out = Where(out, func(item T) bool { return include.Has(key(item)) })
	}
	if len(exclude) > 0 {
		out = Where(out, func(item T) bool { return !exclude.Has(key(item)) })
	}
	return out
}
