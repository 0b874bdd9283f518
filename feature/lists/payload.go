package lists

import (
	"sort"

	"sublime-migrate/core/model"
)

type stringListPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	EntryType   string   `json:"entry_type"`
	Entries     []string `json:"entries"`
}

type userGroupListPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	EntryType       string `json:"entry_type"`
	ProviderGroupID string `json:"provider_group_id"`
}

type entriesPatch struct {
	Entries []string `json:"entries"`
}

type providerGroupPatch struct {
	ProviderGroupID string `json:"provider_group_id"`
}

// CreatePayload builds the create body for l. groupID is the destination
// provider group id and is only used for user group lists.
func CreatePayload(l model.List, groupID string) any {
	if l.EntryType == model.ListTypeUserGroup {
		return userGroupListPayload{
			Name:            l.Name,
			Description:     l.Description,
			EntryType:       model.ListTypeUserGroup,
			ProviderGroupID: groupID,
		}
	}
	entries := l.Entries
	if entries == nil {
		entries = []string{}
	}
	return stringListPayload{
		Name:        l.Name,
		Description: l.Description,
		EntryType:   model.ListTypeString,
		Entries:     entries,
	}
}

// SameEntries reports whether a and b hold the same set of entries.
func SameEntries(a, b []string) bool {
	sa, sb := entrySet(a), entrySet(b)
	if len(sa) != len(sb) {
		return false
	}
	for e := range sa {
		if _, ok := sb[e]; !ok {
			return false
		}
	}
	return true
}

// uniqueSorted returns the distinct entries in sorted order.
func uniqueSorted(entries []string) []string {
	set := entrySet(entries)
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func entrySet(entries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	return set
}
