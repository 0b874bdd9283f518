package compare

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"sublime-migrate/core/output"
)

// Diff is the comparison of one resource type.
type Diff struct {
	Resource        string   `json:"-"`
	SourceCount     int      `json:"source_count"`
	DestCount       int      `json:"dest_count"`
	Matching        int      `json:"matching"`
	MissingInDest   []string `json:"missing_in_dest"`
	MissingInSource []string `json:"missing_in_source"`
	ContentDiffers  []string `json:"content_differs"`
}

// Differences counts the records that are not matching.
func (d Diff) Differences() int {
	return len(d.MissingInDest) + len(d.MissingInSource) + len(d.ContentDiffers)
}

// Compare pairs source and dest records by name. same decides whether a
// pair carries the same content.
func Compare[T any](resource string, source, dest []T, name func(T) string, same func(a, b T) bool) Diff {
	d := Diff{
		Resource:        resource,
		SourceCount:     len(source),
		DestCount:       len(dest),
		MissingInDest:   []string{},
		MissingInSource: []string{},
		ContentDiffers:  []string{},
	}

	byName := make(map[string]T, len(dest))
	for _, v := range dest {
		byName[name(v)] = v
	}
	inSource := make(map[string]struct{}, len(source))

	for _, v := range source {
		n := name(v)
		inSource[n] = struct{}{}
		other, ok := byName[n]
		switch {
		case !ok:
			d.MissingInDest = append(d.MissingInDest, n)
		case same(v, other):
			d.Matching++
		default:
			d.ContentDiffers = append(d.ContentDiffers, n)
		}
	}
	for _, v := range dest {
		if _, ok := inSource[name(v)]; !ok {
			d.MissingInSource = append(d.MissingInSource, name(v))
		}
	}
	return d
}

// Report is the comparison of every selected resource type.
type Report struct {
	Diffs []Diff
}

// Differences counts the differences across all resource types.
func (r *Report) Differences() int {
	n := 0
	for _, d := range r.Diffs {
		n += d.Differences()
	}
	return n
}

type summary struct {
	SourceCount int `json:"source_count"`
	DestCount   int `json:"dest_count"`
	Matching    int `json:"matching"`
	Differences int `json:"differences"`
}

func (r *Report) MarshalJSON() ([]byte, error) {
	sums := make(map[string]summary, len(r.Diffs))
	diffs := make(map[string]Diff, len(r.Diffs))
	for _, d := range r.Diffs {
		sums[d.Resource] = summary{d.SourceCount, d.DestCount, d.Matching, d.Differences()}
		diffs[d.Resource] = d
	}
	return json.Marshal(struct {
		Summary     map[string]summary `json:"summary"`
		Differences map[string]Diff    `json:"differences"`
	}{sums, diffs})
}

func (r *Report) Sections() []output.Section {
	sum := output.Section{
		Title:   "Summary",
		Headers: []string{"Configuration Type", "Source Count", "Destination Count", "Matching", "Differences"},
	}
	var total summary
	for _, d := range r.Diffs {
		sum.Rows = append(sum.Rows, []string{
			title(d.Resource),
			strconv.Itoa(d.SourceCount),
			strconv.Itoa(d.DestCount),
			strconv.Itoa(d.Matching),
			strconv.Itoa(d.Differences()),
		})
		total.SourceCount += d.SourceCount
		total.DestCount += d.DestCount
		total.Matching += d.Matching
		total.Differences += d.Differences()
	}
	sum.Rows = append(sum.Rows, []string{
		"Total",
		strconv.Itoa(total.SourceCount),
		strconv.Itoa(total.DestCount),
		strconv.Itoa(total.Matching),
		strconv.Itoa(total.Differences),
	})

	secs := []output.Section{sum}
	for _, d := range r.Diffs {
		if d.Differences() == 0 {
			continue
		}
		sec := output.Section{
			Title:   fmt.Sprintf("%s (%d differences)", title(d.Resource), d.Differences()),
			Headers: []string{"Difference", "Name"},
		}
		for _, n := range d.MissingInDest {
			sec.Rows = append(sec.Rows, []string{"Missing in destination", n})
		}
		for _, n := range d.MissingInSource {
			sec.Rows = append(sec.Rows, []string{"Missing in source", n})
		}
		for _, n := range d.ContentDiffers {
			sec.Rows = append(sec.Rows, []string{"Content differs", n})
		}
		secs = append(secs, sec)
	}
	return secs
}

func title(resource string) string {
	if resource == "" {
		return resource
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}
