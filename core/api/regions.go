package api

import (
	"strings"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "NA_EAST"

// Region is a platform deployment.
type Region struct {
	Code        string `json:"code"`
	BaseURL     string `json:"base_url"`
	Description string `json:"description"`
}

var regions = []Region{
	{Code: "NA_EAST", BaseURL: "https://platform.sublime.security", Description: "North America East (Virginia)"},
	{Code: "NA_WEST", BaseURL: "https://na-west.platform.sublime.security", Description: "North America West (Oregon)"},
	{Code: "CANADA", BaseURL: "https://ca.platform.sublime.security", Description: "Canada (Montréal)"},
	{Code: "EU_DUBLIN", BaseURL: "https://eu.platform.sublime.security", Description: "Europe (Dublin)"},
	{Code: "EU_UK", BaseURL: "https://uk.platform.sublime.security", Description: "Europe (United Kingdom)"},
	{Code: "AUSTRALIA", BaseURL: "https://au.platform.sublime.security", Description: "Australia (Sydney)"},
}

// Regions returns all known regions.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// LookupRegion resolves a region code, case-insensitively.
// An empty code resolves to DefaultRegion.
func LookupRegion(code string) (Region, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultRegion
	}
	for _, r := range regions {
		if r.Code == code {
			return r, nil
		}
	}

	codes := make([]string, 0, len(regions))
	for _, r := range regions {
		codes = append(codes, r.Code)
	}
	return Region{}, &ConfigError{Message: "Invalid region: " + code + ". Valid regions: " + strings.Join(codes, ", ")}
}
