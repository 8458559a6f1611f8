// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strings"

// ParseIDList splits a comma-separated id list into its non-empty entries.
// Values are trimmed but not otherwise validated: an id that does not exist
// simply matches nothing downstream, which keeps filtering best-effort
// instead of turning typos into request errors.
//
// Example:
//
//	ids := utils.ParseIDList("a, b,,c") // ["a", "b", "c"]
//	ids = utils.ParseIDList("")         // nil
func ParseIDList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
