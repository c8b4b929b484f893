package jail

import (
	"sort"
	"strconv"
	"strings"
)

// attribute resolves a filter/sort field to its string value. Unknown
// fields fall through to the property map so callers can filter on
// arbitrary jail properties.
func (j Jail) attribute(field string) string {
	switch field {
	case "id", "name", "uuid":
		return j.ID
	case "jid":
		return j.JID
	case "path":
		return j.Path
	case "state":
		return string(j.State)
	case "kind", "type":
		return string(j.Kind)
	case "release":
		return j.Release
	case "ip4", "ip4_addr":
		return j.IP4
	default:
		return j.Properties[field]
	}
}

// compare orders two attribute values numerically when both parse as
// numbers, lexically otherwise.
func compare(a, b string) int {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func (f Filter) matches(j Jail) bool {
	got := j.attribute(f.Field)

	switch f.Op {
	case "=", "==":
		return got == f.Value
	case "!=":
		return got != f.Value
	case ">":
		return compare(got, f.Value) > 0
	case ">=":
		return compare(got, f.Value) >= 0
	case "<":
		return compare(got, f.Value) < 0
	case "<=":
		return compare(got, f.Value) <= 0
	case "~":
		return strings.Contains(got, f.Value)
	case "in":
		for _, v := range strings.Split(f.Value, ",") {
			if got == strings.TrimSpace(v) {
				return true
			}
		}
		return false
	case "nin":
		for _, v := range strings.Split(f.Value, ",") {
			if got == strings.TrimSpace(v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// applyQuery filters, sorts and paginates jails. Results are a best-effort
// snapshot; reads take no locks.
func applyQuery(jails []Jail, cfg QueryConfig) []Jail {
	out := make([]Jail, 0, len(jails))
	for _, j := range jails {
		keep := true
		for _, f := range cfg.Filters {
			if !f.matches(j) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, j)
		}
	}

	if cfg.Options.Sort != "" {
		field := cfg.Options.Sort
		desc := cfg.Options.Order == "desc"
		sort.SliceStable(out, func(i, k int) bool {
			c := compare(out[i].attribute(field), out[k].attribute(field))
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if cfg.Options.Offset > 0 {
		if cfg.Options.Offset >= len(out) {
			return []Jail{}
		}
		out = out[cfg.Options.Offset:]
	}
	if cfg.Options.Limit > 0 && cfg.Options.Limit < len(out) {
		out = out[:cfg.Options.Limit]
	}

	return out
}
