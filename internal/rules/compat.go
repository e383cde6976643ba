package rules

import "strings"

// allowedParents is the static material compatibility table: for each
// material kind, the parent kinds a sample of that kind may derive from.
// Kinds absent from the table impose no constraint.
var allowedParents = map[string][]string{
	"organism":                {"organism"},
	"specimen from organism":  {"organism"},
	"organoid":                {"specimen from organism", "cell culture", "cell line"},
	"cell culture":            {"specimen from organism", "organism"},
	"cell line":               {"specimen from organism", "organism"},
	"cell specimen":           {"specimen from organism", "organism"},
	"single cell specimen":    {"specimen from organism", "organism"},
	"pool of specimens":       {"specimen from organism", "organism"},
	"teleostei embryo":        {"organism"},
	"teleostei post-hatching": {"organism"},
}

// AllowedParentKinds returns the allowed parent kinds for a material kind
// and whether the kind is constrained at all.
func AllowedParentKinds(materialKind string) ([]string, bool) {
	kinds, ok := allowedParents[strings.ToLower(strings.TrimSpace(materialKind))]
	return kinds, ok
}

func kindAllowed(kinds []string, candidate string) bool {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	for _, k := range kinds {
		if k == candidate {
			return true
		}
	}
	return false
}
