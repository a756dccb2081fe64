package report

import "strings"

// requiredColumns must all be present in the raw call log, by exact
// case-sensitive name. No header aliases are recognized.
var requiredColumns = []string{"bot", "mobile_number", "outcome", "contacted", "date", "recording_url"}

// SchemaError reports every required column missing from an upload, not just
// the first one found.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

// ValidateSchema checks the header row before any field coercion runs;
// the normalizer assumes the columns exist.
func ValidateSchema(headers []string) error {
	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		seen[h] = struct{}{}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := seen[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
