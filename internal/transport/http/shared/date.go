package shared

import "time"

// Dates arrive either as full RFC3339 timestamps or as bare calendar days.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate returns the zero time for an empty value so optional date fields
// pass through unchecked.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range dateLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}
