package shared

import (
	"strconv"
	"strings"
)

// ParseIDList parses a comma separated list of positive integer IDs such as
// "1,2,3". Tokens that are not positive digit strings are skipped and
// duplicates collapse. It fails only when no usable id remains.
func ParseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]struct{}, len(parts))
	for _, part := range parts {
		id, ok := parseID(strings.TrimSpace(part))
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, NewValidationError("items must contain at least one numeric id")
	}
	return ids, nil
}

func parseID(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
