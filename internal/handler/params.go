package handler

import (
	"strconv"
	"strings"
)

// parseIDList turns a repeated query parameter into ids. A single value may
// also carry a comma-joined list, optionally with spaces around the commas.
func parseIDList(values []string) ([]int64, error) {
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(strings.ReplaceAll(values[0], " ", ""), ",")
	}

	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
