package telegram

import (
	"strconv"
	"strings"
)

// parseSize reads an optional deck size from command arguments.
// No arguments yields def, anything but a number is rejected.
func parseSize(args string, def int) (int, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return def, true
	}
	if len(fields) > 1 {
		return 0, false
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
