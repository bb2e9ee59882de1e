package db

import "strings"

// compactSQL collapses whitespace so multi-line queries log on one line.
func compactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
