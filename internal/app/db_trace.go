package app

import (
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

// formatDBQueryForTrace flattens whitespace and folds the multi-row VALUES
// lists of batched event inserts into the first tuple plus a row count.
func formatDBQueryForTrace(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	query = foldValues(query)
	if len(query) > maxTracedQueryLength {
		return query[:maxTracedQueryLength] + "..."
	}
	return query
}

func foldValues(query string) string {
	const marker = " VALUES "
	i := strings.Index(query, marker+"(")
	if i < 0 {
		return query
	}
	head, rest := query[:i+len(marker)], query[i+len(marker):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return query
	}
	first, tail := rest[:end+1], rest[end+1:]
	rows := 1
	for strings.HasPrefix(tail, ",(") {
		next := strings.IndexByte(tail, ')')
		if next < 0 {
			break
		}
		rows++
		tail = tail[next+1:]
	}
	if rows == 1 {
		return query
	}
	return head + first + " /* " + strconv.Itoa(rows) + " rows */" + tail
}
