package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike lowercases s and escapes LIKE wildcards so it matches literally.
func escapeLike(s string) string {
	return strings.ToLower(likeEscaper.Replace(s))
}
