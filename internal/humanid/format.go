package humanid

import "regexp"

var humanIDPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// LooksLikeHumanID reports whether s has the shape of a human ID.
func LooksLikeHumanID(s string) bool {
	return humanIDPattern.MatchString(s)
}
