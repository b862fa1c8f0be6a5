package handler

import (
	"fmt"
	"strings"
)

// minIfMatchLength is the shortest acceptable quoted version: "0"
const minIfMatchLength = 3

// PreconditionError rejects an update before its body is decoded
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// ParseIfMatch extracts the version token from an If-Match header.
// The token is returned without its outer quotes and is not parsed as a number;
// that happens in the service so malformed numbers report InvalidVersion.
func ParseIfMatch(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", &PreconditionError{Message: "version missing"}
	}
	if len(header) < minIfMatchLength {
		return "", &PreconditionError{Message: fmt.Sprintf("invalid version: %s", header)}
	}
	return header[1 : len(header)-1], nil
}

// MatchesIfNoneMatch reports whether any entity tag in header equals etag
func MatchesIfNoneMatch(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
