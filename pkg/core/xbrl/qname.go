package xbrl

import (
	"fmt"
	"strings"
)

// QualifiedName is a fact's taxonomy prefix and local name, e.g. jppfs_cor:Assets.
type QualifiedName struct {
	Prefix string `json:"prefix"`
	Local  string `json:"local"`
}

// ParseQualifiedName splits key on its single ':' separator.
// Keys with zero or several separators, or an empty half, are rejected.
func ParseQualifiedName(key string) (QualifiedName, error) {
	parts := strings.Split(key, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return QualifiedName{}, fmt.Errorf("%w: %q", ErrUnparsableQualifiedName, key)
	}
	return QualifiedName{Prefix: parts[0], Local: parts[1]}, nil
}

func (q QualifiedName) String() string {
	return q.Prefix + ":" + q.Local
}
