package multitrack

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Paths resolves on-disk locations of track roots.
type Paths struct {
	DefaultRoot string // Track root used when no user is given
	UserBase    string
	UserSuffix  string
	AliasDir    string // Empty disables aliases
}

// ValidateSegment rejects values that are not a single, plain path element.
func ValidateSegment(s string) error {
	switch {
	case s == "", s == ".", s == "..":
		return fmt.Errorf("%w: %q", ErrInvalidPath, s)
	case strings.ContainsAny(s, `/\`+"\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	return nil
}

// Within joins segs under root and makes sure the result stays inside root.
func Within(root string, segs ...string) (string, error) {
	for _, s := range segs {
		if err := ValidateSegment(s); err != nil {
			return "", err
		}
	}
	root = filepath.Clean(root)
	joined := filepath.Join(append([]string{root}, segs...)...)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes %q", ErrInvalidPath, joined, root)
	}
	return joined, nil
}

// UserTrackRoot returns UserBase/<user>/UserSuffix.
func (p Paths) UserTrackRoot(user string) (string, error) {
	if err := ValidateSegment(user); err != nil {
		return "", err
	}
	return filepath.Join(p.UserBase, user, p.UserSuffix), nil
}

// AliasEnabled reports whether user aliases are configured.
func (p Paths) AliasEnabled() bool {
	return p.AliasDir != ""
}

// AliasPath returns the stable alias location for user.
func (p Paths) AliasPath(user string) (string, error) {
	if !p.AliasEnabled() {
		return "", fmt.Errorf("alias directory not configured")
	}
	return Within(p.AliasDir, user)
}
