package multitrack

import "strings"

// OSArtifact is the macOS directory metadata file hidden from track listings.
const OSArtifact = ".DS_Store"

// audioSuffixes are matched case-sensitively against the end of a filename.
var audioSuffixes = []string{".mp3", ".ogg", ".wav", ".m4a"}

// IsAudioFile reports whether filename denotes a playable sound.
func IsAudioFile(filename string) bool {
	for _, suffix := range audioSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}

// DisplayName strips the last extension from filename.
// A name without a usable extension is returned unchanged.
func DisplayName(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return filename
	}
	return filename[:i]
}
