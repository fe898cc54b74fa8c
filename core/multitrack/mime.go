package multitrack

import "strings"

// DefaultContentType is sent when a sound's extension is not in the MIME table.
const DefaultContentType = "application/octet-stream"

var mimeTypes = map[string]string{
	"ogg": "application/ogg",
	"wav": "audio/x-wav",
	"mp3": "audio/mpeg",
	"m4a": "audio/m4a",
}

// MimeType looks up the content type for filename by its lower-cased extension.
func MimeType(filename string) (string, bool) {
	ext := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	mt, ok := mimeTypes[strings.ToLower(ext)]
	return mt, ok
}
