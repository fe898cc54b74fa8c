package model

// Track is one song/performance: a directory of instrument stems.
type Track struct {
	ID          string       `json:"id"`
	Instruments []Instrument `json:"instruments"` // Ordered by sound filename
}

// Instrument is one playable stem of a track.
type Instrument struct {
	Name  string `json:"name"`  // Filename without its last extension
	Sound string `json:"sound"` // Original filename, used to build the download path
}
