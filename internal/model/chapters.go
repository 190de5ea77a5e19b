package model

// Chapters is a podcast namespace JSON chapters document.
type Chapters struct {
	Version  string    `json:"version"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter is one entry of a chapters document.
type Chapter struct {
	StartTime float64  `json:"startTime"`
	EndTime   *float64 `json:"endTime,omitempty"`
	Title     string   `json:"title,omitempty"`
	Img       string   `json:"img,omitempty"`
	URL       string   `json:"url,omitempty"`
	TOC       *bool    `json:"toc,omitempty"`
}
