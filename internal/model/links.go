package model

import "strings"

// DirectLinks are the media links of one episode page on jupiterbroadcasting.com.
type DirectLinks struct {
	JBURL       string `json:"jb_url"`
	MP3Audio    string `json:"mp3_audio,omitempty"`
	OGGAudio    string `json:"ogg_audio,omitempty"`
	Video       string `json:"video,omitempty"`
	HDVideo     string `json:"hd_video,omitempty"`
	MobileVideo string `json:"mobile_video,omitempty"`
	YouTube     string `json:"youtube,omitempty"`
}

// LinkSlug turns a download label such as "HD Video" into its field key "hd_video".
func LinkSlug(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// Set stores href under the field named by slug. It reports false for slugs that
// have no field.
func (d *DirectLinks) Set(slug, href string) bool {
	switch slug {
	case "mp3_audio":
		d.MP3Audio = href
	case "ogg_audio":
		d.OGGAudio = href
	case "video":
		d.Video = href
	case "hd_video":
		d.HDVideo = href
	case "mobile_video":
		d.MobileVideo = href
	case "youtube":
		d.YouTube = href
	default:
		return false
	}
	return true
}
