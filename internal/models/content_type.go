package models

import "fmt"

// ContentType identifies the kind of catalog item.
type ContentType string

const (
	ContentTypeMovie   ContentType = "movie"
	ContentTypeSerie   ContentType = "serie"
	ContentTypeSeason  ContentType = "season"
	ContentTypeEpisode ContentType = "episode"
	ContentTypeActor   ContentType = "actor"
	ContentTypeCrew    ContentType = "crew"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []ContentType{
	ContentTypeMovie,
	ContentTypeSerie,
	ContentTypeSeason,
	ContentTypeEpisode,
	ContentTypeActor,
	ContentTypeCrew,
}

// ContentTypeDisplay is the label and icon rendered for a content type.
type ContentTypeDisplay struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var contentTypeDisplays = map[ContentType]ContentTypeDisplay{
	ContentTypeMovie:   {Label: "Movie", Icon: "film"},
	ContentTypeSerie:   {Label: "Series", Icon: "tv"},
	ContentTypeSeason:  {Label: "Season", Icon: "layers"},
	ContentTypeEpisode: {Label: "Episode", Icon: "play-circle"},
	ContentTypeActor:   {Label: "Actor", Icon: "user"},
	ContentTypeCrew:    {Label: "Crew", Icon: "users"},
}

// DisplayFor returns the label and icon for ct. A nil or unknown content type
// renders nothing: the zero display and false.
func DisplayFor(ct *ContentType) (ContentTypeDisplay, bool) {
	if ct == nil {
		return ContentTypeDisplay{}, false
	}
	d, ok := contentTypeDisplays[*ct]
	return d, ok
}

// Valid reports whether ct is a supported content type.
func (ct ContentType) Valid() bool {
	_, ok := contentTypeDisplays[ct]
	return ok
}

// ParseContentType validates a raw content type.
func ParseContentType(raw string) (ContentType, error) {
	ct := ContentType(raw)
	if !ct.Valid() {
		return "", fmt.Errorf("unknown content type %q", raw)
	}
	return ct, nil
}

// PlaylistTab is the plural tab name under which a playlist lists one content type.
type PlaylistTab string

const (
	TabMovies   PlaylistTab = "movies"
	TabSeries   PlaylistTab = "series"
	TabSeasons  PlaylistTab = "seasons"
	TabEpisodes PlaylistTab = "episodes"
	TabActors   PlaylistTab = "actors"
	TabCrew     PlaylistTab = "crew"
)

var tabContentTypes = map[PlaylistTab]ContentType{
	TabMovies:   ContentTypeMovie,
	TabSeries:   ContentTypeSerie,
	TabSeasons:  ContentTypeSeason,
	TabEpisodes: ContentTypeEpisode,
	TabActors:   ContentTypeActor,
	TabCrew:     ContentTypeCrew,
}

// ParsePlaylistTab validates a raw tab name.
func ParsePlaylistTab(raw string) (PlaylistTab, error) {
	tab := PlaylistTab(raw)
	if _, ok := tabContentTypes[tab]; !ok {
		return "", fmt.Errorf("unknown playlist tab %q", raw)
	}
	return tab, nil
}

// ContentType returns the content type listed under the tab.
func (t PlaylistTab) ContentType() ContentType {
	return tabContentTypes[t]
}

// TabFor returns the tab listing ct.
func TabFor(ct ContentType) (PlaylistTab, bool) {
	for tab, c := range tabContentTypes {
		if c == ct {
			return tab, true
		}
	}
	return "", false
}
