package media

// PlayerState is the account's current playback state.
type PlayerState struct {
	Device       PlayerDevice `json:"device"`
	IsPlaying    bool         `json:"is_playing"`
	ShuffleState bool         `json:"shuffle_state"`
	RepeatState  string       `json:"repeat_state"`
	ProgressMS   int          `json:"progress_ms"`
	Item         *Track       `json:"item"`
}

// PlayerDevice is one playback target on the account.
type PlayerDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// Track is a catalog track.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	DurationMS int      `json:"duration_ms"`
	Artists    []Artist `json:"artists"`
	Album      *Album   `json:"album,omitempty"`
}

// Album is a catalog album.
type Album struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Artists     []Artist `json:"artists"`
}

// Artist is a catalog artist.
type Artist struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// Playlist is a user playlist.
type Playlist struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// Show is a catalog podcast show.
type Show struct {
	ID            string `json:"id"`
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Publisher     string `json:"publisher"`
	Description   string `json:"description"`
	TotalEpisodes int    `json:"total_episodes"`
}

// Episode is one episode of a show.
type Episode struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMS  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`
}

// Audiobook is a catalog audiobook.
type Audiobook struct {
	ID            string `json:"id"`
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Publisher     string `json:"publisher"`
	Description   string `json:"description"`
	TotalChapters int    `json:"total_chapters"`
}

// NowPlaying is the currently playing item, without device detail.
type NowPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS int    `json:"progress_ms"`
	Item       *Track `json:"item"`
}

// QueueInfo is the current item plus the upcoming playback queue.
type QueueInfo struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

// PlayedTrack is one entry in the playback history.
type PlayedTrack struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// Category is one browse category in the catalog.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AudioFeatures is the audio analysis summary of one track.
type AudioFeatures struct {
	ID           string  `json:"id"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
	Key          int     `json:"key"`
	Mode         int     `json:"mode"`
	TimeSig      int     `json:"time_signature"`
}

// RecommendationSeeds are the inputs to a track recommendation lookup.
type RecommendationSeeds struct {
	Artists []string
	Tracks  []string
	Genres  []string
}

// devicesResponse wraps the device list endpoint.
type devicesResponse struct {
	Devices []PlayerDevice `json:"devices"`
}

// recentTracksResponse wraps the playback history endpoint.
type recentTracksResponse struct {
	Items []PlayedTrack `json:"items"`
}

// tracksResponse wraps endpoints that return a bare track list.
type tracksResponse struct {
	Tracks []Track `json:"tracks"`
}

// audioFeaturesResponse wraps the audio features endpoint.
type audioFeaturesResponse struct {
	AudioFeatures []AudioFeatures `json:"audio_features"`
}

// Paged wrappers for endpoints that return one page of items.
type pagedAlbums struct {
	Items []Album `json:"items"`
}

type pagedArtists struct {
	Items []Artist `json:"items"`
}

type pagedTracks struct {
	Items []Track `json:"items"`
}

// categoriesResponse wraps the browse categories endpoint.
type categoriesResponse struct {
	Categories struct {
		Items []Category `json:"items"`
	} `json:"categories"`
}

// playlistsEnvelope wraps browse endpoints that nest a playlist page.
type playlistsEnvelope struct {
	Playlists struct {
		Items []Playlist `json:"items"`
	} `json:"playlists"`
}

// albumsEnvelope wraps browse endpoints that nest an album page.
type albumsEnvelope struct {
	Albums struct {
		Items []Album `json:"items"`
	} `json:"albums"`
}

// playRequest is the body of a play-context or play-tracks call.
type playRequest struct {
	ContextURI string   `json:"context_uri,omitempty"`
	URIs       []string `json:"uris,omitempty"`
	PositionMS int      `json:"position_ms,omitempty"`
	Offset     *offset  `json:"offset,omitempty"`
}

type offset struct {
	Position int `json:"position"`
}

// transferRequest is the body of a transfer-playback call.
type transferRequest struct {
	DeviceIDs []string `json:"device_ids"`
	Play      bool     `json:"play"`
}

// playlistRequest is the body of playlist create and change calls.
type playlistRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Public      *bool  `json:"public,omitempty"`
}

// playlistItemsRequest is the body of playlist add/remove item calls.
type playlistItemsRequest struct {
	URIs []string `json:"uris"`
}
