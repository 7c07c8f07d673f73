package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Logger defines the logging interface used by the media package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds the streaming API connection settings.
type Config struct {
	// APIURL is the Web API base, e.g. "https://api.spotify.com/v1".
	APIURL string

	// Token is the OAuth bearer token for the account.
	Token string

	// Market is the two-letter country code scoping catalog lookups.
	Market string

	// Timeout bounds each HTTP call. Zero means 15 seconds.
	Timeout time.Duration
}

// Client is the streaming Web API client.
type Client struct {
	http   *resty.Client
	market string
	logger Logger
}

// NewClient creates a media client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		market: cfg.Market,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// do runs one request and classifies the response status.
func (c *Client) do(req *resty.Request, method, path string, playerCall bool) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return classifyStatus(resp.StatusCode(), playerCall)
}

// --- Player ---

// GetPlaybackState returns the current playback state, or nil when nothing
// is playing anywhere on the account.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlayerState, error) {
	var state PlayerState
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&state).
		Get("/me/player")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// 204 means no active playback; that is a state, not an error.
	if resp.StatusCode() == 204 {
		return nil, nil
	}
	if err := classifyStatus(resp.StatusCode(), true); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetDevices lists the playback devices on the account.
func (c *Client) GetDevices(ctx context.Context) ([]PlayerDevice, error) {
	var result devicesResponse
	req := c.http.R().SetContext(ctx).SetResult(&result)
	if err := c.do(req, "GET", "/me/player/devices", true); err != nil {
		return nil, err
	}
	return result.Devices, nil
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	return c.do(c.http.R().SetContext(ctx), "PUT", "/me/player/pause", true)
}

// Resume resumes playback on the active device.
func (c *Client) Resume(ctx context.Context) error {
	return c.do(c.http.R().SetContext(ctx), "PUT", "/me/player/play", true)
}

// SkipNext skips to the next item in the queue.
func (c *Client) SkipNext(ctx context.Context) error {
	return c.do(c.http.R().SetContext(ctx), "POST", "/me/player/next", true)
}

// SkipPrevious skips to the previous item.
func (c *Client) SkipPrevious(ctx context.Context) error {
	return c.do(c.http.R().SetContext(ctx), "POST", "/me/player/previous", true)
}

// Seek jumps to a position in the current item.
func (c *Client) Seek(ctx context.Context, positionMS int) error {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("position_ms", strconv.Itoa(positionMS))
	return c.do(req, "PUT", "/me/player/seek", true)
}

// SetVolume sets the active device volume, 0-100.
func (c *Client) SetVolume(ctx context.Context, percent int) error {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("volume_percent", strconv.Itoa(percent))
	return c.do(req, "PUT", "/me/player/volume", true)
}

// SetShuffle toggles shuffle mode.
func (c *Client) SetShuffle(ctx context.Context, on bool) error {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("state", strconv.FormatBool(on))
	return c.do(req, "PUT", "/me/player/shuffle", true)
}

// SetRepeat sets the repeat mode: "track", "context" or "off".
func (c *Client) SetRepeat(ctx context.Context, mode string) error {
	req := c.http.R().SetContext(ctx).SetQueryParam("state", mode)
	return c.do(req, "PUT", "/me/player/repeat", true)
}

// TransferPlayback moves playback to another device.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	req := c.http.R().SetContext(ctx).
		SetBody(transferRequest{DeviceIDs: []string{deviceID}, Play: play})
	return c.do(req, "PUT", "/me/player", true)
}

// PlayContext starts playback of an album, artist or playlist URI.
// offsetPosition picks the starting item; negative means the beginning.
func (c *Client) PlayContext(ctx context.Context, contextURI string, offsetPosition int) error {
	body := playRequest{ContextURI: contextURI}
	if offsetPosition >= 0 {
		body.Offset = &offset{Position: offsetPosition}
	}
	req := c.http.R().SetContext(ctx).SetBody(body)
	return c.do(req, "PUT", "/me/player/play", true)
}

// PlayTracks starts playback of an explicit track list.
func (c *Client) PlayTracks(ctx context.Context, uris []string, positionMS int) error {
	req := c.http.R().SetContext(ctx).
		SetBody(playRequest{URIs: uris, PositionMS: positionMS})
	return c.do(req, "PUT", "/me/player/play", true)
}

// AddQueueItem appends one URI to the playback queue.
func (c *Client) AddQueueItem(ctx context.Context, uri string) error {
	req := c.http.R().SetContext(ctx).SetQueryParam("uri", uri)
	return c.do(req, "POST", "/me/player/queue", true)
}

// --- Playback queue and history ---

// GetNowPlaying returns the currently playing item, or nil when nothing is
// playing.
func (c *Client) GetNowPlaying(ctx context.Context) (*NowPlaying, error) {
	var playing NowPlaying
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&playing).
		Get("/me/player/currently-playing")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == 204 {
		return nil, nil
	}
	if err := classifyStatus(resp.StatusCode(), true); err != nil {
		return nil, err
	}
	return &playing, nil
}

// GetQueueInfo returns the current item and the upcoming queue.
func (c *Client) GetQueueInfo(ctx context.Context) (*QueueInfo, error) {
	var queue QueueInfo
	req := c.http.R().SetContext(ctx).SetResult(&queue)
	if err := c.do(req, "GET", "/me/player/queue", true); err != nil {
		return nil, err
	}
	return &queue, nil
}

// GetRecentTracks returns up to limit recently played tracks, newest first.
func (c *Client) GetRecentTracks(ctx context.Context, limit int) ([]PlayedTrack, error) {
	var result recentTracksResponse
	req := c.http.R().SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/me/player/recently-played", false); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// --- Favorites ---

// The favorites endpoints share one shape per media kind: PUT and DELETE on
// /me/{kind} with an ids list, GET on /me/{kind}/contains for the flags.

func (c *Client) saveFavorites(ctx context.Context, kind string, ids []string) error {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ","))
	return c.do(req, "PUT", "/me/"+kind, false)
}

func (c *Client) removeFavorites(ctx context.Context, kind string, ids []string) error {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ","))
	return c.do(req, "DELETE", "/me/"+kind, false)
}

func (c *Client) checkFavorites(ctx context.Context, kind string, ids []string) (map[string]bool, error) {
	var flags []bool
	req := c.http.R().SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&flags)
	if err := c.do(req, "GET", "/me/"+kind+"/contains", false); err != nil {
		return nil, err
	}
	return flagsByID(ids, flags)
}

// flagsByID pairs a contains-style response with the ids that were asked for.
func flagsByID(ids []string, flags []bool) (map[string]bool, error) {
	if len(flags) != len(ids) {
		return nil, fmt.Errorf("media: check returned %d flags for %d ids", len(flags), len(ids))
	}
	result := make(map[string]bool, len(ids))
	for i, id := range ids {
		result[id] = flags[i]
	}
	return result, nil
}

// SaveTrackFavorites adds tracks to the account's favorites.
func (c *Client) SaveTrackFavorites(ctx context.Context, ids []string) error {
	return c.saveFavorites(ctx, "tracks", ids)
}

// RemoveTrackFavorites removes tracks from the account's favorites.
func (c *Client) RemoveTrackFavorites(ctx context.Context, ids []string) error {
	return c.removeFavorites(ctx, "tracks", ids)
}

// CheckTrackFavorites reports, per id, whether the track is a favorite.
func (c *Client) CheckTrackFavorites(ctx context.Context, ids []string) (map[string]bool, error) {
	return c.checkFavorites(ctx, "tracks", ids)
}

// SaveAlbumFavorites adds albums to the account's favorites.
func (c *Client) SaveAlbumFavorites(ctx context.Context, ids []string) error {
	return c.saveFavorites(ctx, "albums", ids)
}

// RemoveAlbumFavorites removes albums from the account's favorites.
func (c *Client) RemoveAlbumFavorites(ctx context.Context, ids []string) error {
	return c.removeFavorites(ctx, "albums", ids)
}

// CheckAlbumFavorites reports, per id, whether the album is a favorite.
func (c *Client) CheckAlbumFavorites(ctx context.Context, ids []string) (map[string]bool, error) {
	return c.checkFavorites(ctx, "albums", ids)
}

// SaveShowFavorites adds shows to the account's favorites.
func (c *Client) SaveShowFavorites(ctx context.Context, ids []string) error {
	return c.saveFavorites(ctx, "shows", ids)
}

// RemoveShowFavorites removes shows from the account's favorites.
func (c *Client) RemoveShowFavorites(ctx context.Context, ids []string) error {
	return c.removeFavorites(ctx, "shows", ids)
}

// CheckShowFavorites reports, per id, whether the show is a favorite.
func (c *Client) CheckShowFavorites(ctx context.Context, ids []string) (map[string]bool, error) {
	return c.checkFavorites(ctx, "shows", ids)
}

// SaveEpisodeFavorites adds episodes to the account's favorites.
func (c *Client) SaveEpisodeFavorites(ctx context.Context, ids []string) error {
	return c.saveFavorites(ctx, "episodes", ids)
}

// RemoveEpisodeFavorites removes episodes from the account's favorites.
func (c *Client) RemoveEpisodeFavorites(ctx context.Context, ids []string) error {
	return c.removeFavorites(ctx, "episodes", ids)
}

// CheckEpisodeFavorites reports, per id, whether the episode is a favorite.
func (c *Client) CheckEpisodeFavorites(ctx context.Context, ids []string) (map[string]bool, error) {
	return c.checkFavorites(ctx, "episodes", ids)
}

// SaveAudiobookFavorites adds audiobooks to the account's favorites.
func (c *Client) SaveAudiobookFavorites(ctx context.Context, ids []string) error {
	return c.saveFavorites(ctx, "audiobooks", ids)
}

// RemoveAudiobookFavorites removes audiobooks from the account's favorites.
func (c *Client) RemoveAudiobookFavorites(ctx context.Context, ids []string) error {
	return c.removeFavorites(ctx, "audiobooks", ids)
}

// CheckAudiobookFavorites reports, per id, whether the audiobook is a favorite.
func (c *Client) CheckAudiobookFavorites(ctx context.Context, ids []string) (map[string]bool, error) {
	return c.checkFavorites(ctx, "audiobooks", ids)
}

// --- Following ---

func (c *Client) setFollowing(ctx context.Context, method, followType string, ids []string) error {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("type", followType).
		SetQueryParam("ids", strings.Join(ids, ","))
	return c.do(req, method, "/me/following", false)
}

// FollowArtists follows artists on the account.
func (c *Client) FollowArtists(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "PUT", "artist", ids)
}

// UnfollowArtists unfollows artists.
func (c *Client) UnfollowArtists(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "DELETE", "artist", ids)
}

// FollowUsers follows users on the account.
func (c *Client) FollowUsers(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "PUT", "user", ids)
}

// UnfollowUsers unfollows users.
func (c *Client) UnfollowUsers(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "DELETE", "user", ids)
}

// CheckFollowing reports, per id, whether the account follows the artist or
// user. followType is "artist" or "user".
func (c *Client) CheckFollowing(ctx context.Context, followType string, ids []string) (map[string]bool, error) {
	var flags []bool
	req := c.http.R().SetContext(ctx).
		SetQueryParam("type", followType).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&flags)
	if err := c.do(req, "GET", "/me/following/contains", false); err != nil {
		return nil, err
	}
	return flagsByID(ids, flags)
}

// FollowPlaylist adds a playlist to the account's library.
func (c *Client) FollowPlaylist(ctx context.Context, playlistID string, public bool) error {
	req := c.http.R().SetContext(ctx).
		SetBody(map[string]bool{"public": public})
	return c.do(req, "PUT", "/playlists/"+playlistID+"/followers", false)
}

// UnfollowPlaylist removes a playlist from the account's library.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	return c.do(c.http.R().SetContext(ctx), "DELETE", "/playlists/"+playlistID+"/followers", false)
}

// --- Playlists ---

// CreatePlaylist creates a playlist for a user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error) {
	var playlist Playlist
	req := c.http.R().SetContext(ctx).
		SetBody(playlistRequest{Name: name, Description: description, Public: &public}).
		SetResult(&playlist)
	if err := c.do(req, "POST", "/users/"+userID+"/playlists", false); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ChangePlaylist updates a playlist's details. Empty fields are left alone.
func (c *Client) ChangePlaylist(ctx context.Context, playlistID, name, description string) error {
	req := c.http.R().SetContext(ctx).
		SetBody(playlistRequest{Name: name, Description: description})
	return c.do(req, "PUT", "/playlists/"+playlistID, false)
}

// AddPlaylistItems appends track URIs to a playlist.
func (c *Client) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	req := c.http.R().SetContext(ctx).
		SetBody(playlistItemsRequest{URIs: uris})
	return c.do(req, "POST", "/playlists/"+playlistID+"/tracks", false)
}

// RemovePlaylistItems removes track URIs from a playlist.
func (c *Client) RemovePlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	type removeBody struct {
		Tracks []struct {
			URI string `json:"uri"`
		} `json:"tracks"`
	}
	body := removeBody{}
	for _, uri := range uris {
		body.Tracks = append(body.Tracks, struct {
			URI string `json:"uri"`
		}{URI: uri})
	}
	req := c.http.R().SetContext(ctx).SetBody(body)
	return c.do(req, "DELETE", "/playlists/"+playlistID+"/tracks", false)
}

// --- Catalog ---

// GetAlbum fetches one album.
func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	var album Album
	req := c.catalogRequest(ctx).SetResult(&album)
	if err := c.do(req, "GET", "/albums/"+id, false); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetArtist fetches one artist.
func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	req := c.catalogRequest(ctx).SetResult(&artist)
	if err := c.do(req, "GET", "/artists/"+id, false); err != nil {
		return nil, err
	}
	return &artist, nil
}

// GetTrack fetches one track.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	var track Track
	req := c.catalogRequest(ctx).SetResult(&track)
	if err := c.do(req, "GET", "/tracks/"+id, false); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetPlaylist fetches one playlist.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	req := c.catalogRequest(ctx).SetResult(&playlist)
	if err := c.do(req, "GET", "/playlists/"+id, false); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetShow fetches one podcast show.
func (c *Client) GetShow(ctx context.Context, id string) (*Show, error) {
	var show Show
	req := c.catalogRequest(ctx).SetResult(&show)
	if err := c.do(req, "GET", "/shows/"+id, false); err != nil {
		return nil, err
	}
	return &show, nil
}

// GetEpisode fetches one show episode.
func (c *Client) GetEpisode(ctx context.Context, id string) (*Episode, error) {
	var episode Episode
	req := c.catalogRequest(ctx).SetResult(&episode)
	if err := c.do(req, "GET", "/episodes/"+id, false); err != nil {
		return nil, err
	}
	return &episode, nil
}

// GetAudiobook fetches one audiobook.
func (c *Client) GetAudiobook(ctx context.Context, id string) (*Audiobook, error) {
	var book Audiobook
	req := c.catalogRequest(ctx).SetResult(&book)
	if err := c.do(req, "GET", "/audiobooks/"+id, false); err != nil {
		return nil, err
	}
	return &book, nil
}

// GetArtistAlbums lists an artist's albums, newest first.
func (c *Client) GetArtistAlbums(ctx context.Context, id string, limit int) ([]Album, error) {
	var result pagedAlbums
	req := c.catalogRequest(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/artists/"+id+"/albums", false); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetArtistTopTracks lists an artist's most played tracks.
func (c *Client) GetArtistTopTracks(ctx context.Context, id string) ([]Track, error) {
	var result tracksResponse
	req := c.catalogRequest(ctx).SetResult(&result)
	if err := c.do(req, "GET", "/artists/"+id+"/top-tracks", false); err != nil {
		return nil, err
	}
	return result.Tracks, nil
}

// --- Browse ---

// GetBrowseCategories lists the catalog's browse categories.
func (c *Client) GetBrowseCategories(ctx context.Context, limit int) ([]Category, error) {
	var result categoriesResponse
	req := c.catalogRequest(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/browse/categories", false); err != nil {
		return nil, err
	}
	return result.Categories.Items, nil
}

// GetCategoryPlaylists lists the playlists curated under one category.
func (c *Client) GetCategoryPlaylists(ctx context.Context, categoryID string, limit int) ([]Playlist, error) {
	var result playlistsEnvelope
	req := c.catalogRequest(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/browse/categories/"+categoryID+"/playlists", false); err != nil {
		return nil, err
	}
	return result.Playlists.Items, nil
}

// GetFeaturedPlaylists lists the catalog's featured playlists.
func (c *Client) GetFeaturedPlaylists(ctx context.Context, limit int) ([]Playlist, error) {
	var result playlistsEnvelope
	req := c.catalogRequest(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/browse/featured-playlists", false); err != nil {
		return nil, err
	}
	return result.Playlists.Items, nil
}

// GetAlbumNewReleases lists newly released albums.
func (c *Client) GetAlbumNewReleases(ctx context.Context, limit int) ([]Album, error) {
	var result albumsEnvelope
	req := c.catalogRequest(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/browse/new-releases", false); err != nil {
		return nil, err
	}
	return result.Albums.Items, nil
}

// --- Insights ---

// GetTrackRecommendations returns tracks similar to the given seeds. At least
// one seed list must be non-empty.
func (c *Client) GetTrackRecommendations(ctx context.Context, seeds RecommendationSeeds, limit int) ([]Track, error) {
	req := c.catalogRequest(ctx).
		SetQueryParam("limit", strconv.Itoa(limit))
	if len(seeds.Artists) > 0 {
		req.SetQueryParam("seed_artists", strings.Join(seeds.Artists, ","))
	}
	if len(seeds.Tracks) > 0 {
		req.SetQueryParam("seed_tracks", strings.Join(seeds.Tracks, ","))
	}
	if len(seeds.Genres) > 0 {
		req.SetQueryParam("seed_genres", strings.Join(seeds.Genres, ","))
	}
	var result tracksResponse
	req.SetResult(&result)
	if err := c.do(req, "GET", "/recommendations", false); err != nil {
		return nil, err
	}
	return result.Tracks, nil
}

// GetTracksAudioFeatures fetches the audio analysis summary for tracks.
func (c *Client) GetTracksAudioFeatures(ctx context.Context, ids []string) ([]AudioFeatures, error) {
	var result audioFeaturesResponse
	req := c.http.R().SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&result)
	if err := c.do(req, "GET", "/audio-features", false); err != nil {
		return nil, err
	}
	return result.AudioFeatures, nil
}

// GetUsersTopArtists lists the account's most played artists.
func (c *Client) GetUsersTopArtists(ctx context.Context, limit int) ([]Artist, error) {
	var result pagedArtists
	req := c.http.R().SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/me/top/artists", false); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetUsersTopTracks lists the account's most played tracks.
func (c *Client) GetUsersTopTracks(ctx context.Context, limit int) ([]Track, error) {
	var result pagedTracks
	req := c.http.R().SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result)
	if err := c.do(req, "GET", "/me/top/tracks", false); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// catalogRequest scopes a catalog lookup to the configured market.
func (c *Client) catalogRequest(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.market != "" {
		req.SetQueryParam("market", c.market)
	}
	return req
}
