package media

import (
	"context"
	"fmt"

	"github.com/hearthway/hearth-core/internal/service"
)

// Command names a media operation. The full set lives in commandTable;
// dispatch is a map lookup, never a string match chain.
type Command string

// Player commands.
const (
	CmdPause            Command = "player_media_pause"
	CmdResume           Command = "player_media_resume"
	CmdSeek             Command = "player_media_seek"
	CmdSkipNext         Command = "player_media_skip_next"
	CmdSkipPrevious     Command = "player_media_skip_previous"
	CmdSetVolume        Command = "player_set_volume"
	CmdSetShuffle       Command = "player_set_shuffle"
	CmdSetRepeat        Command = "player_set_repeat"
	CmdTransferPlayback Command = "player_transfer_playback"
	CmdPlayContext      Command = "player_media_play_context"
	CmdPlayTracks       Command = "player_media_play_tracks"
	CmdQueueAdd         Command = "add_player_queue_item"
	CmdPlaybackState    Command = "get_player_playback_state"
	CmdPlayerDevices    Command = "get_player_devices"
	CmdNowPlaying       Command = "get_player_now_playing"
	CmdQueueInfo        Command = "get_player_queue_info"
	CmdRecentTracks     Command = "get_player_recent_tracks"
)

// Favorites commands.
const (
	CmdSaveTrackFavorites       Command = "save_track_favorites"
	CmdRemoveTrackFavorites     Command = "remove_track_favorites"
	CmdCheckTrackFavorites      Command = "check_track_favorites"
	CmdSaveAlbumFavorites       Command = "save_album_favorites"
	CmdRemoveAlbumFavorites     Command = "remove_album_favorites"
	CmdCheckAlbumFavorites      Command = "check_album_favorites"
	CmdSaveShowFavorites        Command = "save_show_favorites"
	CmdRemoveShowFavorites      Command = "remove_show_favorites"
	CmdCheckShowFavorites       Command = "check_show_favorites"
	CmdSaveEpisodeFavorites     Command = "save_episode_favorites"
	CmdRemoveEpisodeFavorites   Command = "remove_episode_favorites"
	CmdCheckEpisodeFavorites    Command = "check_episode_favorites"
	CmdSaveAudiobookFavorites   Command = "save_audiobook_favorites"
	CmdRemoveAudiobookFavorites Command = "remove_audiobook_favorites"
	CmdCheckAudiobookFavorites  Command = "check_audiobook_favorites"
)

// Following commands.
const (
	CmdFollowArtists         Command = "follow_artists"
	CmdUnfollowArtists       Command = "unfollow_artists"
	CmdCheckArtistsFollowing Command = "check_artists_following"
	CmdFollowUsers           Command = "follow_users"
	CmdUnfollowUsers         Command = "unfollow_users"
	CmdCheckUsersFollowing   Command = "check_users_following"
	CmdFollowPlaylist        Command = "follow_playlist"
	CmdUnfollowPlaylist      Command = "unfollow_playlist"
)

// Playlist commands.
const (
	CmdPlaylistCreate      Command = "playlist_create"
	CmdPlaylistChange      Command = "playlist_change"
	CmdPlaylistItemsAdd    Command = "playlist_items_add"
	CmdPlaylistItemsRemove Command = "playlist_items_remove"
)

// Catalog commands.
const (
	CmdGetAlbum           Command = "get_album"
	CmdGetArtist          Command = "get_artist"
	CmdGetTrack           Command = "get_track"
	CmdGetPlaylist        Command = "get_playlist"
	CmdGetShow            Command = "get_show"
	CmdGetEpisode         Command = "get_episode"
	CmdGetAudiobook       Command = "get_audiobook"
	CmdGetArtistAlbums    Command = "get_artist_albums"
	CmdGetArtistTopTracks Command = "get_artist_top_tracks"
)

// Browse commands.
const (
	CmdBrowseCategories  Command = "get_browse_categories"
	CmdCategoryPlaylists Command = "get_category_playlists"
	CmdFeaturedPlaylists Command = "get_featured_playlists"
	CmdAlbumNewReleases  Command = "get_album_new_releases"
)

// Insight commands.
const (
	CmdTrackRecommendations Command = "get_track_recommendations"
	CmdTracksAudioFeatures  Command = "get_tracks_audio_features"
	CmdUsersTopArtists      Command = "get_users_top_artists"
	CmdUsersTopTracks       Command = "get_users_top_tracks"
)

// commandSpec binds a command's parameter schema to its handler.
type commandSpec struct {
	schema  service.Schema
	handler func(ctx context.Context, c *Client, params map[string]any) (any, error)
}

// commandTable is the complete dispatch table. Handlers receive parameters
// already validated and defaulted by the schema, so type assertions on
// declared fields cannot fail.
var commandTable = map[Command]commandSpec{
	CmdPause: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return nil, c.Pause(ctx)
		},
	},
	CmdResume: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return nil, c.Resume(ctx)
		},
	},
	CmdSeek: {
		schema: service.NewSchema(
			service.Field{Name: "position_ms", Kind: service.KindInt, Required: true, Min: service.Ptr(0)},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.Seek(ctx, params["position_ms"].(int))
		},
	},
	CmdSkipNext: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return nil, c.SkipNext(ctx)
		},
	},
	CmdSkipPrevious: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return nil, c.SkipPrevious(ctx)
		},
	},
	CmdSetVolume: {
		schema: service.NewSchema(
			service.Field{Name: "volume", Kind: service.KindInt, Required: true, Min: service.Ptr(0), Max: service.Ptr(100)},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.SetVolume(ctx, params["volume"].(int))
		},
	},
	CmdSetShuffle: {
		schema: service.NewSchema(
			service.Field{Name: "state", Kind: service.KindBool, Required: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.SetShuffle(ctx, params["state"].(bool))
		},
	},
	CmdSetRepeat: {
		schema: service.NewSchema(
			service.Field{Name: "state", Kind: service.KindString, Required: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			mode := params["state"].(string)
			if mode != "track" && mode != "context" && mode != "off" {
				return nil, fmt.Errorf("%w: repeat state %q", service.ErrInvalidField, mode)
			}
			return nil, c.SetRepeat(ctx, mode)
		},
	},
	CmdTransferPlayback: {
		schema: service.NewSchema(
			service.Field{Name: "device_id", Kind: service.KindString, Required: true},
			service.Field{Name: "play", Kind: service.KindBool, Default: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.TransferPlayback(ctx, params["device_id"].(string), params["play"].(bool))
		},
	},
	CmdPlayContext: {
		schema: service.NewSchema(
			service.Field{Name: "context_uri", Kind: service.KindString, Required: true},
			service.Field{Name: "offset", Kind: service.KindInt, Default: -1},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.PlayContext(ctx, params["context_uri"].(string), params["offset"].(int))
		},
	},
	CmdPlayTracks: {
		schema: service.NewSchema(
			service.Field{Name: "uris", Kind: service.KindList, Required: true},
			service.Field{Name: "position_ms", Kind: service.KindInt, Default: 0, Min: service.Ptr(0)},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.PlayTracks(ctx, stringList(params["uris"]), params["position_ms"].(int))
		},
	},
	CmdQueueAdd: {
		schema: service.NewSchema(
			service.Field{Name: "uri", Kind: service.KindString, Required: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.AddQueueItem(ctx, params["uri"].(string))
		},
	},
	CmdPlaybackState: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return c.GetPlaybackState(ctx)
		},
	},
	CmdPlayerDevices: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return c.GetDevices(ctx)
		},
	},

	CmdNowPlaying: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return c.GetNowPlaying(ctx)
		},
	},
	CmdQueueInfo: {
		handler: func(ctx context.Context, c *Client, _ map[string]any) (any, error) {
			return c.GetQueueInfo(ctx)
		},
	},
	CmdRecentTracks: {
		schema: limitSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetRecentTracks(ctx, params["limit"].(int))
		},
	},

	CmdSaveTrackFavorites:       idsActionSpec((*Client).SaveTrackFavorites),
	CmdRemoveTrackFavorites:     idsActionSpec((*Client).RemoveTrackFavorites),
	CmdCheckTrackFavorites:      idsCheckSpec((*Client).CheckTrackFavorites),
	CmdSaveAlbumFavorites:       idsActionSpec((*Client).SaveAlbumFavorites),
	CmdRemoveAlbumFavorites:     idsActionSpec((*Client).RemoveAlbumFavorites),
	CmdCheckAlbumFavorites:      idsCheckSpec((*Client).CheckAlbumFavorites),
	CmdSaveShowFavorites:        idsActionSpec((*Client).SaveShowFavorites),
	CmdRemoveShowFavorites:      idsActionSpec((*Client).RemoveShowFavorites),
	CmdCheckShowFavorites:       idsCheckSpec((*Client).CheckShowFavorites),
	CmdSaveEpisodeFavorites:     idsActionSpec((*Client).SaveEpisodeFavorites),
	CmdRemoveEpisodeFavorites:   idsActionSpec((*Client).RemoveEpisodeFavorites),
	CmdCheckEpisodeFavorites:    idsCheckSpec((*Client).CheckEpisodeFavorites),
	CmdSaveAudiobookFavorites:   idsActionSpec((*Client).SaveAudiobookFavorites),
	CmdRemoveAudiobookFavorites: idsActionSpec((*Client).RemoveAudiobookFavorites),
	CmdCheckAudiobookFavorites:  idsCheckSpec((*Client).CheckAudiobookFavorites),

	CmdFollowArtists:   idsActionSpec((*Client).FollowArtists),
	CmdUnfollowArtists: idsActionSpec((*Client).UnfollowArtists),
	CmdCheckArtistsFollowing: idsCheckSpec(func(c *Client, ctx context.Context, ids []string) (map[string]bool, error) {
		return c.CheckFollowing(ctx, "artist", ids)
	}),
	CmdFollowUsers:   idsActionSpec((*Client).FollowUsers),
	CmdUnfollowUsers: idsActionSpec((*Client).UnfollowUsers),
	CmdCheckUsersFollowing: idsCheckSpec(func(c *Client, ctx context.Context, ids []string) (map[string]bool, error) {
		return c.CheckFollowing(ctx, "user", ids)
	}),
	CmdFollowPlaylist: {
		schema: service.NewSchema(
			service.Field{Name: "playlist_id", Kind: service.KindString, Required: true},
			service.Field{Name: "public", Kind: service.KindBool, Default: false},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.FollowPlaylist(ctx, params["playlist_id"].(string), params["public"].(bool))
		},
	},
	CmdUnfollowPlaylist: {
		schema: service.NewSchema(
			service.Field{Name: "playlist_id", Kind: service.KindString, Required: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.UnfollowPlaylist(ctx, params["playlist_id"].(string))
		},
	},

	CmdPlaylistCreate: {
		schema: service.NewSchema(
			service.Field{Name: "user_id", Kind: service.KindString, Required: true},
			service.Field{Name: "name", Kind: service.KindString, Required: true},
			service.Field{Name: "description", Kind: service.KindString, Default: ""},
			service.Field{Name: "public", Kind: service.KindBool, Default: false},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.CreatePlaylist(ctx,
				params["user_id"].(string),
				params["name"].(string),
				params["description"].(string),
				params["public"].(bool))
		},
	},
	CmdPlaylistChange: {
		schema: service.NewSchema(
			service.Field{Name: "playlist_id", Kind: service.KindString, Required: true},
			service.Field{Name: "name", Kind: service.KindString, Default: ""},
			service.Field{Name: "description", Kind: service.KindString, Default: ""},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.ChangePlaylist(ctx,
				params["playlist_id"].(string),
				params["name"].(string),
				params["description"].(string))
		},
	},
	CmdPlaylistItemsAdd: {
		schema: service.NewSchema(
			service.Field{Name: "playlist_id", Kind: service.KindString, Required: true},
			service.Field{Name: "uris", Kind: service.KindList, Required: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.AddPlaylistItems(ctx, params["playlist_id"].(string), stringList(params["uris"]))
		},
	},
	CmdPlaylistItemsRemove: {
		schema: service.NewSchema(
			service.Field{Name: "playlist_id", Kind: service.KindString, Required: true},
			service.Field{Name: "uris", Kind: service.KindList, Required: true},
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, c.RemovePlaylistItems(ctx, params["playlist_id"].(string), stringList(params["uris"]))
		},
	},

	CmdGetAlbum: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetAlbum(ctx, params["id"].(string))
		},
	},
	CmdGetArtist: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetArtist(ctx, params["id"].(string))
		},
	},
	CmdGetTrack: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetTrack(ctx, params["id"].(string))
		},
	},
	CmdGetPlaylist: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetPlaylist(ctx, params["id"].(string))
		},
	},
	CmdGetShow: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetShow(ctx, params["id"].(string))
		},
	},
	CmdGetEpisode: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetEpisode(ctx, params["id"].(string))
		},
	},
	CmdGetAudiobook: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetAudiobook(ctx, params["id"].(string))
		},
	},
	CmdGetArtistAlbums: {
		schema: service.NewSchema(
			service.Field{Name: "id", Kind: service.KindString, Required: true},
			limitField(),
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetArtistAlbums(ctx, params["id"].(string), params["limit"].(int))
		},
	},
	CmdGetArtistTopTracks: {
		schema: idSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetArtistTopTracks(ctx, params["id"].(string))
		},
	},

	CmdBrowseCategories: {
		schema: limitSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetBrowseCategories(ctx, params["limit"].(int))
		},
	},
	CmdCategoryPlaylists: {
		schema: service.NewSchema(
			service.Field{Name: "category_id", Kind: service.KindString, Required: true},
			limitField(),
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetCategoryPlaylists(ctx, params["category_id"].(string), params["limit"].(int))
		},
	},
	CmdFeaturedPlaylists: {
		schema: limitSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetFeaturedPlaylists(ctx, params["limit"].(int))
		},
	},
	CmdAlbumNewReleases: {
		schema: limitSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetAlbumNewReleases(ctx, params["limit"].(int))
		},
	},

	CmdTrackRecommendations: {
		schema: service.NewSchema(
			service.Field{Name: "seed_artists", Kind: service.KindList},
			service.Field{Name: "seed_tracks", Kind: service.KindList},
			service.Field{Name: "seed_genres", Kind: service.KindList},
			limitField(),
		),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			seeds := RecommendationSeeds{
				Artists: stringList(params["seed_artists"]),
				Tracks:  stringList(params["seed_tracks"]),
				Genres:  stringList(params["seed_genres"]),
			}
			if len(seeds.Artists) == 0 && len(seeds.Tracks) == 0 && len(seeds.Genres) == 0 {
				return nil, fmt.Errorf("%w: at least one seed list is required", service.ErrInvalidField)
			}
			return c.GetTrackRecommendations(ctx, seeds, params["limit"].(int))
		},
	},
	CmdTracksAudioFeatures: {
		schema: idsSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetTracksAudioFeatures(ctx, stringList(params["ids"]))
		},
	},
	CmdUsersTopArtists: {
		schema: limitSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetUsersTopArtists(ctx, params["limit"].(int))
		},
	},
	CmdUsersTopTracks: {
		schema: limitSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return c.GetUsersTopTracks(ctx, params["limit"].(int))
		},
	},
}

func idSchema() service.Schema {
	return service.NewSchema(
		service.Field{Name: "id", Kind: service.KindString, Required: true},
	)
}

func idsSchema() service.Schema {
	return service.NewSchema(
		service.Field{Name: "ids", Kind: service.KindList, Required: true},
	)
}

func limitField() service.Field {
	return service.Field{Name: "limit", Kind: service.KindInt, Default: 20, Min: service.Ptr(1), Max: service.Ptr(50)}
}

func limitSchema() service.Schema {
	return service.NewSchema(limitField())
}

// idsActionSpec builds the spec for a fire-and-forget call taking an id list.
func idsActionSpec(call func(c *Client, ctx context.Context, ids []string) error) commandSpec {
	return commandSpec{
		schema: idsSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return nil, call(c, ctx, stringList(params["ids"]))
		},
	}
}

// idsCheckSpec builds the spec for a contains-style lookup on an id list.
func idsCheckSpec(call func(c *Client, ctx context.Context, ids []string) (map[string]bool, error)) commandSpec {
	return commandSpec{
		schema: idsSchema(),
		handler: func(ctx context.Context, c *Client, params map[string]any) (any, error) {
			return call(c, ctx, stringList(params["ids"]))
		},
	}
}

// stringList converts a validated KindList value to []string, skipping
// non-string members.
func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Commands returns the names of every command in the dispatch table.
func Commands() []Command {
	out := make([]Command, 0, len(commandTable))
	for cmd := range commandTable {
		out = append(out, cmd)
	}
	return out
}

// Dispatch validates params against the command's schema and runs it.
func Dispatch(ctx context.Context, c *Client, cmd Command, params map[string]any) (any, error) {
	spec, ok := commandTable[cmd]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	validated, err := spec.schema.Apply(params)
	if err != nil {
		return nil, err
	}
	return spec.handler(ctx, c, validated)
}

// RegisterServices exposes every command as a service under the media domain.
func RegisterServices(reg *service.Registry, c *Client) error {
	return RegisterServicesProvider(reg, func() *Client { return c })
}

// RegisterServicesProvider is RegisterServices with a late-bound client.
// Handlers call current on every invocation, so a reauthorized client
// replaces a dead one without re-registering anything. current returning
// nil means the service is not connected right now.
func RegisterServicesProvider(reg *service.Registry, current func() *Client) error {
	reg.AddPassthrough(ErrAuthFailed, ErrRateLimited, ErrUnavailable, ErrNoActiveDevice, ErrNotFound)

	for cmd, spec := range commandTable {
		handler := spec.handler
		def := service.Definition{
			Domain: "media",
			Name:   string(cmd),
			Schema: spec.schema,
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				c := current()
				if c == nil {
					return nil, fmt.Errorf("%w: integration is not running", ErrUnavailable)
				}
				return handler(ctx, c, params)
			},
		}
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
