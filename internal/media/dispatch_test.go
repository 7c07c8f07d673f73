package media

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/hearthway/hearth-core/internal/service"
)

func TestDispatchUnknownCommand(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	if _, err := Dispatch(context.Background(), c, "warp_ten", nil); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Dispatch() error = %v, want ErrUnknownCommand", err)
	}
}

func TestDispatchValidatesBeforeCalling(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid params must not reach the API")
	}))

	_, err := Dispatch(context.Background(), c, CmdSetVolume, map[string]any{"volume": 150})
	if !errors.Is(err, service.ErrOutOfRange) {
		t.Errorf("Dispatch() error = %v, want ErrOutOfRange", err)
	}
}

func TestDispatchSetVolume(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("volume_percent")
		w.WriteHeader(http.StatusNoContent)
	}))

	if _, err := Dispatch(context.Background(), c, CmdSetVolume, map[string]any{"volume": float64(65)}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if gotQuery != "65" {
		t.Errorf("volume_percent = %q, want 65", gotQuery)
	}
}

func TestDispatchRepeatStateChecked(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid repeat state must not reach the API")
	}))

	_, err := Dispatch(context.Background(), c, CmdSetRepeat, map[string]any{"state": "forever"})
	if !errors.Is(err, service.ErrInvalidField) {
		t.Errorf("Dispatch() error = %v, want ErrInvalidField", err)
	}
}

func TestDispatchPlayTracks(t *testing.T) {
	var got playRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := Dispatch(context.Background(), c, CmdPlayTracks, map[string]any{
		"uris": []any{"spotify:track:t1", "spotify:track:t2"},
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(got.URIs) != 2 || got.URIs[0] != "spotify:track:t1" {
		t.Errorf("uris = %v", got.URIs)
	}
}

func TestDispatchFavoriteKinds(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/me/shows/contains" {
			_ = json.NewEncoder(w).Encode([]bool{true})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	ctx := context.Background()
	params := map[string]any{"ids": []any{"x1"}}

	if _, err := Dispatch(ctx, c, CmdSaveAlbumFavorites, params); err != nil {
		t.Fatalf("Dispatch(save_album_favorites) error = %v", err)
	}
	if gotMethod != "PUT" || gotPath != "/me/albums" {
		t.Errorf("request = %s %s, want PUT /me/albums", gotMethod, gotPath)
	}

	if _, err := Dispatch(ctx, c, CmdRemoveAudiobookFavorites, params); err != nil {
		t.Fatalf("Dispatch(remove_audiobook_favorites) error = %v", err)
	}
	if gotMethod != "DELETE" || gotPath != "/me/audiobooks" {
		t.Errorf("request = %s %s, want DELETE /me/audiobooks", gotMethod, gotPath)
	}

	result, err := Dispatch(ctx, c, CmdCheckShowFavorites, params)
	if err != nil {
		t.Fatalf("Dispatch(check_show_favorites) error = %v", err)
	}
	flags, ok := result.(map[string]bool)
	if !ok || !flags["x1"] {
		t.Errorf("result = %v", result)
	}
}

func TestDispatchRecommendationsNeedSeeds(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("a seedless request must not reach the API")
	}))

	_, err := Dispatch(context.Background(), c, CmdTrackRecommendations, map[string]any{})
	if !errors.Is(err, service.ErrInvalidField) {
		t.Errorf("Dispatch() error = %v, want ErrInvalidField", err)
	}
}

func TestDispatchLimitBounds(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("an out-of-range limit must not reach the API")
	}))

	_, err := Dispatch(context.Background(), c, CmdRecentTracks, map[string]any{"limit": float64(200)})
	if !errors.Is(err, service.ErrOutOfRange) {
		t.Errorf("Dispatch() error = %v, want ErrOutOfRange", err)
	}
}

func TestDispatchLimitDefault(t *testing.T) {
	var gotLimit string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	if _, err := Dispatch(context.Background(), c, CmdUsersTopTracks, nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if gotLimit != "20" {
		t.Errorf("limit = %q, want the default 20", gotLimit)
	}
}

func TestCommandTableComplete(t *testing.T) {
	for cmd, spec := range commandTable {
		if spec.handler == nil {
			t.Errorf("command %s has no handler", cmd)
		}
	}
	if len(Commands()) != len(commandTable) {
		t.Errorf("Commands() = %d entries, table has %d", len(Commands()), len(commandTable))
	}
}

func TestRegisterServices(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("volume_percent")
		w.WriteHeader(http.StatusNoContent)
	}))

	reg := service.NewRegistry()
	if err := RegisterServices(reg, c); err != nil {
		t.Fatalf("RegisterServices() error = %v", err)
	}
	if got := len(reg.List()); got != len(commandTable) {
		t.Fatalf("registered services = %d, want %d", got, len(commandTable))
	}

	if _, err := reg.Call(context.Background(), "media", string(CmdSetVolume), "test", map[string]any{"volume": 30}); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if gotQuery != "30" {
		t.Errorf("volume_percent = %q, want 30", gotQuery)
	}
}

func TestRegisteredServicePassesDomainErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	reg := service.NewRegistry()
	if err := RegisterServices(reg, c); err != nil {
		t.Fatalf("RegisterServices() error = %v", err)
	}

	_, err := reg.Call(context.Background(), "media", string(CmdPause), "test", nil)
	if !errors.Is(err, ErrNoActiveDevice) {
		t.Errorf("Call() error = %v, want ErrNoActiveDevice passthrough", err)
	}
	if errors.Is(err, service.ErrServiceFailed) {
		t.Error("domain error should not be wrapped as ErrServiceFailed")
	}
}
