// Package fakebridge is an in-memory stand-in for node-sonos-http-api.
// It serves the same GET endpoints over a small demo household and mutates
// that household as commands arrive.
package fakebridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Bridge is the in-memory bridge state plus its HTTP routes
type Bridge struct {
	logger *zap.Logger
	router chi.Router

	mu           sync.Mutex
	speakers     []*speaker
	coordinators map[string]string
	favorites    []domain.Favorite
	playlists    []string
	results      []searchItem
	requests     []string
}

// New creates a demo bridge seeded with three rooms
func New(logger *zap.Logger) *Bridge {
	speakers, coordinators := seed()
	b := &Bridge{
		logger:       logger,
		speakers:     speakers,
		coordinators: coordinators,
		favorites:    seedFavorites(),
		playlists:    seedPlaylists(),
		results:      seedResults(),
	}
	b.router = b.routes()
	return b
}

// ServeHTTP implements http.Handler
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Requests returns the escaped paths of every request received so far
func (b *Bridge) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// handlerFunc lets handlers return errors the way the bridge reports them
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h handlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
	}
}

func (b *Bridge) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(b.recordMiddleware)

	router.Method(http.MethodGet, "/zones", handlerFunc(b.handleZones))
	router.Method(http.MethodGet, "/favorites", handlerFunc(b.handleFavorites(false)))
	router.Method(http.MethodGet, "/favorites/detailed", handlerFunc(b.handleFavorites(true)))
	router.Method(http.MethodGet, "/playlists", handlerFunc(b.handlePlaylists))
	router.Method(http.MethodGet, "/search/{service}/album/{query}", handlerFunc(b.handleSearch))

	router.Route("/{room}", func(room chi.Router) {
		room.Method(http.MethodGet, "/{action}", handlerFunc(b.handleAction))
		room.Method(http.MethodGet, "/volume/{delta}", handlerFunc(b.handleVolume))
		room.Method(http.MethodGet, "/join/{target}", handlerFunc(b.handleJoin))
		room.Method(http.MethodGet, "/favorite/{name}", handlerFunc(b.handleFavorite))
		room.Method(http.MethodGet, "/playlist/{name}", handlerFunc(b.handlePlaylist))
		room.Method(http.MethodGet, "/setavtransporturi/{uri}", handlerFunc(b.handleSetURI))
	})

	return router
}

func (b *Bridge) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.URL.EscapedPath())
		b.mu.Unlock()

		b.logger.Debug("Demo bridge request", zap.String("path", r.URL.EscapedPath()))
		next.ServeHTTP(w, r)
	})
}

// param returns a decoded path parameter. chi routes on RawPath when the
// request carries escaped slashes, leaving the parameters escaped.
func param(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (b *Bridge) handleZones(w http.ResponseWriter, r *http.Request) error {
	b.mu.Lock()
	zones := b.zonesLocked()
	b.mu.Unlock()
	return writeJSON(w, http.StatusOK, zones)
}

func (b *Bridge) handleFavorites(detailed bool) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		b.mu.Lock()
		defer b.mu.Unlock()

		if !detailed {
			names := make([]string, 0, len(b.favorites))
			for _, f := range b.favorites {
				names = append(names, f.Title)
			}
			return writeJSON(w, http.StatusOK, names)
		}

		type favorite struct {
			Title       string `json:"title"`
			AlbumArtURI string `json:"albumArtUri,omitempty"`
		}
		out := make([]favorite, 0, len(b.favorites))
		for _, f := range b.favorites {
			out = append(out, favorite{Title: f.Title, AlbumArtURI: f.AlbumArtURI})
		}
		return writeJSON(w, http.StatusOK, out)
	}
}

func (b *Bridge) handlePlaylists(w http.ResponseWriter, r *http.Request) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return writeJSON(w, http.StatusOK, b.playlists)
}

func (b *Bridge) handleSearch(w http.ResponseWriter, r *http.Request) error {
	query := strings.ToLower(param(r, "query"))

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]searchItem, 0)
	for _, it := range b.results {
		haystack := strings.ToLower(it.Title + " " + it.Name + " " + it.Artist)
		if strings.Contains(haystack, query) {
			out = append(out, it)
		}
	}
	return writeJSON(w, http.StatusOK, out)
}

func (b *Bridge) handleAction(w http.ResponseWriter, r *http.Request) error {
	room := param(r, "room")
	action := param(r, "action")

	b.mu.Lock()
	defer b.mu.Unlock()

	sp := b.speakerLocked(room)
	if sp == nil {
		return fmt.Errorf("unknown room %q", room)
	}
	coord := b.speakerLocked(b.coordinators[room])

	switch action {
	case "play":
		coord.state = domain.StatePlaying
		if coord.track == nil {
			coord.track = b.trackLocked(coord, 0)
		}
	case "pause":
		coord.state = domain.StatePaused
	case "next":
		coord.track = b.trackLocked(coord, 1)
	case "previous":
		coord.track = b.trackLocked(coord, -1)
	case "togglemute":
		sp.mute = !sp.mute
	case "leave":
		b.leaveLocked(room)
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
	return ok(w)
}

func (b *Bridge) handleVolume(w http.ResponseWriter, r *http.Request) error {
	room := param(r, "room")
	delta := param(r, "delta")

	n, err := strconv.Atoi(strings.TrimPrefix(delta, "+"))
	if err != nil {
		return fmt.Errorf("invalid volume %q", delta)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sp := b.speakerLocked(room)
	if sp == nil {
		return fmt.Errorf("unknown room %q", room)
	}

	if strings.HasPrefix(delta, "+") || strings.HasPrefix(delta, "-") {
		sp.volume += n
	} else {
		sp.volume = n
	}
	sp.volume = min(max(sp.volume, 0), 100)
	return ok(w)
}

func (b *Bridge) handleJoin(w http.ResponseWriter, r *http.Request) error {
	room := param(r, "room")
	target := param(r, "target")

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.speakerLocked(room) == nil || b.speakerLocked(target) == nil {
		return fmt.Errorf("unknown room %q or %q", room, target)
	}

	coordinator := b.coordinators[target]
	if b.coordinators[room] == coordinator {
		return ok(w)
	}
	b.leaveLocked(room)
	b.coordinators[room] = coordinator
	return ok(w)
}

func (b *Bridge) handleFavorite(w http.ResponseWriter, r *http.Request) error {
	room := param(r, "room")
	name := param(r, "name")

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, f := range b.favorites {
		if f.Title == name {
			return b.playLocked(w, room, &domain.TrackPayload{Type: "track", Title: f.Title, AbsoluteAlbumArtURI: f.AlbumArtURI})
		}
	}
	return fmt.Errorf("favorite %q not found", name)
}

func (b *Bridge) handlePlaylist(w http.ResponseWriter, r *http.Request) error {
	room := param(r, "room")
	name := param(r, "name")

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.playlists {
		if p == name {
			return b.playLocked(w, room, &domain.TrackPayload{Type: "track", Title: p})
		}
	}
	return fmt.Errorf("playlist %q not found", name)
}

func (b *Bridge) handleSetURI(w http.ResponseWriter, r *http.Request) error {
	room := param(r, "room")
	uri := param(r, "uri")

	b.mu.Lock()
	defer b.mu.Unlock()

	track := &domain.TrackPayload{Type: "track", Title: uri, URI: uri}
	for _, it := range b.results {
		if it.URI == uri {
			title := it.Title
			if title == "" {
				title = it.Name
			}
			art := it.AlbumArtURI
			if art == "" {
				art = it.ImageURL
			}
			track = &domain.TrackPayload{Type: "track", Title: title, Artist: it.Artist, AbsoluteAlbumArtURI: art, URI: uri}
			break
		}
	}
	return b.playLocked(w, room, track)
}

// playLocked starts track on room's group coordinator
func (b *Bridge) playLocked(w http.ResponseWriter, room string, track *domain.TrackPayload) error {
	if b.speakerLocked(room) == nil {
		return fmt.Errorf("unknown room %q", room)
	}
	coord := b.speakerLocked(b.coordinators[room])
	coord.track = track
	coord.state = domain.StatePlaying
	return ok(w)
}

// leaveLocked makes room standalone. When room coordinated a group, the
// first remaining member takes over.
func (b *Bridge) leaveLocked(room string) {
	if b.coordinators[room] == room {
		successor := ""
		for _, sp := range b.speakers {
			if sp.room != room && b.coordinators[sp.room] == room {
				if successor == "" {
					successor = sp.room
					old := b.speakerLocked(room)
					next := b.speakerLocked(successor)
					next.state, next.track, next.trackIdx = old.state, old.track, old.trackIdx
				}
				b.coordinators[sp.room] = successor
			}
		}
	}

	b.coordinators[room] = room
	sp := b.speakerLocked(room)
	sp.state = domain.StateStopped
	sp.track = nil
}

func (b *Bridge) trackLocked(sp *speaker, step int) *domain.TrackPayload {
	n := len(demoTracks)
	sp.trackIdx = ((sp.trackIdx+step)%n + n) % n
	t := demoTracks[sp.trackIdx]
	return &t
}

func (b *Bridge) speakerLocked(room string) *speaker {
	for _, sp := range b.speakers {
		if sp.room == room {
			return sp
		}
	}
	return nil
}

// zonesLocked groups speakers under their coordinators in seed order
func (b *Bridge) zonesLocked() []domain.Zone {
	zones := make([]domain.Zone, 0, len(b.speakers))
	for _, c := range b.speakers {
		if b.coordinators[c.room] != c.room {
			continue
		}

		zone := domain.Zone{
			UUID:        c.uuid,
			Coordinator: toSpeaker(c),
		}
		for _, m := range b.speakers {
			if b.coordinators[m.room] == c.room {
				zone.Members = append(zone.Members, domain.SpeakerRef{RoomName: m.room, UUID: m.uuid})
			}
		}
		zones = append(zones, zone)
	}
	return zones
}

func toSpeaker(sp *speaker) domain.Speaker {
	return domain.Speaker{
		RoomName: sp.room,
		UUID:     sp.uuid,
		State: domain.SpeakerState{
			Volume:        sp.volume,
			Mute:          sp.mute,
			PlaybackState: sp.state,
			CurrentTrack:  sp.track,
		},
	}
}
