// README: Map orchestrator: waypoint placement, viewport, route overlay lifecycle.
package trip

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fable/internal/poi"
	"fable/internal/routing"
	"fable/internal/story"
	"fable/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrGenerating = errors.New("story generation already in progress")
)

// fallbackLabel names a waypoint whose reverse lookup produced nothing.
const fallbackLabel = "Unknown place"

// Geocoder resolves a coordinate to a display name. Implementations return a
// placeholder on failure, never an error.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) string
}

// POIFinder returns points of interest near a coordinate; empty on failure.
type POIFinder interface {
	FindNearby(ctx context.Context, center types.Coordinate, radiusMeters int) []poi.PointOfInterest
}

// Router requests a route from the external routing engine.
type Router interface {
	Route(ctx context.Context, start, end types.Coordinate, profile routing.Profile) (*routing.Result, error)
}

// StoryGenerator streams a narrative, emitting fragments in arrival order.
type StoryGenerator interface {
	Generate(ctx context.Context, sessionID string, req story.Request, emit func(string)) error
}

// Locator resolves the current device position on demand.
type Locator interface {
	CurrentPosition(ctx context.Context) (types.Coordinate, error)
}

// Orchestrator owns the interactive map surface of every session: it
// translates gestures into waypoint updates, keeps the viewport meaningful,
// manages the route overlay lifecycle, and triggers POI refreshes.
type Orchestrator struct {
	sessions     *Registry
	geocoder     Geocoder
	finder       POIFinder
	router       Router
	story        StoryGenerator
	radiusMeters int
}

func NewOrchestrator(sessions *Registry, geocoder Geocoder, finder POIFinder, router Router, gen StoryGenerator, radiusMeters int) *Orchestrator {
	if radiusMeters <= 0 {
		radiusMeters = poi.DefaultRadiusMeters
	}
	return &Orchestrator{
		sessions:     sessions,
		geocoder:     geocoder,
		finder:       finder,
		router:       router,
		story:        gen,
		radiusMeters: radiusMeters,
	}
}

// Create starts a session, optionally hydrated from a share link, and kicks
// off routing and POI lookups for any hydrated waypoints.
func (o *Orchestrator) Create(ctx context.Context, share string) Snapshot {
	s := o.sessions.Create(share)

	s.mu.Lock()
	plan := o.planChangeLocked(s, s.end != nil)
	s.mu.Unlock()

	o.execute(ctx, s, plan)
	return s.Snapshot()
}

func (o *Orchestrator) Get(id string) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func (o *Orchestrator) Delete(id string) {
	o.sessions.Delete(id)
}

// Share returns the session's encoded share link fields.
func (o *Orchestrator) Share(id string) (string, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return "", err
	}
	return s.EncodeShare(), nil
}

// HandleMapClick places a waypoint at the clicked position. The click is
// accepted regardless of the reverse lookup outcome; a failed lookup falls
// back to a placeholder label. In start selection mode the click sets the
// start and advances selection to the end slot; in end mode it sets the end
// and the mode stays put.
func (o *Orchestrator) HandleMapClick(ctx context.Context, id string, lat, lng float64) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	c := types.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Snapshot{}, ErrBadRequest
	}

	c.Label = o.geocoder.Reverse(ctx, lat, lng)
	if c.Label == "" {
		c.Label = fallbackLabel
	}

	s.mu.Lock()
	s.touchLocked()
	destChanged := false
	if s.role == RoleStart {
		s.start = &c
		s.role = RoleEnd
	} else {
		s.end = &c
		destChanged = true
	}
	plan := o.planChangeLocked(s, destChanged)
	s.mu.Unlock()

	o.execute(ctx, s, plan)
	return s.Snapshot(), nil
}

// SetWaypoint places a waypoint from the search form. Placing a start point
// while selection mode is on the start slot advances it, same as a click.
func (o *Orchestrator) SetWaypoint(ctx context.Context, id string, role Role, c types.Coordinate) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if (role != RoleStart && role != RoleEnd) || !c.Valid() {
		return Snapshot{}, ErrBadRequest
	}
	if c.Label == "" {
		c.Label = fallbackLabel
	}

	s.mu.Lock()
	s.touchLocked()
	destChanged := false
	if role == RoleStart {
		s.start = &c
		if s.role == RoleStart {
			s.role = RoleEnd
		}
	} else {
		s.end = &c
		destChanged = true
	}
	plan := o.planChangeLocked(s, destChanged)
	s.mu.Unlock()

	o.execute(ctx, s, plan)
	return s.Snapshot(), nil
}

// ClearWaypoint unsets one waypoint slot. Any active overlay is torn down in
// the same step; POIs are dropped when the destination goes away.
func (o *Orchestrator) ClearWaypoint(ctx context.Context, id string, role Role) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if role != RoleStart && role != RoleEnd {
		return Snapshot{}, ErrBadRequest
	}

	s.mu.Lock()
	s.touchLocked()
	if role == RoleStart {
		s.start = nil
	} else {
		s.end = nil
	}
	plan := o.planChangeLocked(s, role == RoleEnd)
	s.mu.Unlock()

	o.execute(ctx, s, plan)
	return s.Snapshot(), nil
}

// SetMode switches the transport mode. While a route is displayed (or
// errored) this tears the overlay down and re-requests with the new profile
// and line style; the old summary is cleared before the request goes out.
func (o *Orchestrator) SetMode(ctx context.Context, id string, mode TransportMode) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if _, ok := ParseMode(string(mode)); !ok {
		return Snapshot{}, ErrBadRequest
	}

	s.mu.Lock()
	s.touchLocked()
	if s.mode == mode {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	s.mode = mode
	plan := o.planChangeLocked(s, false)
	s.mu.Unlock()

	o.execute(ctx, s, plan)
	return s.Snapshot(), nil
}

// FocusPOI centers the viewport on a POI from the current set and marks it
// focused. An unknown id is a no-op, not a fault.
func (o *Orchestrator) FocusPOI(id, poiID string) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	for _, p := range s.pois {
		if p.ID == poiID {
			s.focusedPOI = poiID
			s.viewport = Viewport{Center: p.Position, Zoom: zoomFocus}
			break
		}
	}
	return s.snapshotLocked(), nil
}

// Geolocate centers the viewport on the device position supplied by loc.
// A nil locator or a failed lookup is silently ignored.
func (o *Orchestrator) Geolocate(ctx context.Context, id string, loc Locator) (Snapshot, error) {
	s, err := o.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if loc == nil {
		return s.Snapshot(), nil
	}
	pos, err := loc.CurrentPosition(ctx)
	if err != nil || !pos.Valid() {
		slog.Debug("geolocate unavailable", "session", id, "err", err)
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	s.touchLocked()
	s.viewport = Viewport{Center: pos, Zoom: zoomLocate}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// GenerateStory streams a narrative for the current trip, appending each
// fragment to the session's accumulated story text as it arrives.
func (o *Orchestrator) GenerateStory(ctx context.Context, id string, style story.Style, lang story.Language, emit func(string)) error {
	s, err := o.sessions.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.touchLocked()
	if s.start == nil || s.end == nil {
		s.mu.Unlock()
		return ErrBadRequest
	}
	if s.generating {
		s.mu.Unlock()
		return ErrGenerating
	}
	s.generating = true
	s.story = ""
	req := story.Request{
		Start:    *s.start,
		End:      *s.end,
		Style:    style,
		Language: lang,
	}
	for _, p := range s.pois {
		req.POINames = append(req.POINames, p.Name)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	return o.story.Generate(ctx, s.ID, req, func(fragment string) {
		s.mu.Lock()
		s.story += fragment
		s.mu.Unlock()
		emit(fragment)
	})
}

// changePlan captures the external work decided under the session lock.
// Tokens tie each request to the inputs it was issued for.
type changePlan struct {
	doRoute    bool
	routeToken uint64
	routeStart types.Coordinate
	routeEnd   types.Coordinate
	routeMode  TransportMode

	doPOIs    bool
	poiToken  uint64
	poiCenter types.Coordinate
}

// planChangeLocked applies a waypoint/mode change to the session: the
// displayed overlay and summary are torn down before any new request is
// issued, in-flight responses are invalidated, the POI set is replaced when
// the destination changed, and the viewport is refit. Callers must hold s.mu.
func (o *Orchestrator) planChangeLocked(s *Session, destChanged bool) changePlan {
	var plan changePlan

	s.route = RouteOverlay{State: RouteIdle}
	s.routeSeq++
	if s.start != nil && s.end != nil {
		s.route.State = RouteRequesting
		plan.doRoute = true
		plan.routeToken = s.routeSeq
		plan.routeStart = *s.start
		plan.routeEnd = *s.end
		plan.routeMode = s.mode
	}

	if destChanged {
		s.poiSeq++
		s.pois = nil
		s.focusedPOI = ""
		if s.end != nil {
			plan.doPOIs = true
			plan.poiToken = s.poiSeq
			plan.poiCenter = *s.end
		}
	}

	fitViewportLocked(s)
	return plan
}

// execute performs the planned external calls. Route and POI lookups run
// concurrently; both discard their result if the session has moved on.
func (o *Orchestrator) execute(ctx context.Context, s *Session, plan changePlan) {
	var wg sync.WaitGroup
	if plan.doPOIs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.fetchPOIs(ctx, s, plan)
		}()
	}
	if plan.doRoute {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.fetchRoute(ctx, s, plan)
		}()
	}
	wg.Wait()
}

func (o *Orchestrator) fetchRoute(ctx context.Context, s *Session, plan changePlan) {
	res, err := o.router.Route(ctx, plan.routeStart, plan.routeEnd, plan.routeMode.Profile())

	s.mu.Lock()
	defer s.mu.Unlock()
	if plan.routeToken != s.routeSeq {
		// Superseded while in flight; a newer request owns the overlay.
		return
	}
	if err != nil {
		slog.Warn("route request failed", "session", s.ID, "profile", plan.routeMode.Profile(), "err", err)
		s.route = RouteOverlay{State: RouteError}
		return
	}

	overlay := RouteOverlay{
		State: RouteDisplayed,
		Summary: &RouteSummary{
			DistanceMeters:  res.Primary.DistanceMeters,
			DurationSeconds: res.Primary.DurationSeconds,
		},
		Color:   plan.routeMode.LineColor(),
		Primary: res.Primary.Points,
	}
	for _, alt := range res.Alternatives {
		overlay.Alternatives = append(overlay.Alternatives, alt.Points)
	}
	s.route = overlay
}

func (o *Orchestrator) fetchPOIs(ctx context.Context, s *Session, plan changePlan) {
	list := o.finder.FindNearby(ctx, plan.poiCenter, o.radiusMeters)

	s.mu.Lock()
	defer s.mu.Unlock()
	if plan.poiToken != s.poiSeq {
		// Destination changed while the fetch was pending.
		return
	}
	s.pois = list
	fitViewportLocked(s)
}

// touchLocked refreshes the idle-expiry clock. Callers must hold s.mu.
func (s *Session) touchLocked() {
	s.lastActive = time.Now()
}
