// Package core holds the league service: one collection per entity kind,
// each running the query and mutation pipelines over a record store.
package core

import (
	"context"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"leaguestore/internal/blob"
	"leaguestore/internal/store"
	"leaguestore/pkg/domain"
)

// Service exposes the three collections to protocol adapters.
type Service struct {
	Teams   *Collection[domain.Team]
	Players *Collection[domain.Player]
	Games   *Collection[domain.Game]

	blob   blob.Store
	logger *zap.SugaredLogger
	inits  []func(context.Context) (bool, error)
	keys   Keys
}

// NewService binds each entity to its object in b.
func NewService(b blob.Store, opts ...Option) *Service {
	cfg := newConfig(opts)
	var storeOpts []store.Option
	if cfg.writerLock {
		storeOpts = append(storeOpts, store.WithWriterLock())
	}
	teams := store.New(b, cfg.keys.Teams, domain.TeamSchema, storeOpts...)
	players := store.New(b, cfg.keys.Players, domain.PlayerSchema, storeOpts...)
	games := store.New(b, cfg.keys.Games, domain.GameSchema, storeOpts...)
	return &Service{
		Teams:   newCollection(domain.TeamSchema, teams, cfg),
		Players: newCollection(domain.PlayerSchema, players, cfg),
		Games:   newCollection(domain.GameSchema, games, cfg),
		blob:    b,
		logger:  cfg.logger,
		inits:   []func(context.Context) (bool, error){teams.Init, players.Init, games.Init},
		keys:    cfg.keys,
	}
}

// Keys returns the backing object keys in use.
func (s *Service) Keys() Keys { return s.keys }

// Driver returns the blob driver the service persists through.
func (s *Service) Driver() blob.Driver { return s.blob.Driver() }

// Init writes a header-only object for every entity whose object is missing.
// It returns how many objects it created.
func (s *Service) Init(ctx context.Context) (int, error) {
	var (
		created int
		errs    error
	)
	for _, ensure := range s.inits {
		ok, err := ensure(ctx)
		if ok {
			created++
		}
		errs = multierr.Append(errs, err)
	}
	return created, errs
}

// Reset deletes every entity object and writes header-only replacements.
// It returns how many objects it created.
func (s *Service) Reset(ctx context.Context) (int, error) {
	var errs error
	for _, obj := range s.objects() {
		if _, err := s.blob.Delete(ctx, obj.key); err != nil {
			errs = multierr.Append(errs, domain.StorageUnavailable{Entity: obj.entity, Op: "delete", Key: obj.key, Err: err})
		}
	}
	if errs != nil {
		return 0, errs
	}
	s.logger.Infow("extents reset", "teams", s.keys.Teams, "players", s.keys.Players, "games", s.keys.Games)
	return s.Init(ctx)
}

type entityObject struct {
	entity domain.EntityType
	key    string
}

func (s *Service) objects() []entityObject {
	return []entityObject{
		{domain.EntityTeam, s.keys.Teams},
		{domain.EntityPlayer, s.keys.Players},
		{domain.EntityGame, s.keys.Games},
	}
}

// ExtentStatus reports whether one entity's object loads cleanly, with the
// object's size and modification time when the driver lists it.
type ExtentStatus struct {
	Entity       domain.EntityType `json:"entity"`
	Key          string            `json:"key"`
	Records      int               `json:"records"`
	Size         int64             `json:"size_bytes"`
	LastModified time.Time         `json:"last_modified,omitzero"`
	Error        string            `json:"error,omitempty"`
	Kind         domain.Kind       `json:"kind,omitempty"`
}

// Check loads every extent and reports its size or failure. The returned
// error combines every load failure; a failed listing only drops the object
// metadata.
func (s *Service) Check(ctx context.Context) ([]ExtentStatus, error) {
	listed := make(map[string]blob.Info)
	infos, err := s.blob.List(ctx, "")
	if err != nil {
		s.logger.Warnw("list backing objects", "driver", s.blob.Driver(), "error", err)
	}
	for _, info := range infos {
		listed[info.Key] = info
	}

	var errs error
	out := make([]ExtentStatus, 0, 3)
	record := func(obj entityObject, n int, err error) {
		st := ExtentStatus{Entity: obj.entity, Key: obj.key, Records: n}
		if info, ok := listed[obj.key]; ok {
			st.Size = info.Size
			st.LastModified = info.LastModified
		}
		if err != nil {
			st.Error = err.Error()
			st.Kind = domain.KindOf(err)
			errs = multierr.Append(errs, err)
		}
		out = append(out, st)
	}
	objs := s.objects()
	teams, err := s.Teams.All(ctx)
	record(objs[0], len(teams), err)
	players, err := s.Players.All(ctx)
	record(objs[1], len(players), err)
	games, err := s.Games.All(ctx)
	record(objs[2], len(games), err)
	return out, errs
}

// GameDetails is a game together with both participating teams.
type GameDetails struct {
	Game        domain.Game `json:"game"`
	HomeTeam    domain.Team `json:"homeTeam"`
	VisitorTeam domain.Team `json:"visitorTeam"`
}

// GameDetails resolves the weak team references of a game. A missing team
// is reported as NotFound; the store never guaranteed it exists.
func (s *Service) GameDetails(ctx context.Context, id string) (GameDetails, error) {
	game, err := s.Games.Get(ctx, id)
	if err != nil {
		return GameDetails{}, err
	}
	teams, err := s.Teams.All(ctx)
	if err != nil {
		return GameDetails{}, err
	}
	byID := make(map[string]domain.Team, len(teams))
	for _, t := range teams {
		byID[t.TeamID] = t
	}
	home, ok := byID[game.HomeTeamID]
	if !ok {
		return GameDetails{}, domain.NotFound{Entity: domain.EntityTeam, ID: game.HomeTeamID}
	}
	visitor, ok := byID[game.VisitorTeamID]
	if !ok {
		return GameDetails{}, domain.NotFound{Entity: domain.EntityTeam, ID: game.VisitorTeamID}
	}
	return GameDetails{Game: game, HomeTeam: home, VisitorTeam: visitor}, nil
}

// Close releases the blob store when it holds resources and flushes the logger.
func (s *Service) Close() error {
	var err error
	if c, ok := s.blob.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	// Sync on stderr-backed loggers reports EINVAL on some platforms.
	_ = s.logger.Sync()
	return err
}
