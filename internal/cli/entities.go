package cli

import (
	"context"
	"fmt"

	"leaguestore/internal/codec"
	"leaguestore/internal/core"
	"leaguestore/internal/query"
	"leaguestore/pkg/domain"
)

// entityOps erases the record type of a collection so commands can work on
// any entity named on the command line.
type entityOps interface {
	query(ctx context.Context, p query.Params) (any, error)
	get(ctx context.Context, id string) (any, error)
	mutate(ctx context.Context, req core.MutateRequest) (any, error)
	encode(records any) ([]byte, error)
}

type collectionOps[R any] struct {
	col *core.Collection[R]
}

func (c collectionOps[R]) query(ctx context.Context, p query.Params) (any, error) {
	return c.col.Query(ctx, p)
}

func (c collectionOps[R]) get(ctx context.Context, id string) (any, error) {
	return c.col.Get(ctx, id)
}

func (c collectionOps[R]) mutate(ctx context.Context, req core.MutateRequest) (any, error) {
	return c.col.Mutate(ctx, req)
}

func (c collectionOps[R]) encode(records any) ([]byte, error) {
	switch v := records.(type) {
	case []R:
		return codec.Encode(c.col.Schema(), v)
	case R:
		return codec.Encode(c.col.Schema(), []R{v})
	default:
		return nil, fmt.Errorf("cannot encode %T as %s rows", records, c.col.Entity())
	}
}

// entityNames lists the accepted entity arguments.
var entityNames = []string{"teams", "players", "games"}

func lookupEntity(svc *core.Service, name string) (entityOps, error) {
	switch name {
	case "teams", string(domain.EntityTeam):
		return collectionOps[domain.Team]{col: svc.Teams}, nil
	case "players", string(domain.EntityPlayer):
		return collectionOps[domain.Player]{col: svc.Players}, nil
	case "games", string(domain.EntityGame):
		return collectionOps[domain.Game]{col: svc.Games}, nil
	default:
		return nil, fmt.Errorf("unknown entity %q: must be one of %v", name, entityNames)
	}
}
