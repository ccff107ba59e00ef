package rpc

import (
	"context"

	"google.golang.org/grpc"

	"leaguestore/pkg/domain"
)

// Client calls one league service. Use NewTeamClient, NewPlayerClient or
// NewGameClient.
type Client[R any] struct {
	conn    grpc.ClientConnInterface
	service string
}

// NewTeamClient returns a TeamService client.
func NewTeamClient(conn grpc.ClientConnInterface) *Client[domain.Team] {
	return &Client[domain.Team]{conn: conn, service: TeamService}
}

// NewPlayerClient returns a PlayerService client.
func NewPlayerClient(conn grpc.ClientConnInterface) *Client[domain.Player] {
	return &Client[domain.Player]{conn: conn, service: PlayerService}
}

// NewGameClient returns a GameService client.
func NewGameClient(conn grpc.ClientConnInterface) *Client[domain.Game] {
	return &Client[domain.Game]{conn: conn, service: GameService}
}

func (c *Client[R]) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, "/"+c.service+"/"+method, in, out, grpc.ForceCodec(Codec()))
}

func (c *Client[R]) record(ctx context.Context, method string, in any) (R, error) {
	var out RecordResponse[R]
	err := c.invoke(ctx, method, in, &out)
	return out.Record, err
}

// Get fetches one record.
func (c *Client[R]) Get(ctx context.Context, id string) (R, error) {
	return c.record(ctx, "Get", &GetRequest{ID: id})
}

// List runs a query.
func (c *Client[R]) List(ctx context.Context, req *ListRequest) ([]R, error) {
	var out ListResponse[R]
	if err := c.invoke(ctx, "List", req, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// Add creates a record.
func (c *Client[R]) Add(ctx context.Context, fields map[string]string) (R, error) {
	return c.record(ctx, "Add", &WriteRequest{Fields: fields})
}

// Update merges fields into the record named by id.
func (c *Client[R]) Update(ctx context.Context, id string, fields map[string]string) (R, error) {
	return c.record(ctx, "Update", &WriteRequest{ID: id, Fields: fields})
}

// Replace swaps every field of the record named by id.
func (c *Client[R]) Replace(ctx context.Context, id string, fields map[string]string) (R, error) {
	return c.record(ctx, "Replace", &WriteRequest{ID: id, Fields: fields})
}

// Delete removes the record named by id and returns it.
func (c *Client[R]) Delete(ctx context.Context, id string) (R, error) {
	return c.record(ctx, "Delete", &GetRequest{ID: id})
}
