package rpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"leaguestore/internal/blob"
	"leaguestore/internal/core"
	"leaguestore/internal/query"
	"leaguestore/pkg/domain"
)

type harness struct {
	blob blob.Store
	conn *grpc.ClientConn
}

func newHarness(t *testing.T) harness {
	t.Helper()
	b := blob.NewMemory()
	objects := map[string]string{
		"teams.csv":   "LEAGUE_ID,TEAM_ID,MIN_YEAR,MAX_YEAR,ABBREVIATION,NICKNAME,YEARFOUNDED,CITY,ARENA,ARENACAPACITY,OWNER,GENERALMANAGER,HEADCOACH,DLEAGUEAFFILIATION\n00,1,1948,2019,LAL,Lakers,1948,Los Angeles,Arena,19060,X,,,\n",
		"players.csv": "PLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON\nA,1,10,2019\nB,1,11,2019\nC,2,12,2020\n",
		"games.csv":   "GAME_DATE_EST,GAME_ID,GAME_STATUS_TEXT,HOME_TEAM_ID,VISITOR_TEAM_ID\n",
	}
	for key, raw := range objects {
		_, err := b.Put(context.Background(), key, strings.NewReader(raw), blob.PutOptions{})
		require.NoError(t, err)
	}

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(core.NewService(b), nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return harness{blob: b, conn: conn}
}

func TestPlayerServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	players := NewPlayerClient(newHarness(t).conn)

	p, err := players.Get(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, domain.Player{PlayerName: "A", TeamID: "1", PlayerID: "10", Season: "2019"}, p)

	list, err := players.List(ctx, &ListRequest{Filter: map[string]string{"TEAM_ID": "1"}, Sort: "PLAYER_ID:desc"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "11", list[0].PlayerID)

	list, err = players.List(ctx, &ListRequest{Limit: query.IntPtr(0)})
	require.NoError(t, err)
	assert.Empty(t, list)

	added, err := players.Add(ctx, map[string]string{"PLAYER_ID": "13", "PLAYER_NAME": "D", "TEAM_ID": "2", "SEASON": "2021"})
	require.NoError(t, err)
	assert.Equal(t, "D", added.PlayerName)

	updated, err := players.Update(ctx, "13", map[string]string{"SEASON": "2022"})
	require.NoError(t, err)
	assert.Equal(t, "2022", updated.Season)

	replaced, err := players.Replace(ctx, "13", map[string]string{"PLAYER_NAME": "E", "TEAM_ID": "3", "SEASON": "2023"})
	require.NoError(t, err)
	assert.Equal(t, domain.Player{PlayerName: "E", TeamID: "3", PlayerID: "13", Season: "2023"}, replaced)

	deleted, err := players.Delete(ctx, "13")
	require.NoError(t, err)
	assert.Equal(t, replaced, deleted)
}

func TestErrorCodes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	teams := NewTeamClient(h.conn)
	games := NewGameClient(h.conn)

	_, err := teams.Get(ctx, "404")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = teams.Update(ctx, "1", map[string]string{"MIN_YEAR": "1900"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "cannot be changed")

	_, err = teams.Add(ctx, map[string]string{"TEAM_ID": "1", "NICKNAME": "L", "CITY": "C", "ARENA": "A"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = games.Add(ctx, map[string]string{"GAME_ID": "1", "GAME_DATE_EST": "2022-1-1", "GAME_STATUS_TEXT": "Final", "HOME_TEAM_ID": "1", "VISITOR_TEAM_ID": "2"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	h.blob.(interface{ FailPuts(error) }).FailPuts(errors.New("disk full"))
	_, err = teams.Update(ctx, "1", map[string]string{"OWNER": "Y"})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestCodecErrorIsDataLoss(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.blob.Put(ctx, "games.csv", strings.NewReader("GAME_ID,GAME_ID\n1,1\n"), blob.PutOptions{})
	require.NoError(t, err)

	_, err = NewGameClient(h.conn).List(ctx, &ListRequest{})
	assert.Equal(t, codes.DataLoss, status.Code(err))
}

func TestUnknownMethod(t *testing.T) {
	h := newHarness(t)
	err := h.conn.Invoke(context.Background(), "/"+TeamService+"/Upsert", &GetRequest{ID: "1"}, &RecordResponse[domain.Team]{}, grpc.ForceCodec(Codec()))
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.Internal, status.Code(toStatus(errors.New("boom"))))
	assert.Equal(t, codes.NotFound, status.Code(toStatus(domain.NotFound{Entity: domain.EntityGame, ID: "1"})))
}
