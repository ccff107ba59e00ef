package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"leaguestore/internal/core"
	"leaguestore/pkg/domain"
)

// Service names as seen on the wire.
const (
	TeamService   = "leaguestore.TeamService"
	PlayerService = "leaguestore.PlayerService"
	GameService   = "leaguestore.GameService"
)

// NewServer returns a gRPC server with every league service registered and
// a logging interceptor installed.
func NewServer(svc *core.Service, logger *zap.SugaredLogger, opts ...grpc.ServerOption) *grpc.Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary(logger))}, opts...)
	s := grpc.NewServer(opts...)
	Register(s, svc)
	return s
}

// Register adds the three league services to s.
func Register(s grpc.ServiceRegistrar, svc *core.Service) {
	register(s, TeamService, svc.Teams)
	register(s, PlayerService, svc.Players)
	register(s, GameService, svc.Games)
}

// recordService is the handler type of every league service descriptor.
type recordService interface {
	serviceName() string
}

type entityServer[R any] struct {
	name string
	col  *core.Collection[R]
}

func (e *entityServer[R]) serviceName() string { return e.name }

func register[R any](s grpc.ServiceRegistrar, name string, col *core.Collection[R]) {
	srv := &entityServer[R]{name: name, col: col}
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: name,
		HandlerType: (*recordService)(nil),
		Methods: []grpc.MethodDesc{
			unary(srv, "Get", srv.get),
			unary(srv, "List", srv.list),
			unary(srv, "Add", srv.write(domain.OpCreate)),
			unary(srv, "Update", srv.write(domain.OpUpdate)),
			unary(srv, "Replace", srv.write(domain.OpReplace)),
			unary(srv, "Delete", srv.remove),
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "leaguestore.json",
	}, srv)
}

func unary[Req, Resp any, R any](srv *entityServer[R], method string, call func(context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + srv.name + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
			}
			handler := func(ctx context.Context, req any) (any, error) {
				out, err := call(ctx, req.(*Req))
				if err != nil {
					return nil, toStatus(err)
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
		},
	}
}

func (e *entityServer[R]) get(ctx context.Context, req *GetRequest) (*RecordResponse[R], error) {
	rec, err := e.col.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &RecordResponse[R]{Record: rec}, nil
}

func (e *entityServer[R]) list(ctx context.Context, req *ListRequest) (*ListResponse[R], error) {
	records, err := e.col.Query(ctx, req.params())
	if err != nil {
		return nil, err
	}
	return &ListResponse[R]{Records: records}, nil
}

func (e *entityServer[R]) write(op domain.Operation) func(context.Context, *WriteRequest) (*RecordResponse[R], error) {
	return func(ctx context.Context, req *WriteRequest) (*RecordResponse[R], error) {
		rec, err := e.col.Mutate(ctx, core.MutateRequest{Operation: op, ID: req.ID, Body: req.Fields})
		if err != nil {
			return nil, err
		}
		return &RecordResponse[R]{Record: rec}, nil
	}
}

func (e *entityServer[R]) remove(ctx context.Context, req *GetRequest) (*RecordResponse[R], error) {
	rec, err := e.col.Mutate(ctx, core.MutateRequest{Operation: domain.OpDelete, ID: req.ID})
	if err != nil {
		return nil, err
	}
	return &RecordResponse[R]{Record: rec}, nil
}

// toStatus maps the error taxonomy onto gRPC codes.
func toStatus(err error) error {
	var code codes.Code
	switch domain.KindOf(err) {
	case domain.KindValidation:
		code = codes.InvalidArgument
	case domain.KindNotFound:
		code = codes.NotFound
	case domain.KindAlreadyExists:
		code = codes.AlreadyExists
	case domain.KindStorage:
		code = codes.Unavailable
	case domain.KindCodec:
		code = codes.DataLoss
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func logUnary(logger *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(started)}
		if err != nil {
			logger.Warnw("rpc failed", append(fields, "error", err)...)
		} else {
			logger.Debugw("rpc", fields...)
		}
		return resp, err
	}
}
