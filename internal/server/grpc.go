package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/preset"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "orbsim.v1.Simulator"

// SimulatorServer is served over gRPC. Payloads are google.protobuf.Struct
// values carrying the same JSON documents as the HTTP API.
type SimulatorServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBanners(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGoals(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(SimulatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SimulatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SimulatorServiceDesc describes the Simulator service for grpc.Server.RegisterService.
var SimulatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: unaryHandler("Simulate", SimulatorServer.Simulate)},
		{MethodName: "ListBanners", Handler: unaryHandler("ListBanners", SimulatorServer.ListBanners)},
		{MethodName: "ListGoals", Handler: unaryHandler("ListGoals", SimulatorServer.ListGoals)},
	},
	Metadata: "orbsim/v1/simulator.proto",
}

// SimulatorClient calls the Simulator service.
type SimulatorClient struct {
	cc grpc.ClientConnInterface
}

func NewSimulatorClient(cc grpc.ClientConnInterface) *SimulatorClient {
	return &SimulatorClient{cc: cc}
}

func (c *SimulatorClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SimulatorClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Simulate", in, opts...)
}

func (c *SimulatorClient) ListBanners(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListBanners", in, opts...)
}

func (c *SimulatorClient) ListGoals(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListGoals", in, opts...)
}

// grpcSimulator adapts Service to SimulatorServer.
type grpcSimulator struct {
	svc *Service
}

func (g *grpcSimulator) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SimulateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	resp, err := g.svc.Simulate(ctx, req, "grpc")
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(resp)
}

func (g *grpcSimulator) ListBanners(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(map[string]any{"banners": g.svc.Banners()})
}

func (g *grpcSimulator) ListGoals(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Banner string `json:"banner"`
	}
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	goals, err := g.svc.Goals(req.Banner)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"goals": goals})
}

func fromStruct(in *structpb.Struct, v any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// grpcError maps service errors to gRPC status codes.
func grpcError(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, preset.ErrUnknownBanner):
		code = codes.NotFound
	case errors.Is(err, gacha.ErrUnreachableGoal):
		code = codes.FailedPrecondition
	case errors.Is(err, gacha.ErrInvalidConfig), errors.Is(err, ErrBadRequest):
		code = codes.InvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.Error(code, err.Error())
}

// InterceptorLogger adapts a logrus logger to the gRPC logging middleware.
func InterceptorLogger(l logrus.FieldLogger) logging.Logger {
	return logging.LoggerFunc(func(_ context.Context, lvl logging.Level, msg string, fields ...any) {
		f := make(logrus.Fields, len(fields)/2)
		it := logging.Fields(fields).Iterator()
		for it.Next() {
			k, v := it.At()
			f[k] = v
		}
		entry := l.WithFields(f)
		switch lvl {
		case logging.LevelDebug:
			entry.Debug(msg)
		case logging.LevelInfo:
			entry.Info(msg)
		case logging.LevelWarn:
			entry.Warn(msg)
		case logging.LevelError:
			entry.Error(msg)
		default:
			entry.Warn(fmt.Sprintf("unknown level %v: %s", lvl, msg))
		}
	})
}

// GRPCServer hosts the Simulator and the standard health service.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	log    logrus.FieldLogger
}

func NewGRPCServer(svc *Service, log logrus.FieldLogger) *GRPCServer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(InterceptorLogger(log), logging.WithLogOnEvents(logging.FinishCall)),
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(func(p any) error {
				log.WithField("panic", p).Errorf("grpc handler panicked\n%s", debug.Stack())
				return status.Error(codes.Internal, "internal error")
			})),
		),
	)
	s.RegisterService(&SimulatorServiceDesc, &grpcSimulator{svc: svc})

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &GRPCServer{server: s, health: hs, log: log}
}

// Serve blocks until ctx is done or the listener fails, then stops gracefully.
func (g *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	g.log.Infof("grpc server listening at %v", lis.Addr())
	serveErr := make(chan error, 1)
	go func() { serveErr <- g.server.Serve(lis) }()

	select {
	case <-ctx.Done():
		g.health.Shutdown()
		g.server.GracefulStop()
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}
