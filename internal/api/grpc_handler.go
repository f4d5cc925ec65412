package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"knitting-catalog-service/internal/metrics"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	DesignCatalogServiceName = "knitting.v1.DesignCatalog"
	ListDesignsFullMethod    = "/" + DesignCatalogServiceName + "/ListDesigns"
)

// DesignCatalogServer is the server API for the DesignCatalog service.
type DesignCatalogServer interface {
	ListDesigns(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// GRPCHandler serves the design catalog over gRPC. Each list element is a
// Struct with the same shape as the HTTP JSON response.
type GRPCHandler struct {
	designs DesignLister
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewGRPCHandler creates a new GRPCHandler. m may be nil.
func NewGRPCHandler(designs DesignLister, logger *slog.Logger, m *metrics.Metrics) *GRPCHandler {
	return &GRPCHandler{
		designs: designs,
		logger:  logger,
		metrics: m,
	}
}

func (s *GRPCHandler) ListDesigns(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	start := time.Now()
	designs, err := drainDesigns(s.designs.GetAll(ctx))
	if err != nil {
		s.logger.ErrorContext(ctx, "gRPC ListDesigns failed", "error", err)
		s.observe(metrics.OutcomeFailure, 0, start)
		return nil, status.Error(codes.Internal, "failed to retrieve designs")
	}

	payload, err := json.Marshal(designs)
	if err != nil {
		s.logger.ErrorContext(ctx, "gRPC ListDesigns encode failed", "error", err)
		s.observe(metrics.OutcomeFailure, 0, start)
		return nil, status.Error(codes.Internal, "failed to encode designs")
	}
	list := &structpb.ListValue{}
	if err := protojson.Unmarshal(payload, list); err != nil {
		s.logger.ErrorContext(ctx, "gRPC ListDesigns convert failed", "error", err)
		s.observe(metrics.OutcomeFailure, 0, start)
		return nil, status.Error(codes.Internal, "failed to encode designs")
	}

	s.observe(metrics.OutcomeSuccess, len(designs), start)
	return list, nil
}

func (s *GRPCHandler) observe(outcome string, count int, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveList("grpc", outcome, count, time.Since(start))
	}
}

// RegisterDesignCatalogServer registers srv with a gRPC server.
func RegisterDesignCatalogServer(s grpc.ServiceRegistrar, srv DesignCatalogServer) {
	s.RegisterService(&designCatalogServiceDesc, srv)
}

func listDesignsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DesignCatalogServer).ListDesigns(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListDesignsFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DesignCatalogServer).ListDesigns(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var designCatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: DesignCatalogServiceName,
	HandlerType: (*DesignCatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListDesigns",
			Handler:    listDesignsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: designCatalogProtoPath,
}
