package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "estimator"
	serviceName    = "gazeink.gaze.v1.Estimator"
	jsonCodecName  = "json"
	methodInfo     = "/" + serviceName + "/Info"
	methodEstimate = "/" + serviceName + "/Estimate"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "GAZEINK_ESTIMATOR",
	MagicCookieValue: "gazeink",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

// EstimateRequest carries the screen the estimate is projected onto and the
// time since the host started polling.
type EstimateRequest struct {
	ScreenWidth  float64 `json:"screen_width"`
	ScreenHeight float64 `json:"screen_height"`
	ElapsedMS    float64 `json:"elapsed_ms"`
}

// EstimateResponse is invalid while no face is found or the model is warming
// up; hosts skip invalid responses.
type EstimateResponse struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Valid bool    `json:"valid"`
}

type EstimatorServer interface {
	Info(ctx context.Context, in *Empty) (*InfoResponse, error)
	Estimate(ctx context.Context, in *EstimateRequest) (*EstimateResponse, error)
}

type EstimatorClient interface {
	Info(ctx context.Context) (*InfoResponse, error)
	Estimate(ctx context.Context, in *EstimateRequest) (*EstimateResponse, error)
}

type estimatorClient struct {
	conn *grpc.ClientConn
}

func NewEstimatorClient(conn *grpc.ClientConn) EstimatorClient {
	return &estimatorClient{conn: conn}
}

func (c *estimatorClient) Info(ctx context.Context) (*InfoResponse, error) {
	out := &InfoResponse{}
	if err := c.conn.Invoke(ctx, methodInfo, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *estimatorClient) Estimate(ctx context.Context, in *EstimateRequest) (*EstimateResponse, error) {
	out := &EstimateResponse{}
	if err := c.conn.Invoke(ctx, methodEstimate, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed handler to grpc's untyped method signature.
func unary[Req any](method string, call func(context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type %T", req)
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterEstimatorServer(server grpc.ServiceRegistrar, impl EstimatorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*EstimatorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Info",
				Handler: unary(methodInfo, func(ctx context.Context, in *Empty) (any, error) {
					return impl.Info(ctx, in)
				}),
			},
			{
				MethodName: "Estimate",
				Handler: unary(methodEstimate, func(ctx context.Context, in *EstimateRequest) (any, error) {
					return impl.Estimate(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "gazeink/gaze/v1/estimator",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl EstimatorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterEstimatorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewEstimatorClient(conn), nil
}

func PluginMap(impl EstimatorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
