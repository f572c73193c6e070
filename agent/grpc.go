package agent

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "greatwall.agent.v1.Derivation"

func fullMethod(name string) string { return "/" + serviceName + "/" + name }

// DerivationServer is the server API for the Derivation service.
type DerivationServer interface {
	Configure(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetSeed(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	SetPassphrase(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Bootstrap(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Start(*emptypb.Empty, Derivation_StartServer) error
	ListOptions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Choose(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	GoBack(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Finish(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	Cancel(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Derivation_StartServer is the server side of the Start stream.
type Derivation_StartServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type derivationStartServer struct{ grpc.ServerStream }

func (x *derivationStartServer) Send(m *structpb.Struct) error { return x.ServerStream.SendMsg(m) }

// UnimplementedDerivationServer can be embedded to have forward compatible implementations.
type UnimplementedDerivationServer struct{}

func unimplemented(name string) error {
	return status.Error(codes.Unimplemented, "method "+name+" not implemented")
}

func (UnimplementedDerivationServer) Configure(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, unimplemented("Configure")
}
func (UnimplementedDerivationServer) SetSeed(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, unimplemented("SetSeed")
}
func (UnimplementedDerivationServer) SetPassphrase(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, unimplemented("SetPassphrase")
}
func (UnimplementedDerivationServer) Bootstrap(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented("Bootstrap")
}
func (UnimplementedDerivationServer) Start(*emptypb.Empty, Derivation_StartServer) error {
	return unimplemented("Start")
}
func (UnimplementedDerivationServer) ListOptions(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented("ListOptions")
}
func (UnimplementedDerivationServer) Choose(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error) {
	return nil, unimplemented("Choose")
}
func (UnimplementedDerivationServer) GoBack(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented("GoBack")
}
func (UnimplementedDerivationServer) Finish(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("Finish")
}
func (UnimplementedDerivationServer) Cancel(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, unimplemented("Cancel")
}
func (UnimplementedDerivationServer) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented("Status")
}

// RegisterDerivationServer registers the Derivation service on a gRPC server.
func RegisterDerivationServer(s grpc.ServiceRegistrar, srv DerivationServer) {
	s.RegisterService(&Derivation_ServiceDesc, srv)
}

// DerivationClient is the client API for the Derivation service.
type DerivationClient interface {
	Configure(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetSeed(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetPassphrase(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Bootstrap(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (Derivation_StartClient, error)
	ListOptions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Choose(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	GoBack(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Finish(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Cancel(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// Derivation_StartClient is the client side of the Start stream.
type Derivation_StartClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type derivationStartClient struct{ grpc.ClientStream }

func (x *derivationStartClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type derivationClient struct{ cc grpc.ClientConnInterface }

func NewDerivationClient(cc grpc.ClientConnInterface) DerivationClient {
	return &derivationClient{cc: cc}
}

func invoke[Out any](ctx context.Context, cc grpc.ClientConnInterface, name string, in any, opts []grpc.CallOption) (*Out, error) {
	out := new(Out)
	if err := cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *derivationClient) Configure(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "Configure", in, opts)
}

func (c *derivationClient) SetSeed(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "SetSeed", in, opts)
}

func (c *derivationClient) SetPassphrase(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "SetPassphrase", in, opts)
}

func (c *derivationClient) Bootstrap(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "Bootstrap", in, opts)
}

func (c *derivationClient) Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (Derivation_StartClient, error) {
	stream, err := c.cc.NewStream(ctx, &Derivation_ServiceDesc.Streams[0], fullMethod("Start"), opts...)
	if err != nil {
		return nil, err
	}
	x := &derivationStartClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *derivationClient) ListOptions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "ListOptions", in, opts)
}

func (c *derivationClient) Choose(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "Choose", in, opts)
}

func (c *derivationClient) GoBack(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "GoBack", in, opts)
}

func (c *derivationClient) Finish(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return invoke[wrapperspb.BytesValue](ctx, c.cc, "Finish", in, opts)
}

func (c *derivationClient) Cancel(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "Cancel", in, opts)
}

func (c *derivationClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "Status", in, opts)
}

// unary builds a method handler that decodes into a fresh In and dispatches
// to call, honoring any interceptor.
func unary[In any](name string, call func(DerivationServer, context.Context, *In) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(In)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DerivationServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DerivationServer), ctx, req.(*In))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _Derivation_Start_Handler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DerivationServer).Start(m, &derivationStartServer{stream})
}

// Derivation_ServiceDesc is the grpc.ServiceDesc for the Derivation service.
var Derivation_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DerivationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Configure", Handler: unary("Configure", func(s DerivationServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.Configure(ctx, in)
		})},
		{MethodName: "SetSeed", Handler: unary("SetSeed", func(s DerivationServer, ctx context.Context, in *wrapperspb.BytesValue) (any, error) {
			return s.SetSeed(ctx, in)
		})},
		{MethodName: "SetPassphrase", Handler: unary("SetPassphrase", func(s DerivationServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.SetPassphrase(ctx, in)
		})},
		{MethodName: "Bootstrap", Handler: unary("Bootstrap", func(s DerivationServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.Bootstrap(ctx, in)
		})},
		{MethodName: "ListOptions", Handler: unary("ListOptions", func(s DerivationServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.ListOptions(ctx, in)
		})},
		{MethodName: "Choose", Handler: unary("Choose", func(s DerivationServer, ctx context.Context, in *wrapperspb.Int32Value) (any, error) {
			return s.Choose(ctx, in)
		})},
		{MethodName: "GoBack", Handler: unary("GoBack", func(s DerivationServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.GoBack(ctx, in)
		})},
		{MethodName: "Finish", Handler: unary("Finish", func(s DerivationServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.Finish(ctx, in)
		})},
		{MethodName: "Cancel", Handler: unary("Cancel", func(s DerivationServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.Cancel(ctx, in)
		})},
		{MethodName: "Status", Handler: unary("Status", func(s DerivationServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.Status(ctx, in)
		})},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Start", Handler: _Derivation_Start_Handler, ServerStreams: true},
	},
	Metadata: "greatwall/agent/v1/derivation.proto",
}
