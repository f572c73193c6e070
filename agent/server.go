package agent

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/passphrase"
	"github.com/Yuri-SVB/Great-Wall/secret"
)

// Server exposes one greatwall.Engine over the Derivation service.
type Server struct {
	UnimplementedDerivationServer
	Engine *greatwall.Engine

	// Decoder turns SetPassphrase input into entropy. Nil means
	// passphrase.Raw.
	Decoder passphrase.Decoder
	Log     *zap.Logger
}

func (s *Server) engine() (*greatwall.Engine, error) {
	if s == nil || s.Engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing engine")
	}
	return s.Engine, nil
}

func (s *Server) Configure(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	t, err := topologyFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := e.Configure(t); err != nil {
		return nil, mapErr(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) SetSeed(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	b := in.GetValue()
	defer secret.Wipe(b)
	if err := e.SetSeed(b); err != nil {
		return nil, mapErr(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) SetPassphrase(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	dec := s.Decoder
	if dec == nil {
		dec = passphrase.Raw{}
	}
	if err := e.SetPassphrase(dec, in.GetValue()); err != nil {
		return nil, mapErr(err)
	}
	return &emptypb.Empty{}, nil
}

// Bootstrap runs the time-lock puzzle within the RPC. A client that goes
// away cancels it.
func (s *Server) Bootstrap(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	if err := e.Bootstrap(ctx); err != nil {
		return nil, mapErr(err)
	}
	return statusToStruct(e.Status()), nil
}

// Start streams bootstrap events until the terminal one.
func (s *Server) Start(_ *emptypb.Empty, stream Derivation_StartServer) error {
	e, err := s.engine()
	if err != nil {
		return err
	}
	var sendErr error
	for ev := range e.Start(stream.Context()) {
		if sendErr != nil {
			continue
		}
		sendErr = stream.Send(eventToStruct(ev))
		if sendErr != nil {
			s.log().Debug("start stream send failed", zap.Error(sendErr))
		}
	}
	return sendErr
}

func (s *Server) ListOptions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	opts, err := e.ListOptions(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return listingToStruct(opts), nil
}

func (s *Server) Choose(ctx context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error) {
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	if err := e.Choose(ctx, int(in.GetValue())); err != nil {
		return nil, mapErr(err)
	}
	return statusToStruct(e.Status()), nil
}

func (s *Server) GoBack(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	if err := e.GoBack(); err != nil {
		return nil, mapErr(err)
	}
	return statusToStruct(e.Status()), nil
}

func (s *Server) Finish(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	ka, err := e.Finish()
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bytes(ka), nil
}

func (s *Server) Cancel(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	e.Cancel()
	return &emptypb.Empty{}, nil
}

func (s *Server) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	_ = ctx
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	return statusToStruct(e.Status()), nil
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
