package agent

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
)

// Client drives a remote engine session. Errors carrying an engine rule id
// come back as *greatwall.Error.
type Client struct {
	cc  *grpc.ClientConn
	rpc DerivationClient
}

type DialOptions struct {
	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Extra is appended to the dial options, e.g. a context dialer.
	Extra []grpc.DialOption
}

// Dial connects to an agent at target. Agents listen on loopback, so the
// transport is not encrypted.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	dialOpts = append(dialOpts, opts.Extra...)

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, rpc: NewDerivationClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Configure(ctx context.Context, t greatwall.Topology) error {
	_, err := c.rpc.Configure(ctx, topologyToStruct(t))
	return mapRPC(err)
}

func (c *Client) SetSeed(ctx context.Context, entropy []byte) error {
	_, err := c.rpc.SetSeed(ctx, wrapperspb.Bytes(entropy))
	return mapRPC(err)
}

func (c *Client) SetPassphrase(ctx context.Context, phrase string) error {
	_, err := c.rpc.SetPassphrase(ctx, wrapperspb.String(phrase))
	return mapRPC(err)
}

func (c *Client) Bootstrap(ctx context.Context) (greatwall.Status, error) {
	reply, err := c.rpc.Bootstrap(ctx, &emptypb.Empty{})
	if err != nil {
		return greatwall.Status{}, mapRPC(err)
	}
	return statusFromStruct(reply)
}

// Start runs the bootstrap remotely, calling onEvent for every event
// received. It returns when the terminal event arrives: nil on completion,
// otherwise the event's error.
func (c *Client) Start(ctx context.Context, onEvent func(greatwall.Event)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream, err := c.rpc.Start(ctx, &emptypb.Empty{})
	if err != nil {
		return mapRPC(err)
	}
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return errors.New("agent: start stream ended without a terminal event")
		}
		if err != nil {
			return mapRPC(err)
		}
		ev, err := eventFromStruct(msg)
		if err != nil {
			return err
		}
		if onEvent != nil {
			onEvent(ev)
		}
		if ev.Terminal() {
			return ev.Err
		}
	}
}

func (c *Client) ListOptions(ctx context.Context) (Listing, error) {
	reply, err := c.rpc.ListOptions(ctx, &emptypb.Empty{})
	if err != nil {
		return Listing{}, mapRPC(err)
	}
	return listingFromStruct(reply)
}

// Choose descends into the candidate at display position (1-based).
func (c *Client) Choose(ctx context.Context, position int) (greatwall.Status, error) {
	reply, err := c.rpc.Choose(ctx, wrapperspb.Int32(int32(position)))
	if err != nil {
		return greatwall.Status{}, mapRPC(err)
	}
	return statusFromStruct(reply)
}

func (c *Client) GoBack(ctx context.Context) (greatwall.Status, error) {
	reply, err := c.rpc.GoBack(ctx, &emptypb.Empty{})
	if err != nil {
		return greatwall.Status{}, mapRPC(err)
	}
	return statusFromStruct(reply)
}

func (c *Client) Finish(ctx context.Context) ([]byte, error) {
	reply, err := c.rpc.Finish(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) Cancel(ctx context.Context) error {
	_, err := c.rpc.Cancel(ctx, &emptypb.Empty{})
	return mapRPC(err)
}

func (c *Client) Status(ctx context.Context) (greatwall.Status, error) {
	reply, err := c.rpc.Status(ctx, &emptypb.Empty{})
	if err != nil {
		return greatwall.Status{}, mapRPC(err)
	}
	return statusFromStruct(reply)
}
