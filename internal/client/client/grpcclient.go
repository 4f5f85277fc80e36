package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// DefaultCallTimeout bounds a call whose context carries no deadline.
const DefaultCallTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.AccessServiceClient
	accessToken string
	callTimeout time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	if _, ok := ctx.Deadline(); !ok && s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient dials the gateway lazily; the first RPC opens the connection.
func NewGRPCClient(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, callTimeout: DefaultCallTimeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAccessServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) (string, error) {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return "", s.mapError(err)
	}

	if resp.Status != "OK" {
		return "", ErrUnavailable
	}

	return resp.Version, nil

}

func (s *GRPCClient) IssueToken(ctx context.Context, withSnapshot bool) (*api.IssueTokenResponse, error) {

	resp, err := s.client.IssueToken(ctx, &api.IssueTokenRequest{WithSnapshot: withSnapshot})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil

}

func (s *GRPCClient) ValidateScan(ctx context.Context, payload, scanType, location string) (*api.ValidateScanResponse, error) {

	req := &api.ValidateScanRequest{Payload: payload, ScanType: scanType, Location: location}

	resp, err := s.client.ValidateScan(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil

}

func (s *GRPCClient) ScanHistory(ctx context.Context, userID string, limit int) ([]api.ScanLog, error) {

	resp, err := s.client.ScanHistory(ctx, &api.ScanHistoryRequest{UserID: userID, Limit: limit})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Scans, nil

}

func (s *GRPCClient) ListScans(ctx context.Context, from, to time.Time) ([]api.ScanLog, error) {

	resp, err := s.client.ListScans(ctx, &api.ListScansRequest{From: from, To: to})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Scans, nil

}

func (s *GRPCClient) CorrectScan(ctx context.Context, scanID, outcome, reason string) (*api.ScanLog, error) {

	req := &api.CorrectScanRequest{ScanID: scanID, Outcome: outcome, Reason: reason}

	resp, err := s.client.CorrectScan(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Scan, nil

}

// mapError turns gRPC statuses into sentinels callers can match with
// errors.Is. Status messages from the gateway are kept for display.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.FailedPrecondition:
		return withSentinel(common.ErrIneligible, st.Message())
	case codes.InvalidArgument:
		return withSentinel(common.ErrInvalidArgument, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// withSentinel wraps sentinel so that the result prints as msg. A message
// that already starts with the sentinel text is not repeated.
func withSentinel(sentinel error, msg string) error {
	rest, found := strings.CutPrefix(msg, sentinel.Error())
	if found {
		return fmt.Errorf("%w%s", sentinel, rest)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
