package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "library.access.v1.AccessService"

const (
	MethodPing         = "/" + ServiceName + "/Ping"
	MethodIssueToken   = "/" + ServiceName + "/IssueToken"
	MethodValidateScan = "/" + ServiceName + "/ValidateScan"
	MethodScanHistory  = "/" + ServiceName + "/ScanHistory"
	MethodListScans    = "/" + ServiceName + "/ListScans"
	MethodCorrectScan  = "/" + ServiceName + "/CorrectScan"
)

// AccessServiceServer is implemented by the gateway.
type AccessServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	IssueToken(context.Context, *IssueTokenRequest) (*IssueTokenResponse, error)
	ValidateScan(context.Context, *ValidateScanRequest) (*ValidateScanResponse, error)
	ScanHistory(context.Context, *ScanHistoryRequest) (*ScanListResponse, error)
	ListScans(context.Context, *ListScansRequest) (*ScanListResponse, error)
	CorrectScan(context.Context, *CorrectScanRequest) (*CorrectScanResponse, error)
}

func RegisterAccessServiceServer(s grpc.ServiceRegistrar, srv AccessServiceServer) {
	s.RegisterService(&AccessServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodDesc.Handler.
func unary[Req any, Resp any](full string, call func(AccessServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccessServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccessServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AccessServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, AccessServiceServer.Ping)},
		{MethodName: "IssueToken", Handler: unary(MethodIssueToken, AccessServiceServer.IssueToken)},
		{MethodName: "ValidateScan", Handler: unary(MethodValidateScan, AccessServiceServer.ValidateScan)},
		{MethodName: "ScanHistory", Handler: unary(MethodScanHistory, AccessServiceServer.ScanHistory)},
		{MethodName: "ListScans", Handler: unary(MethodListScans, AccessServiceServer.ListScans)},
		{MethodName: "CorrectScan", Handler: unary(MethodCorrectScan, AccessServiceServer.CorrectScan)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "library/access/v1/access.json",
}

// AccessServiceClient is the typed client stub.
type AccessServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	IssueToken(ctx context.Context, in *IssueTokenRequest, opts ...grpc.CallOption) (*IssueTokenResponse, error)
	ValidateScan(ctx context.Context, in *ValidateScanRequest, opts ...grpc.CallOption) (*ValidateScanResponse, error)
	ScanHistory(ctx context.Context, in *ScanHistoryRequest, opts ...grpc.CallOption) (*ScanListResponse, error)
	ListScans(ctx context.Context, in *ListScansRequest, opts ...grpc.CallOption) (*ScanListResponse, error)
	CorrectScan(ctx context.Context, in *CorrectScanRequest, opts ...grpc.CallOption) (*CorrectScanResponse, error)
}

type accessServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccessServiceClient(cc grpc.ClientConnInterface) AccessServiceClient {
	return &accessServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accessServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *accessServiceClient) IssueToken(ctx context.Context, in *IssueTokenRequest, opts ...grpc.CallOption) (*IssueTokenResponse, error) {
	return invoke[IssueTokenResponse](ctx, c.cc, MethodIssueToken, in, opts)
}

func (c *accessServiceClient) ValidateScan(ctx context.Context, in *ValidateScanRequest, opts ...grpc.CallOption) (*ValidateScanResponse, error) {
	return invoke[ValidateScanResponse](ctx, c.cc, MethodValidateScan, in, opts)
}

func (c *accessServiceClient) ScanHistory(ctx context.Context, in *ScanHistoryRequest, opts ...grpc.CallOption) (*ScanListResponse, error) {
	return invoke[ScanListResponse](ctx, c.cc, MethodScanHistory, in, opts)
}

func (c *accessServiceClient) ListScans(ctx context.Context, in *ListScansRequest, opts ...grpc.CallOption) (*ScanListResponse, error) {
	return invoke[ScanListResponse](ctx, c.cc, MethodListScans, in, opts)
}

func (c *accessServiceClient) CorrectScan(ctx context.Context, in *CorrectScanRequest, opts ...grpc.CallOption) (*CorrectScanResponse, error) {
	return invoke[CorrectScanResponse](ctx, c.cc, MethodCorrectScan, in, opts)
}
