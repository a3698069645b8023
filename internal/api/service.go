package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "medkeeper.v1.MedKeeper"

// FullMethod returns "/medkeeper.v1.MedKeeper/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// MedKeeperServer is implemented by the backend.
type MedKeeperServer interface {
	Register(context.Context, *RegisterRequest) (*emptypb.Empty, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
	ListMedications(context.Context, *emptypb.Empty) (*ListMedicationsResponse, error)
	CreateMedication(context.Context, *CreateMedicationRequest) (*MedicationResponse, error)
	DeleteMedication(context.Context, *DeleteMedicationRequest) (*emptypb.Empty, error)
	ListDoseLogs(context.Context, *ListDoseLogsRequest) (*ListDoseLogsResponse, error)
	InsertDoseLog(context.Context, *InsertDoseLogRequest) (*emptypb.Empty, error)
	GetOrCreateProfile(context.Context, *GetOrCreateProfileRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
	ExportReport(context.Context, *ExportReportRequest) (*ExportReportResponse, error)
}

func unary[Req any, Resp any](name string, call func(MedKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MedKeeperServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MedKeeperServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MedKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", MedKeeperServer.Register),
		unary("GetSalt", MedKeeperServer.GetSalt),
		unary("Login", MedKeeperServer.Login),
		unary("Ping", MedKeeperServer.Ping),
		unary("ListMedications", MedKeeperServer.ListMedications),
		unary("CreateMedication", MedKeeperServer.CreateMedication),
		unary("DeleteMedication", MedKeeperServer.DeleteMedication),
		unary("ListDoseLogs", MedKeeperServer.ListDoseLogs),
		unary("InsertDoseLog", MedKeeperServer.InsertDoseLog),
		unary("GetOrCreateProfile", MedKeeperServer.GetOrCreateProfile),
		unary("UpdateProfile", MedKeeperServer.UpdateProfile),
		unary("ExportReport", MedKeeperServer.ExportReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "medkeeper/v1",
}

// RegisterMedKeeperServer attaches srv to s.
func RegisterMedKeeperServer(s grpc.ServiceRegistrar, srv MedKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// PublicMethods need no access token.
var PublicMethods = map[string]struct{}{
	FullMethod("Register"): {},
	FullMethod("GetSalt"):  {},
	FullMethod("Login"):    {},
	FullMethod("Ping"):     {},
}

// MedKeeperClient is a typed stub over a client connection. Calls use the
// JSON codec.
type MedKeeperClient struct {
	cc grpc.ClientConnInterface
}

func NewMedKeeperClient(cc grpc.ClientConnInterface) *MedKeeperClient {
	return &MedKeeperClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MedKeeperClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "Register", in, opts)
}

func (c *MedKeeperClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltResponse](ctx, c.cc, "GetSalt", in, opts)
}

func (c *MedKeeperClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", in, opts)
}

func (c *MedKeeperClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *MedKeeperClient) ListMedications(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListMedicationsResponse, error) {
	return invoke[ListMedicationsResponse](ctx, c.cc, "ListMedications", in, opts)
}

func (c *MedKeeperClient) CreateMedication(ctx context.Context, in *CreateMedicationRequest, opts ...grpc.CallOption) (*MedicationResponse, error) {
	return invoke[MedicationResponse](ctx, c.cc, "CreateMedication", in, opts)
}

func (c *MedKeeperClient) DeleteMedication(ctx context.Context, in *DeleteMedicationRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "DeleteMedication", in, opts)
}

func (c *MedKeeperClient) ListDoseLogs(ctx context.Context, in *ListDoseLogsRequest, opts ...grpc.CallOption) (*ListDoseLogsResponse, error) {
	return invoke[ListDoseLogsResponse](ctx, c.cc, "ListDoseLogs", in, opts)
}

func (c *MedKeeperClient) InsertDoseLog(ctx context.Context, in *InsertDoseLogRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "InsertDoseLog", in, opts)
}

func (c *MedKeeperClient) GetOrCreateProfile(ctx context.Context, in *GetOrCreateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "GetOrCreateProfile", in, opts)
}

func (c *MedKeeperClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "UpdateProfile", in, opts)
}

func (c *MedKeeperClient) ExportReport(ctx context.Context, in *ExportReportRequest, opts ...grpc.CallOption) (*ExportReportResponse, error) {
	return invoke[ExportReportResponse](ctx, c.cc, "ExportReport", in, opts)
}
