package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// VacationServiceName is the fully-qualified gRPC service name.
const VacationServiceName = "hr.v1.VacationService"

// VacationServiceServer is the server API of hr.v1.VacationService.
// Requests and responses are google.protobuf.Struct messages.
type VacationServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOwn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAll(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Approve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decline(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(VacationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// methodHandler has the signature grpc.MethodDesc expects for Handler.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func unaryHandler(method string, call unaryCall) methodHandler {
	fullMethod := "/" + VacationServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VacationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VacationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VacationServiceDesc describes hr.v1.VacationService for grpc.Server.RegisterService.
var VacationServiceDesc = grpc.ServiceDesc{
	ServiceName: VacationServiceName,
	HandlerType: (*VacationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler("Login", VacationServiceServer.Login)},
		{MethodName: "ListOwn", Handler: unaryHandler("ListOwn", VacationServiceServer.ListOwn)},
		{MethodName: "ListAll", Handler: unaryHandler("ListAll", VacationServiceServer.ListAll)},
		{MethodName: "Create", Handler: unaryHandler("Create", VacationServiceServer.Create)},
		{MethodName: "Approve", Handler: unaryHandler("Approve", VacationServiceServer.Approve)},
		{MethodName: "Decline", Handler: unaryHandler("Decline", VacationServiceServer.Decline)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterVacationServiceServer registers srv on s.
func RegisterVacationServiceServer(s grpc.ServiceRegistrar, srv VacationServiceServer) {
	s.RegisterService(&VacationServiceDesc, srv)
}

// VacationServiceClient calls hr.v1.VacationService.
type VacationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewVacationServiceClient creates a client over cc.
func NewVacationServiceClient(cc grpc.ClientConnInterface) *VacationServiceClient {
	return &VacationServiceClient{cc: cc}
}

// Call invokes method with in and returns the response message.
func (c *VacationServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+VacationServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
