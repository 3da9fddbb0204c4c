// Package proto defines the pocket gRPC service by hand. Every method takes
// and returns a google.protobuf.BytesValue whose payload is the JSON encoding
// of the request or response struct, so no generated code is needed.
package proto

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "pocket.v1.PocketService"

const (
	MethodLogin        = "/" + ServiceName + "/Login"
	MethodLogout       = "/" + ServiceName + "/Logout"
	MethodInvalidate   = "/" + ServiceName + "/Invalidate"
	MethodSendData     = "/" + ServiceName + "/SendData"
	MethodChangePasswd = "/" + ServiceName + "/ChangePasswd"
	MethodCopyGroup    = "/" + ServiceName + "/CopyGroup"
	MethodCopyField    = "/" + ServiceName + "/CopyField"
	MethodExportData   = "/" + ServiceName + "/ExportData"
	MethodImportData   = "/" + ServiceName + "/ImportData"
	MethodHeartbeat    = "/" + ServiceName + "/Heartbeat"
)

func encode(v any) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return wrapperspb.Bytes(b), nil
}

func decode(in *wrapperspb.BytesValue, v any) error {
	if len(in.GetValue()) == 0 {
		return nil
	}
	if err := json.Unmarshal(in.GetValue(), v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

type PocketServiceClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Logout(ctx context.Context, in *DeviceRequest, opts ...grpc.CallOption) (*Empty, error)
	Invalidate(ctx context.Context, in *DeviceRequest, opts ...grpc.CallOption) (*Empty, error)
	SendData(ctx context.Context, in *SendDataRequest, opts ...grpc.CallOption) (*SendDataResponse, error)
	ChangePasswd(ctx context.Context, in *ChangePasswdRequest, opts ...grpc.CallOption) (*ChangePasswdResponse, error)
	CopyGroup(ctx context.Context, in *CopyRequest, opts ...grpc.CallOption) (*Empty, error)
	CopyField(ctx context.Context, in *CopyRequest, opts ...grpc.CallOption) (*Empty, error)
	ExportData(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ExportDataResponse, error)
	ImportData(ctx context.Context, in *ImportDataRequest, opts ...grpc.CallOption) (*Empty, error)
	Heartbeat(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*HeartbeatResponse, error)
}

type pocketServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPocketServiceClient(cc grpc.ClientConnInterface) PocketServiceClient {
	return &pocketServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	payload, err := encode(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out := new(wrapperspb.BytesValue)
	if err := cc.Invoke(ctx, method, payload, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := decode(out, resp); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (c *pocketServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *pocketServiceClient) Logout(ctx context.Context, in *DeviceRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[DeviceRequest, Empty](ctx, c.cc, MethodLogout, in, opts...)
}

func (c *pocketServiceClient) Invalidate(ctx context.Context, in *DeviceRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[DeviceRequest, Empty](ctx, c.cc, MethodInvalidate, in, opts...)
}

func (c *pocketServiceClient) SendData(ctx context.Context, in *SendDataRequest, opts ...grpc.CallOption) (*SendDataResponse, error) {
	return invoke[SendDataRequest, SendDataResponse](ctx, c.cc, MethodSendData, in, opts...)
}

func (c *pocketServiceClient) ChangePasswd(ctx context.Context, in *ChangePasswdRequest, opts ...grpc.CallOption) (*ChangePasswdResponse, error) {
	return invoke[ChangePasswdRequest, ChangePasswdResponse](ctx, c.cc, MethodChangePasswd, in, opts...)
}

func (c *pocketServiceClient) CopyGroup(ctx context.Context, in *CopyRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[CopyRequest, Empty](ctx, c.cc, MethodCopyGroup, in, opts...)
}

func (c *pocketServiceClient) CopyField(ctx context.Context, in *CopyRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[CopyRequest, Empty](ctx, c.cc, MethodCopyField, in, opts...)
}

func (c *pocketServiceClient) ExportData(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ExportDataResponse, error) {
	return invoke[Empty, ExportDataResponse](ctx, c.cc, MethodExportData, in, opts...)
}

func (c *pocketServiceClient) ImportData(ctx context.Context, in *ImportDataRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[ImportDataRequest, Empty](ctx, c.cc, MethodImportData, in, opts...)
}

func (c *pocketServiceClient) Heartbeat(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*HeartbeatResponse, error) {
	return invoke[Empty, HeartbeatResponse](ctx, c.cc, MethodHeartbeat, in, opts...)
}

// PocketServiceServer is implemented by the remote store. The client only
// uses it in tests.
type PocketServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *DeviceRequest) (*Empty, error)
	Invalidate(context.Context, *DeviceRequest) (*Empty, error)
	SendData(context.Context, *SendDataRequest) (*SendDataResponse, error)
	ChangePasswd(context.Context, *ChangePasswdRequest) (*ChangePasswdResponse, error)
	CopyGroup(context.Context, *CopyRequest) (*Empty, error)
	CopyField(context.Context, *CopyRequest) (*Empty, error)
	ExportData(context.Context, *Empty) (*ExportDataResponse, error)
	ImportData(context.Context, *ImportDataRequest) (*Empty, error)
	Heartbeat(context.Context, *Empty) (*HeartbeatResponse, error)
}

// UnimplementedPocketServiceServer answers every method with codes.Unimplemented.
type UnimplementedPocketServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedPocketServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedPocketServiceServer) Logout(context.Context, *DeviceRequest) (*Empty, error) {
	return nil, unimplemented("Logout")
}
func (UnimplementedPocketServiceServer) Invalidate(context.Context, *DeviceRequest) (*Empty, error) {
	return nil, unimplemented("Invalidate")
}
func (UnimplementedPocketServiceServer) SendData(context.Context, *SendDataRequest) (*SendDataResponse, error) {
	return nil, unimplemented("SendData")
}
func (UnimplementedPocketServiceServer) ChangePasswd(context.Context, *ChangePasswdRequest) (*ChangePasswdResponse, error) {
	return nil, unimplemented("ChangePasswd")
}
func (UnimplementedPocketServiceServer) CopyGroup(context.Context, *CopyRequest) (*Empty, error) {
	return nil, unimplemented("CopyGroup")
}
func (UnimplementedPocketServiceServer) CopyField(context.Context, *CopyRequest) (*Empty, error) {
	return nil, unimplemented("CopyField")
}
func (UnimplementedPocketServiceServer) ExportData(context.Context, *Empty) (*ExportDataResponse, error) {
	return nil, unimplemented("ExportData")
}
func (UnimplementedPocketServiceServer) ImportData(context.Context, *ImportDataRequest) (*Empty, error) {
	return nil, unimplemented("ImportData")
}
func (UnimplementedPocketServiceServer) Heartbeat(context.Context, *Empty) (*HeartbeatResponse, error) {
	return nil, unimplemented("Heartbeat")
}

func handler[Req, Resp any](fullMethod string, call func(PocketServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		req := new(Req)
		if err := decode(in, req); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		run := func(ctx context.Context, r any) (any, error) {
			resp, err := call(srv.(PocketServiceServer), ctx, r.(*Req))
			if err != nil {
				return nil, err
			}
			out, err := encode(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}
		if interceptor == nil {
			return run(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, run)
	}
}

var PocketServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PocketServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: handler(MethodLogin, PocketServiceServer.Login)},
		{MethodName: "Logout", Handler: handler(MethodLogout, PocketServiceServer.Logout)},
		{MethodName: "Invalidate", Handler: handler(MethodInvalidate, PocketServiceServer.Invalidate)},
		{MethodName: "SendData", Handler: handler(MethodSendData, PocketServiceServer.SendData)},
		{MethodName: "ChangePasswd", Handler: handler(MethodChangePasswd, PocketServiceServer.ChangePasswd)},
		{MethodName: "CopyGroup", Handler: handler(MethodCopyGroup, PocketServiceServer.CopyGroup)},
		{MethodName: "CopyField", Handler: handler(MethodCopyField, PocketServiceServer.CopyField)},
		{MethodName: "ExportData", Handler: handler(MethodExportData, PocketServiceServer.ExportData)},
		{MethodName: "ImportData", Handler: handler(MethodImportData, PocketServiceServer.ImportData)},
		{MethodName: "Heartbeat", Handler: handler(MethodHeartbeat, PocketServiceServer.Heartbeat)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pocket/v1/pocket.proto",
}

func RegisterPocketServiceServer(s grpc.ServiceRegistrar, srv PocketServiceServer) {
	s.RegisterService(&PocketServiceDesc, srv)
}
