package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	svcErr "github.com/oggyb/vidhub/internal/errors"
	"github.com/oggyb/vidhub/internal/response"
)

// Handler serves one unary method. Requests and responses travel as
// google.protobuf.Struct.
type Handler func(ctx context.Context, req *structpb.Struct) (*response.Result, error)

// Method binds a handler to its RPC name.
type Method struct {
	Name    string
	Handler Handler
}

// NewServiceDesc builds the descriptor of a Struct-in/Struct-out service.
// Core errors are mapped to gRPC status codes here.
//
// Example:
//
//	desc := server.NewServiceDesc("vidhub.engagement.Engagement",
//		server.Method{Name: "ToggleLike", Handler: h.toggleLike})
//	s.RegisterService(desc, h)
func NewServiceDesc(serviceName string, methods ...Method) *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*any)(nil),
		Streams:     []grpc.StreamDesc{},
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.Name,
			Handler:    unary("/"+serviceName+"/"+m.Name, m.Handler),
		})
	}
	return desc
}

func unary(fullMethod string, h Handler) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := func(ctx context.Context, req any) (any, error) {
			res, err := h(ctx, req.(*structpb.Struct))
			if err != nil {
				return nil, svcErr.Map(err)
			}
			out, err := res.Struct()
			if err != nil {
				return nil, status.Error(codes.Internal, "failed to encode response")
			}
			return out, nil
		}

		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, call)
	}
}
