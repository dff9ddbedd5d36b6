package navfilesv1

import (
	"context"

	"github.com/louisbranch/navfiles/internal/platform/grpc/jsoncodec"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified service name, also used as its
// health check key.
const ServiceName = "navfiles.v1.NavigationFilesService"

const (
	listMapsMethod         = "/" + ServiceName + "/ListMaps"
	getMapMethod           = "/" + ServiceName + "/GetMap"
	uploadMapMethod        = "/" + ServiceName + "/UploadMap"
	listMapRevisionsMethod = "/" + ServiceName + "/ListMapRevisions"
)

// NavigationFilesServiceServer is the server API for the map file service.
type NavigationFilesServiceServer interface {
	ListMaps(context.Context, *ListMapsRequest) (*ListMapsResponse, error)
	GetMap(context.Context, *GetMapRequest) (*GetMapResponse, error)
	UploadMap(context.Context, *UploadMapRequest) (*UploadMapResponse, error)
	ListMapRevisions(context.Context, *ListMapRevisionsRequest) (*ListMapRevisionsResponse, error)
}

// UnimplementedNavigationFilesServiceServer can be embedded for forward
// compatibility.
type UnimplementedNavigationFilesServiceServer struct{}

func (UnimplementedNavigationFilesServiceServer) ListMaps(context.Context, *ListMapsRequest) (*ListMapsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMaps not implemented")
}

func (UnimplementedNavigationFilesServiceServer) GetMap(context.Context, *GetMapRequest) (*GetMapResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMap not implemented")
}

func (UnimplementedNavigationFilesServiceServer) UploadMap(context.Context, *UploadMapRequest) (*UploadMapResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadMap not implemented")
}

func (UnimplementedNavigationFilesServiceServer) ListMapRevisions(context.Context, *ListMapRevisionsRequest) (*ListMapRevisionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMapRevisions not implemented")
}

// RegisterNavigationFilesServiceServer registers srv on s.
func RegisterNavigationFilesServiceServer(s grpc.ServiceRegistrar, srv NavigationFilesServiceServer) {
	s.RegisterService(&NavigationFilesService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(NavigationFilesServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(NavigationFilesServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// NavigationFilesService_ServiceDesc describes the service for grpc.Server.
var NavigationFilesService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NavigationFilesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListMaps",
			Handler: unaryHandler(listMapsMethod, func(s NavigationFilesServiceServer, ctx context.Context, in *ListMapsRequest) (*ListMapsResponse, error) {
				return s.ListMaps(ctx, in)
			}),
		},
		{
			MethodName: "GetMap",
			Handler: unaryHandler(getMapMethod, func(s NavigationFilesServiceServer, ctx context.Context, in *GetMapRequest) (*GetMapResponse, error) {
				return s.GetMap(ctx, in)
			}),
		},
		{
			MethodName: "UploadMap",
			Handler: unaryHandler(uploadMapMethod, func(s NavigationFilesServiceServer, ctx context.Context, in *UploadMapRequest) (*UploadMapResponse, error) {
				return s.UploadMap(ctx, in)
			}),
		},
		{
			MethodName: "ListMapRevisions",
			Handler: unaryHandler(listMapRevisionsMethod, func(s NavigationFilesServiceServer, ctx context.Context, in *ListMapRevisionsRequest) (*ListMapRevisionsResponse, error) {
				return s.ListMapRevisions(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "navfiles/v1/service.go",
}

// NavigationFilesServiceClient is the client API for the map file service.
type NavigationFilesServiceClient interface {
	ListMaps(ctx context.Context, in *ListMapsRequest, opts ...grpc.CallOption) (*ListMapsResponse, error)
	GetMap(ctx context.Context, in *GetMapRequest, opts ...grpc.CallOption) (*GetMapResponse, error)
	UploadMap(ctx context.Context, in *UploadMapRequest, opts ...grpc.CallOption) (*UploadMapResponse, error)
	ListMapRevisions(ctx context.Context, in *ListMapRevisionsRequest, opts ...grpc.CallOption) (*ListMapRevisionsResponse, error)
}

type navigationFilesServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNavigationFilesServiceClient returns a client that sends requests with
// the JSON codec.
func NewNavigationFilesServiceClient(cc grpc.ClientConnInterface) NavigationFilesServiceClient {
	return &navigationFilesServiceClient{cc: cc}
}

func (c *navigationFilesServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(jsoncodec.Name)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}

func (c *navigationFilesServiceClient) ListMaps(ctx context.Context, in *ListMapsRequest, opts ...grpc.CallOption) (*ListMapsResponse, error) {
	out := new(ListMapsResponse)
	if err := c.invoke(ctx, listMapsMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *navigationFilesServiceClient) GetMap(ctx context.Context, in *GetMapRequest, opts ...grpc.CallOption) (*GetMapResponse, error) {
	out := new(GetMapResponse)
	if err := c.invoke(ctx, getMapMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *navigationFilesServiceClient) UploadMap(ctx context.Context, in *UploadMapRequest, opts ...grpc.CallOption) (*UploadMapResponse, error) {
	out := new(UploadMapResponse)
	if err := c.invoke(ctx, uploadMapMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *navigationFilesServiceClient) ListMapRevisions(ctx context.Context, in *ListMapRevisionsRequest, opts ...grpc.CallOption) (*ListMapRevisionsResponse, error) {
	out := new(ListMapRevisionsResponse)
	if err := c.invoke(ctx, listMapRevisionsMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
