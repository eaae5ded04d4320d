package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// unary builds a MethodDesc for a handler taking and returning plain message
// structs, routing through the server's interceptor chain.
func unary[S any, Req any, Resp any](service, method string, call func(srv S, ctx context.Context, req *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

const (
	SchedulingServiceName = "bookwise.v1.SchedulingService"
	ProviderServiceName   = "bookwise.v1.ProviderService"
	ReviewServiceName     = "bookwise.v1.ReviewService"
)

type SchedulingServiceServer interface {
	CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error)
	ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	GetAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
	ListMyAppointments(ctx context.Context, req *Empty) (*ListAppointmentsResponse, error)
	ListAppointmentTypes(ctx context.Context, req *Empty) (*ListAppointmentTypesResponse, error)
	CancelAppointment(ctx context.Context, req *AppointmentIDRequest) (*Empty, error)
	ConfirmAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
	DeclineAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
}

var SchedulingServiceDesc = grpc.ServiceDesc{
	ServiceName: SchedulingServiceName,
	HandlerType: (*SchedulingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SchedulingServiceName, "CreateAppointment", SchedulingServiceServer.CreateAppointment),
		unary(SchedulingServiceName, "ListAppointments", SchedulingServiceServer.ListAppointments),
		unary(SchedulingServiceName, "GetAppointment", SchedulingServiceServer.GetAppointment),
		unary(SchedulingServiceName, "ListMyAppointments", SchedulingServiceServer.ListMyAppointments),
		unary(SchedulingServiceName, "ListAppointmentTypes", SchedulingServiceServer.ListAppointmentTypes),
		unary(SchedulingServiceName, "CancelAppointment", SchedulingServiceServer.CancelAppointment),
		unary(SchedulingServiceName, "ConfirmAppointment", SchedulingServiceServer.ConfirmAppointment),
		unary(SchedulingServiceName, "DeclineAppointment", SchedulingServiceServer.DeclineAppointment),
		unary(SchedulingServiceName, "CompleteAppointment", SchedulingServiceServer.CompleteAppointment),
	},
	Metadata: "bookwise/v1/scheduling",
}

type ProviderServiceServer interface {
	GetProvider(ctx context.Context, req *GetProviderRequest) (*ProviderResponse, error)
	ListProviders(ctx context.Context, req *ListProvidersRequest) (*ListProvidersResponse, error)
	UpdateAvailability(ctx context.Context, req *UpdateAvailabilityRequest) (*UpdateAvailabilityResponse, error)
	AddService(ctx context.Context, req *AddServiceRequest) (*ServiceResponse, error)
	DeleteService(ctx context.Context, req *DeleteServiceRequest) (*Empty, error)
}

var ProviderServiceDesc = grpc.ServiceDesc{
	ServiceName: ProviderServiceName,
	HandlerType: (*ProviderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProviderServiceName, "GetProvider", ProviderServiceServer.GetProvider),
		unary(ProviderServiceName, "ListProviders", ProviderServiceServer.ListProviders),
		unary(ProviderServiceName, "UpdateAvailability", ProviderServiceServer.UpdateAvailability),
		unary(ProviderServiceName, "AddService", ProviderServiceServer.AddService),
		unary(ProviderServiceName, "DeleteService", ProviderServiceServer.DeleteService),
	},
	Metadata: "bookwise/v1/providers",
}

type ReviewServiceServer interface {
	SubmitReview(ctx context.Context, req *SubmitReviewRequest) (*ReviewResponse, error)
	CanReview(ctx context.Context, req *AppointmentIDRequest) (*CanReviewResponse, error)
	ListReceivedReviews(ctx context.Context, req *UserIDRequest) (*ListReviewsResponse, error)
	ListWrittenReviews(ctx context.Context, req *Empty) (*ListReviewsResponse, error)
	GetRating(ctx context.Context, req *UserIDRequest) (*RatingResponse, error)
}

var ReviewServiceDesc = grpc.ServiceDesc{
	ServiceName: ReviewServiceName,
	HandlerType: (*ReviewServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ReviewServiceName, "SubmitReview", ReviewServiceServer.SubmitReview),
		unary(ReviewServiceName, "CanReview", ReviewServiceServer.CanReview),
		unary(ReviewServiceName, "ListReceivedReviews", ReviewServiceServer.ListReceivedReviews),
		unary(ReviewServiceName, "ListWrittenReviews", ReviewServiceServer.ListWrittenReviews),
		unary(ReviewServiceName, "GetRating", ReviewServiceServer.GetRating),
	},
	Metadata: "bookwise/v1/reviews",
}

func RegisterSchedulingServiceServer(s grpc.ServiceRegistrar, srv SchedulingServiceServer) {
	s.RegisterService(&SchedulingServiceDesc, srv)
}

func RegisterProviderServiceServer(s grpc.ServiceRegistrar, srv ProviderServiceServer) {
	s.RegisterService(&ProviderServiceDesc, srv)
}

func RegisterReviewServiceServer(s grpc.ServiceRegistrar, srv ReviewServiceServer) {
	s.RegisterService(&ReviewServiceDesc, srv)
}
