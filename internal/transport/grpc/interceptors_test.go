package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type recordingObserver struct {
	method string
	code   string
}

func (r *recordingObserver) ObserveRPC(method, code string, seconds float64) {
	r.method = method
	r.code = code
}

func TestRequestTimeoutInterceptor_AddsDeadlineOnlyWhenMissing(t *testing.T) {
	interceptor := RequestTimeoutInterceptor(time.Minute)
	info := &grpc.UnaryServerInfo{FullMethod: "/x/y"}

	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("expected a deadline")
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor error: %v", err)
	}

	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	want, _ := parent.Deadline()
	_, _ = interceptor(parent, nil, info, func(ctx context.Context, req any) (any, error) {
		if got, _ := ctx.Deadline(); !got.Equal(want) {
			t.Fatalf("deadline = %v, want caller's %v", got, want)
		}
		return nil, nil
	})
}

func TestRequestIDInterceptor_ReusesIncomingID(t *testing.T) {
	interceptor := RequestIDInterceptor()
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDMetadataKey, " req-1 "))

	_, _ = interceptor(ctx, nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		if got := RequestIDFromContext(ctx); got != "req-1" {
			t.Fatalf("request id = %q, want req-1", got)
		}
		return nil, nil
	})

	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		if got := RequestIDFromContext(ctx); len(got) != 36 {
			t.Fatalf("generated request id = %q, want a uuid", got)
		}
		return nil, nil
	})
}

func TestObservabilityInterceptor_RecordsStatusCode(t *testing.T) {
	obs := &recordingObserver{}
	interceptor := ObservabilityInterceptor(obs, nil)

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/bookwise.v1.SchedulingService/GetAppointment"}, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "not found")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %s, want NotFound", status.Code(err))
	}
	if obs.method != "/bookwise.v1.SchedulingService/GetAppointment" || obs.code != "NotFound" {
		t.Fatalf("observed = %+v", obs)
	}

	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/m"}, func(ctx context.Context, req any) (any, error) {
		return nil, errors.New("plain")
	})
	if obs.code != "Unknown" {
		t.Fatalf("plain error code = %q, want Unknown", obs.code)
	}
}

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	b, err := c.Marshal(&AppointmentIDRequest{AppointmentID: 4})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != `{"appointment_id":4}` {
		t.Fatalf("encoded = %s", b)
	}
	var empty Empty
	if err := c.Unmarshal(nil, &empty); err != nil {
		t.Fatalf("Unmarshal empty error: %v", err)
	}
	var req AppointmentIDRequest
	if err := c.Unmarshal([]byte("{"), &req); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
