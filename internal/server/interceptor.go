package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/metrics"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "x-request-id"

// UnaryInterceptor tags each call with a request id, logs one line per
// call and records its latency.
func UnaryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				requestID = v[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		reqLog := log.With("request_id", requestID, "method", info.FullMethod)
		ctx = logger.WithContext(ctx, reqLog)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		elapsed := time.Since(start)
		metrics.RPCDuration.WithLabelValues(info.FullMethod, code.String()).Observe(elapsed.Seconds())

		if err != nil {
			reqLog.Warn("rpc failed", "code", code.String(), "err", status.Convert(err).Message(), "duration", elapsed)
		} else {
			reqLog.Info("rpc handled", "code", code.String(), "duration", elapsed)
		}
		return resp, err
	}
}
