package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"knitting-catalog-service/internal/auth"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenDecoder turns a bearer token into the id of the user it belongs to.
type TokenDecoder interface {
	Decode(token string) (uuid.UUID, error)
}

type contextKeyUserID struct{}

// UserIDFromContext returns the authenticated user, if RequireAuth ran.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKeyUserID{}).(uuid.UUID)
	return id, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// RequireAuth rejects requests without a valid bearer token. Rejected
// requests never reach the next handler.
func RequireAuth(decoder TokenDecoder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", middleware.GetReqID(ctx))
				writeAuthError(w, "Missing or invalid Authorization header")
				return
			}

			userID, err := decoder.Decode(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", middleware.GetReqID(ctx))
				if errors.Is(err, auth.ErrExpiredToken) {
					writeAuthError(w, "Token expired")
				} else {
					writeAuthError(w, "Invalid token")
				}
				return
			}

			ctx = context.WithValue(ctx, contextKeyUserID{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UnaryAuthInterceptor applies the same bearer token check to gRPC calls,
// reading the token from the "authorization" metadata key. Health checks
// are let through so probes work without credentials.
func UnaryAuthInterceptor(decoder TokenDecoder, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			logger.WarnContext(ctx, "unauthorized gRPC call - missing token", "method", info.FullMethod)
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		token, ok := strings.CutPrefix(values[0], "Bearer ")
		if !ok || token == "" {
			logger.WarnContext(ctx, "unauthorized gRPC call - missing token", "method", info.FullMethod)
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}

		userID, err := decoder.Decode(token)
		if err != nil {
			logger.WarnContext(ctx, "unauthorized gRPC call - invalid token",
				"method", info.FullMethod,
				"error", err)
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(context.WithValue(ctx, contextKeyUserID{}, userID), req)
	}
}
