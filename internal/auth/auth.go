package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"stockkeeper/internal/commons"
	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

// Claims is the token payload. Subject holds the user id.
type Claims struct {
	Role     domain.Role `json:"role"`
	SellerID int64       `json:"sellerId,omitempty"`
	jwt.StandardClaims
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller resolved by Middleware. Requests without one
// get the zero Caller, which fails every capability check.
func CallerFrom(ctx context.Context) domain.Caller {
	if c, ok := ctx.Value(callerKey{}).(domain.Caller); ok {
		return c
	}
	return domain.Caller{}
}

// IssueToken signs an HS256 token for caller valid for ttl.
func IssueToken(secret string, caller domain.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:     caller.Role,
		SellerID: caller.SellerID,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(caller.UserID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and maps the claims to a Caller.
func ParseToken(secret, raw string) (domain.Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Caller{}, err
	}
	if !token.Valid {
		return domain.Caller{}, fmt.Errorf("invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Caller{}, fmt.Errorf("invalid subject %q", claims.Subject)
	}

	switch claims.Role {
	case domain.RoleAdmin:
		return domain.AdminCaller(userID), nil
	case domain.RoleSeller:
		sellerID := claims.SellerID
		if sellerID == 0 {
			sellerID = userID
		}
		return domain.Caller{UserID: userID, Role: domain.RoleSeller, SellerID: sellerID}, nil
	default:
		return domain.Caller{}, fmt.Errorf("unknown role %q", claims.Role)
	}
}

// Middleware resolves the bearer token into a domain.Caller. Credential
// checks happen upstream; this only trusts tokens signed with secret.
func Middleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw := strings.TrimPrefix(header, "Bearer ")
			if header == "" || raw == header {
				writeUnauthorized(w, r, logger, "missing bearer token")
				return
			}

			caller, err := ParseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				logger.Warn("rejected token",
					zap.String("traceId", commons.TraceID(r.Context())),
					zap.Error(err),
				)
				writeUnauthorized(w, r, logger, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, logger *zap.Logger, message string) {
	commons.WriteJSON(w, logger, http.StatusUnauthorized, commons.ErrorResponse{
		TraceID:   commons.TraceID(r.Context()),
		Status:    http.StatusUnauthorized,
		Code:      "UNAUTHORIZED",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// RequireAdmin rejects non-admin callers before the handler runs.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !CallerFrom(r.Context()).IsAdmin() {
				commons.WriteError(w, r, logger, apperrors.NewForbiddenError("admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
