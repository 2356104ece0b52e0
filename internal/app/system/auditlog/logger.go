// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/planhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds activity logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, first sign-in).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin events (approvals, template/category CRUD).
	Admin string
	// Content controls logging for project/campaign/task/asset events.
	Content string
}

// Logger provides convenience methods for recording activity events.
// It writes to MongoDB (via audit.Store) and to structured logs (via zap),
// as configured per category.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new activity Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request, preferring
// reverse-proxy headers over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("activity", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ProjectID != nil {
		fields = append(fields, zap.String("project_id", event.ProjectID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("activity event", fields...)
	} else {
		l.zapLog.Warn("activity event", fields...)
	}
}

// Log records an activity event based on configuration.
// If the logger is nil, this is a no-op (allows tests to pass a nil logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryContent:
		setting = l.config.Content
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			// The activity log is a sink; losing an entry must not fail
			// the request that produced it.
			l.zapLog.Error("failed to persist activity event",
				zap.String("event_type", event.EventType),
				zap.Error(err))
		}
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Auth events                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoginSuccess records a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginUserCreated records a first sign-in that created a pending user.
func (l *Logger) LoginUserCreated(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginUserCreated,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginBlocked records a sign-in refused because of the user's status.
func (l *Logger) LoginBlocked(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, userStatus string) {
	eventType := audit.EventLoginFailedUserDeactivated
	if userStatus == "rejected" {
		eventType = audit.EventLoginFailedUserRejected
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "status " + userStatus,
		Details:       map[string]string{"email": email},
	})
}

// Logout records a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &userID,
		IP:        clientIP(r),
		Success:   true,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin events                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// UserDecision records an approve/reject decision on a pending user.
func (l *Logger) UserDecision(ctx context.Context, r *http.Request, actorID, targetID primitive.ObjectID, approved bool) {
	eventType := audit.EventUserApproved
	if !approved {
		eventType = audit.EventUserRejected
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		UserID:    &targetID,
		IP:        clientIP(r),
		Success:   true,
	})
}

// AdminEvent records a template/category admin action.
func (l *Logger) AdminEvent(ctx context.Context, r *http.Request, eventType string, actorID, targetID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		TargetID:  &targetID,
		IP:        clientIP(r),
		Success:   true,
		Details:   details,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Content events                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ContentEvent records a project/campaign/task/asset mutation.
func (l *Logger) ContentEvent(ctx context.Context, r *http.Request, eventType string, actorID, projectID primitive.ObjectID, targetID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: eventType,
		ActorID:   &actorID,
		ProjectID: &projectID,
		TargetID:  targetID,
		IP:        clientIP(r),
		Success:   true,
		Details:   details,
	})
}
