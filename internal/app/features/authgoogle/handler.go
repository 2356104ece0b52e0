// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/planhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/normalize"
	"github.com/dalemusser/planhub/internal/app/system/roles"
	"github.com/dalemusser/planhub/internal/app/system/status"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler implements sign-in with Google. Accounts are created on first
// successful sign-in and wait in pending status until an admin decides.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
	Users      *userstore.Store
	States     *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Allow-listed emails become active admins on first sign-in;
	// SuperAdminEmail becomes an active superadmin.
	Allow           authz.AllowList
	SuperAdminEmail string
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	allow authz.AllowList,
	superAdminEmail string,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:             logger,
		SessionMgr:      sessionMgr,
		Audit:           audit,
		Users:           userstore.New(db),
		States:          oauthstate.New(db),
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		RedirectURL:     baseURL + "/auth/google/callback",
		Allow:           allow,
		SuperAdminEmail: normalize.Email(superAdminEmail),
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured reports whether Google OAuth credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google and redirects to Google's consent
// screen with a one-time state nonce.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.States.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: it validates the
// state nonce, exchanges the code, syncs the Google identity to a local
// user record, and establishes the session.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.States.Consume(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	user, created, err := h.syncUser(ctxTimeout, googleUser)
	if err != nil {
		h.Log.Error("failed to sync Google identity", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	if !status.CanSignIn(user.Status) {
		h.Log.Info("sign-in blocked",
			zap.String("user_id", user.ID.Hex()),
			zap.String("status", user.Status))
		if h.Audit != nil {
			h.Audit.LoginBlocked(ctx, r, user.ID, user.Email, user.Status)
		}
		http.Redirect(w, r, "/login?error=account_blocked", http.StatusSeeOther)
		return
	}

	if err := h.Users.TouchLogin(ctxTimeout, user.ID, googleUser.Name, googleUser.Picture); err != nil {
		h.Log.Warn("failed to record login", zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}

	// A stale or tampered cookie must not block sign-in; SignIn issues
	// a fresh session over it.
	if _, err := h.SessionMgr.GetSession(r); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, issuing fresh session",
				zap.Error(err), zap.String("user_id", user.ID.Hex()))
		} else {
			h.Log.Error("session store error during login",
				zap.Error(err), zap.String("user_id", user.ID.Hex()))
		}
	}

	sessionUser := &auth.SessionUser{
		ID:     user.ID.Hex(),
		Name:   user.FullName,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}
	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	if h.Audit != nil {
		if created {
			h.Audit.LoginUserCreated(ctx, r, user.ID, user.Email)
		}
		h.Audit.LoginSuccess(ctx, r, user.ID, user.Email)
	}

	h.Log.Info("user signed in via Google",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

// syncUser maps a Google identity onto a local user record: match by
// Google ID, then by email (linking the Google ID), otherwise create a
// fresh pending record. Allow-listed emails skip the approval queue.
func (h *Handler) syncUser(ctx context.Context, g *googleUserInfo) (*models.User, bool, error) {
	u, err := h.Users.GetByGoogleID(ctx, g.ID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	u, err = h.Users.GetByEmail(ctx, g.Email)
	if err == nil {
		if linkErr := h.Users.LinkGoogleID(ctx, u.ID, g.ID); linkErr != nil {
			h.Log.Warn("failed to link Google id",
				zap.Error(linkErr), zap.String("user_id", u.ID.Hex()))
		} else {
			u.GoogleID = g.ID
		}
		return u, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	fresh := models.User{
		GoogleID:  g.ID,
		FullName:  g.Name,
		Email:     g.Email,
		AvatarURL: g.Picture,
	}
	email := normalize.Email(g.Email)
	switch {
	case h.SuperAdminEmail != "" && email == h.SuperAdminEmail:
		fresh.Role = roles.SuperAdmin
		fresh.Status = status.Active
	case h.Allow.Contains(email):
		fresh.Role = roles.Admin
		fresh.Status = status.Active
	}

	created, err := h.Users.Create(ctx, fresh)
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

// googleUserInfo is the subset of Google's userinfo response we use.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
