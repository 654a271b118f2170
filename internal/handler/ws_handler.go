/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
resolving the connection's identity from its JWT, upgrading the HTTP connection to
WebSocket, and initiating the client lifecycle.
*/
package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"pairchat/internal/app/chat"
	"pairchat/internal/pkg/auth/jwt"
	"pairchat/internal/pkg/errs"
	"pairchat/internal/pkg/limiter"
	"pairchat/internal/pkg/logx"
	"pairchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// An unauthenticated request is refused before any presence state is touched.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		identity := resolveIdentity(r, deps.Config.JWTSecret)
		if identity == "" {
			logx.Warn("WebSocket connection rejected: No valid identity token.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		logx.Info("Attempting to upgrade connection", "identity", identity)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Registry, deps.Sender, conn, identity)

		deps.Registry.Register(client)

		go client.WritePump()

		logx.Info("WebSocket connection established and client registered", "identity", identity)

		client.ReadPump()
	}
}

// resolveIdentity extracts the identity from the request's JWT. Browsers
// cannot set headers on WebSocket upgrades, so the token also travels in the
// "token" query parameter; a Bearer Authorization header wins when both are
// present.
func resolveIdentity(r *http.Request, secret string) string {
	tokenString := ""

	authHeader := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		tokenString = after
	}

	if tokenString == "" {
		tokenString = r.URL.Query().Get("token")
	}

	if tokenString == "" {
		return ""
	}

	payload, err := jwt.ParseToken(tokenString, secret)
	if err != nil {
		logx.Warn("Invalid identity token on WebSocket upgrade", "error", err)
		return ""
	}

	if !chat.ValidIdentity(payload.Username) {
		return ""
	}

	return payload.Username
}
