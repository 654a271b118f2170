/*
Package handler provides HTTP handler functions for the presence-aware user listing.
*/
package handler

import (
	"net/http"

	"pairchat/internal/pkg/auth/jwt"
	"pairchat/internal/pkg/errs"
	"pairchat/internal/pkg/logx"
	"pairchat/internal/pkg/resp"
)

// UserListing is one row of the user directory as shown to a caller.
type UserListing struct {
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

// HandleListUsers returns every known identity other than the caller, each
// flagged with its live presence.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		usernames, err := deps.Users.List(r.Context(), identity.Username)
		if err != nil {
			logx.Error(err, "list_users: directory query failed", "caller", identity.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		listings := make([]UserListing, 0, len(usernames))
		for _, username := range usernames {
			listings = append(listings, UserListing{
				Username: username,
				Online:   deps.Registry.IsOnline(username),
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"users": listings,
		})
	}
}
