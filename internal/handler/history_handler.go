/*
Package handler provides the HTTP handler function for chat history replay.
*/
package handler

import (
	"net/http"

	"pairchat/internal/app/chat"
	"pairchat/internal/pkg/auth/jwt"
	"pairchat/internal/pkg/errs"
	"pairchat/internal/pkg/logx"
	"pairchat/internal/pkg/resp"
)

// HandleGetHistory returns the full ordered message history between the
// caller and the peer named in the query string, oldest first. A pair that
// never exchanged messages gets an empty list.
func HandleGetHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		peer := r.URL.Query().Get("peer")
		if !chat.ValidIdentity(peer) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.History.Between(r.Context(), identity.Username, peer)
		if err != nil {
			logx.Error(err, "history: query failed", "caller", identity.Username, "peer", peer)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		entries := make([]chat.HistoryEntry, 0, len(messages))
		for _, msg := range messages {
			entries = append(entries, msg.ViewFor(identity.Username))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": entries,
		})
	}
}
