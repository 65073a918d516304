package controllers

import (
	"net/http"

	"github.com/haroldnikoue/storefront-backend/api/middleware"
	"github.com/haroldnikoue/storefront-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func StorefrontPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "storefront", "status": "ok"}
		if sessionID, ok := middleware.SessionIDFrom(r.Context()); ok {
			payload["session_id"] = sessionID
		}
		responses.WriteSuccess(w, payload)
	}
}
