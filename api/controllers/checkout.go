package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/api/middleware"
	"github.com/haroldnikoue/storefront-backend/api/responses"
	"github.com/haroldnikoue/storefront-backend/api/validators"
	draftsvc "github.com/haroldnikoue/storefront-backend/internal/drafts"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

func identityFrom(r *http.Request) (*uuid.UUID, *string) {
	var customerID *uuid.UUID
	var sessionID *string
	if id, ok := middleware.CustomerIDFrom(r.Context()); ok {
		customerID = &id
	}
	if sid, ok := middleware.SessionIDFrom(r.Context()); ok {
		sessionID = &sid
	}
	return customerID, sessionID
}

// DraftGet returns the caller's checkout draft, or null when none exists.
func DraftGet(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, sessionID := identityFrom(r)

		draft, err := svc.GetDraft(r.Context(), customerID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

type saveDraftRequest struct {
	Data types.DraftData `json:"data" validate:"required"`
}

// DraftSave merges the submitted partial form state into the caller's
// draft, migrating a session draft when the caller just authenticated.
func DraftSave(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saveDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, sessionID := identityFrom(r)
		draft, err := svc.SaveDraft(r.Context(), draftsvc.SaveDraftInput{
			CustomerID: customerID,
			SessionID:  sessionID,
			Data:       payload.Data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DraftDelete removes the caller's draft by the most specific identifier.
func DraftDelete(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := draftsvc.DeleteDraftInput{}
		if raw := r.URL.Query().Get("draftId"); raw != "" {
			draftID, err := validators.ParsePathUUID("draftId", raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.DraftID = &draftID
		}
		input.CustomerID, input.SessionID = identityFrom(r)

		if err := svc.DeleteDraft(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// DraftsCleanup runs the anonymous draft sweep on demand.
func DraftsCleanup(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysOld, err := validators.ParseQueryInt(r, "daysOld", 0, 0, 3650)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := svc.CleanupOldDrafts(r.Context(), daysOld)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"removed": removed})
	}
}
