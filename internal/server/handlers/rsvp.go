package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/rsvp"
)

// maxRSVPBody is well above the largest valid submission.
const maxRSVPBody = 64 << 10

// HandleRSVPSubmit stores a JSON RSVP and schedules its notifications
func HandleRSVPSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRSVPBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteJSON(w, http.StatusBadRequest, errorResponse{
					Error:   "Invalid data",
					Details: map[string]string{"body": "too large"},
				})
				return
			}
			log.Warn().Err(err).Msg("failed to read rsvp body")
			WriteError(w, http.StatusBadRequest, "Invalid data")
			return
		}

		err = s.GetRSVPService().Submit(r.Context(), payload)

		var invalid *rsvp.ValidationError
		switch {
		case err == nil:
			WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
		case errors.As(err, &invalid):
			WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "Invalid data",
				Details: invalid.Details,
			})
		case errors.Is(err, rsvp.ErrStorage):
			log.Error().Err(err).Msg("failed to store rsvp")
			WriteError(w, http.StatusInternalServerError, "Database error")
		default:
			log.Error().Err(err).Msg("failed to process rsvp")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
	}
}
