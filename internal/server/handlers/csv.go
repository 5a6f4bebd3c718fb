package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/database"
)

var csvHeader = []string{
	"Nombre", "Email", "Asiste", "Adultos", "Niños", "Restricciones alimentarias",
	"Hasta las 22h", "Canción", "Comentarios", "Idioma", "Fecha",
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// formatRSVPForCSV converts a record to one CSV row. Newlines in free text
// become spaces so every record stays on one spreadsheet row.
func formatRSVPForCSV(r database.RSVP) []string {
	staying := "-"
	if r.StayingUntilNight != nil {
		staying = yesNo(*r.StayingUntilNight)
	}

	return []string{
		textCell(r.Name),
		safeCell(r.Email),
		yesNo(r.Attending),
		strconv.Itoa(r.AdultsCount),
		strconv.Itoa(r.KidsCount),
		textCell(r.Dietary()),
		staying,
		textCell(r.Song()),
		textCell(r.Comment()),
		r.Locale,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textCell prepares guest-entered free text for the export.
func textCell(s string) string {
	return safeCell(oneLine(s))
}

// safeCell quotes a value a spreadsheet would otherwise evaluate as a formula.
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// writeCSVHeaders sets HTTP headers, the UTF-8 BOM Excel needs, and the header row
func writeCSVHeaders(w http.ResponseWriter, cw *csv.Writer) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=rsvps-boda.csv")
	w.Header().Set("Cache-Control", "no-store")

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	return cw.Write(csvHeader)
}

// HandleExportCSV downloads every RSVP, oldest first
func HandleExportCSV(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.GetDB().ListRSVPs(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to load rsvps for export")
			http.Error(w, "Failed to load RSVPs", http.StatusInternalServerError)
			return
		}

		cw := csv.NewWriter(w)
		if err := writeCSVHeaders(w, cw); err != nil {
			log.Warn().Err(err).Msg("failed to write csv header")
			return
		}
		for _, rec := range records {
			if err := cw.Write(formatRSVPForCSV(rec)); err != nil {
				log.Warn().Err(err).Msg("failed to write csv row")
				return
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			log.Warn().Err(err).Msg("failed to flush csv")
		}
	}
}
