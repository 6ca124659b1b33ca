package normalizer

import (
	"bytes"
	"odonto-service/internal/app/models"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

var busyEnvelopeKeys = []string{"busy", "ocupados", "data", "events", "turnos", "items", "rows"}

// NormalizeBusy reads the availability webhook answer into busy intervals.
// Besides the turno envelopes it understands a calendar free/busy answer
// ({"calendars": {"<id>": {"busy": [...]}}}).
func NormalizeBusy(body []byte, loc *time.Location, defaultMinutes int) ([]models.TimeRange, error) {
	rows, err := busyRows(body)
	if err != nil {
		return nil, err
	}

	ranges := make([]models.TimeRange, 0, len(rows))
	for _, row := range rows {
		turno, ok := NormalizeTurno(row, loc, defaultMinutes)
		if !ok || turno.IsCancelled() {
			continue
		}
		ranges = append(ranges, turno.Range())
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Start.Before(ranges[j].Start)
	})
	return ranges, nil
}

func busyRows(body []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var freeBusy struct {
			Calendars map[string]struct {
				Busy []map[string]any `json:"busy"`
			} `json:"calendars"`
		}
		if err := json.Unmarshal(trimmed, &freeBusy); err == nil && len(freeBusy.Calendars) > 0 {
			var rows []map[string]any
			for _, calendar := range freeBusy.Calendars {
				rows = append(rows, calendar.Busy...)
			}
			return rows, nil
		}
	}
	return decodeList(body, busyEnvelopeKeys...)
}
