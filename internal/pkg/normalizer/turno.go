package normalizer

import (
	"fmt"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	turnoIDAliases           = []string{"id", "eventId", "event_id", "ID"}
	turnoSummaryAliases      = []string{"summary", "title", "titulo"}
	turnoDescriptionAliases  = []string{"description", "descripcion"}
	turnoStartAliases        = []string{"start", "fechaInicio", "inicio"}
	turnoEndAliases          = []string{"end", "fechaFin", "fin"}
	turnoPatientNameAliases  = []string{"patientName", "paciente", "nombrePaciente", "patient_name"}
	turnoPatientDNIAliases   = []string{"patientDni", "dni", "dniPaciente", "patient_dni"}
	turnoPatientPhoneAliases = []string{"patientPhone", "telefono", "telefonoPaciente", "patient_phone"}
	turnoTipoAliases         = []string{"tipoTurno", "tipo", "tipo_turno", "type"}
	turnoDuracionAliases     = []string{"duracion", "duration", "duracionMinutos"}
	turnoEstadoAliases       = []string{"estado", "status"}
	turnoNotasAliases        = []string{"notas", "notes"}

	turnoEnvelopeKeys = []string{"data", "events", "turnos", "items", "rows"}

	turnoLocalLayouts = []string{
		constvars.LocalDateTimeLayout,
		constvars.LocalMinuteTLayout,
		constvars.LocalMinuteLayout,
		"2006-01-02 15:04:05",
	}

	summaryPattern = regexp.MustCompile(`^\s*Turno\s*-\s*(.+?)\s*(?:\(([^)]*)\))?\s*$`)
)

// NormalizeTurno maps a raw calendar event onto models.Turno. Local
// timestamps are read in loc. The boolean is false when the event has no
// parseable start.
func NormalizeTurno(raw map[string]any, loc *time.Location, defaultMinutes int) (models.Turno, bool) {
	if len(raw) == 0 {
		return models.Turno{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	turno := models.Turno{
		ID:           pickString(raw, turnoIDAliases...),
		Summary:      pickString(raw, turnoSummaryAliases...),
		Description:  pickString(raw, turnoDescriptionAliases...),
		PatientName:  pickString(raw, turnoPatientNameAliases...),
		PatientDNI:   NormalizeDNI(pickString(raw, turnoPatientDNIAliases...)),
		PatientPhone: pickString(raw, turnoPatientPhoneAliases...),
		TipoTurno:    strings.ToLower(pickString(raw, turnoTipoAliases...)),
		Estado:       strings.ToLower(pickString(raw, turnoEstadoAliases...)),
		Notas:        pickString(raw, turnoNotasAliases...),
	}

	start, allDay, ok := parseEventTime(raw, loc, turnoStartAliases...)
	if !ok {
		return models.Turno{}, false
	}
	turno.Start = start
	turno.AllDay = allDay

	if private := nestedMap(raw, "extendedProperties", "private"); private != nil {
		turno.PatientName = firstNonEmpty(turno.PatientName, stringValue(private["patientName"]))
		turno.PatientDNI = firstNonEmpty(turno.PatientDNI, NormalizeDNI(stringValue(private["patientDni"])))
		turno.PatientPhone = firstNonEmpty(turno.PatientPhone, stringValue(private["patientPhone"]))
		turno.TipoTurno = firstNonEmpty(turno.TipoTurno, strings.ToLower(stringValue(private["tipoTurno"])))
	}
	recoverLinkage(&turno)

	if value, found := pick(raw, turnoDuracionAliases...); found {
		if minutes, valid := intValue(value); valid && minutes > 0 {
			turno.Duracion = minutes
		}
	}

	end, _, hasEnd := parseEventTime(raw, loc, turnoEndAliases...)
	switch {
	case hasEnd && end.After(start):
		turno.End = end
		if turno.Duracion == 0 {
			turno.Duracion = int(end.Sub(start) / time.Minute)
		}
	default:
		if turno.Duracion == 0 {
			turno.Duracion = models.DurationFor(turno.TipoTurno, defaultMinutes)
		}
		turno.End = start.Add(time.Duration(turno.Duracion) * time.Minute)
	}

	return turno, true
}

// NormalizeTurnos decodes a list response, drops cancelled and undated events
// and sorts the rest by start.
func NormalizeTurnos(body []byte, loc *time.Location, defaultMinutes int) ([]models.Turno, error) {
	rows, err := decodeList(body, turnoEnvelopeKeys...)
	if err != nil {
		return nil, err
	}

	turnos := make([]models.Turno, 0, len(rows))
	for _, row := range rows {
		turno, ok := NormalizeTurno(row, loc, defaultMinutes)
		if !ok || turno.IsCancelled() {
			continue
		}
		turnos = append(turnos, turno)
	}

	sort.SliceStable(turnos, func(i, j int) bool {
		return turnos[i].Start.Before(turnos[j].Start)
	})
	return turnos, nil
}

// DenormalizeTurno builds the payload the turno webhooks expect. Summary and
// description are written in the convention recoverLinkage reads back.
func DenormalizeTurno(turno models.Turno, loc *time.Location) map[string]any {
	if loc == nil {
		loc = time.Local
	}

	payload := map[string]any{
		"start":    turno.Start.In(loc).Format(time.RFC3339),
		"end":      turno.End.In(loc).Format(time.RFC3339),
		"duracion": turno.Duracion,
		"summary":  firstNonEmpty(turno.Summary, BuildSummary(turno)),
	}
	if turno.Description == "" {
		payload["description"] = BuildDescription(turno)
	} else {
		payload["description"] = turno.Description
	}

	fields := map[string]string{
		"id":           turno.ID,
		"patientName":  turno.PatientName,
		"patientDni":   turno.PatientDNI,
		"patientPhone": turno.PatientPhone,
		"tipoTurno":    turno.TipoTurno,
		"estado":       turno.Estado,
		"notas":        turno.Notas,
	}
	for key, value := range fields {
		if value != "" {
			payload[key] = value
		}
	}
	return payload
}

// BuildSummary renders "Turno - <name> (<tipo>)".
func BuildSummary(turno models.Turno) string {
	if turno.TipoTurno == "" {
		return fmt.Sprintf("Turno - %s", turno.PatientName)
	}
	return fmt.Sprintf("Turno - %s (%s)", turno.PatientName, turno.TipoTurno)
}

func BuildDescription(turno models.Turno) string {
	var lines []string
	if turno.PatientDNI != "" {
		lines = append(lines, "DNI: "+turno.PatientDNI)
	}
	if turno.PatientPhone != "" {
		lines = append(lines, "Tel: "+turno.PatientPhone)
	}
	if turno.TipoTurno != "" {
		lines = append(lines, "Tipo: "+turno.TipoTurno)
	}
	if turno.Notas != "" {
		lines = append(lines, "Notas: "+turno.Notas)
	}
	return strings.Join(lines, "\n")
}

func recoverLinkage(turno *models.Turno) {
	if match := summaryPattern.FindStringSubmatch(turno.Summary); match != nil {
		turno.PatientName = firstNonEmpty(turno.PatientName, strings.TrimSpace(match[1]))
		turno.TipoTurno = firstNonEmpty(turno.TipoTurno, strings.ToLower(strings.TrimSpace(match[2])))
	}

	for _, line := range strings.Split(turno.Description, "\n") {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "dni":
			turno.PatientDNI = firstNonEmpty(turno.PatientDNI, NormalizeDNI(value))
		case "tel", "telefono", "teléfono":
			turno.PatientPhone = firstNonEmpty(turno.PatientPhone, value)
		case "tipo":
			turno.TipoTurno = firstNonEmpty(turno.TipoTurno, strings.ToLower(value))
		case "paciente":
			turno.PatientName = firstNonEmpty(turno.PatientName, value)
		}
	}
}

// parseEventTime reads either a calendar object ({dateTime|date}) or a plain
// string from the first alias present.
func parseEventTime(raw map[string]any, loc *time.Location, aliases ...string) (time.Time, bool, bool) {
	value, ok := pick(raw, aliases...)
	if !ok {
		return time.Time{}, false, false
	}

	if object, isObject := value.(map[string]any); isObject {
		eventLoc := loc
		if zone := stringValue(object["timeZone"]); zone != "" {
			if zoneLoc, err := time.LoadLocation(zone); err == nil {
				eventLoc = zoneLoc
			}
		}
		if dateTime := stringValue(object["dateTime"]); dateTime != "" {
			parsed, allDay, err := ParseTime(dateTime, eventLoc)
			return parsed, allDay, err == nil
		}
		if date := stringValue(object["date"]); date != "" {
			parsed, err := time.ParseInLocation(constvars.DateOnlyLayout, date, eventLoc)
			return parsed, true, err == nil
		}
		return time.Time{}, false, false
	}

	parsed, allDay, err := ParseTime(stringValue(value), loc)
	return parsed, allDay, err == nil
}

// ParseTime accepts RFC3339, local date-times read in loc, and bare dates.
// The boolean reports a bare (all-day) date.
func ParseTime(value string, loc *time.Location) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, fmt.Errorf("empty time value")
	}
	if loc == nil {
		loc = time.Local
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(loc), false, nil
	}
	for _, layout := range turnoLocalLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, false, nil
		}
	}
	parsed, err := time.ParseInLocation(constvars.DateOnlyLayout, value, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unrecognized time %q", value)
	}
	return parsed, true, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
