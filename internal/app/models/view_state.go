package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	View       string
	Dialog     string
	EntityKind string
	ActionType string
)

const (
	ViewPatients View = "patients"
	ViewTurnos   View = "turnos"
	ViewCalendar View = "calendar"
)

const (
	DialogNone           Dialog = "none"
	DialogPatientCreate  Dialog = "patient_create"
	DialogPatientEdit    Dialog = "patient_edit"
	DialogPatientDetail  Dialog = "patient_detail"
	DialogPatientDelete  Dialog = "patient_delete"
	DialogTurnoCreate    Dialog = "turno_create"
	DialogTurnoEdit      Dialog = "turno_edit"
	DialogTurnoDetail    Dialog = "turno_detail"
	DialogTurnoDelete    Dialog = "turno_delete"
	DialogChangePassword Dialog = "change_password"
)

const (
	EntityNone    EntityKind = ""
	EntityPatient EntityKind = "patient"
	EntityTurno   EntityKind = "turno"
)

const (
	ActionOpen       ActionType = "open"
	ActionClose      ActionType = "close"
	ActionSwitchView ActionType = "switch_view"
	ActionSelect     ActionType = "select"
	ActionForget     ActionType = "forget"
)

var (
	ErrUnknownView       = errors.New("unknown view")
	ErrUnknownDialog     = errors.New("unknown dialog")
	ErrUnknownEntityKind = errors.New("unknown entity kind")
	ErrUnknownAction     = errors.New("unknown action")
	ErrEntityRequired    = errors.New("dialog requires an entity id")
	ErrEntityNotAllowed  = errors.New("dialog does not take an entity id")
	ErrSelectionLocked   = errors.New("selection can't change while a dialog for it is open")
	ErrEntityIDRequired  = errors.New("entity id is required")
)

var knownDialogs = map[Dialog]bool{
	DialogPatientCreate:  true,
	DialogPatientEdit:    true,
	DialogPatientDetail:  true,
	DialogPatientDelete:  true,
	DialogTurnoCreate:    true,
	DialogTurnoEdit:      true,
	DialogTurnoDetail:    true,
	DialogTurnoDelete:    true,
	DialogChangePassword: true,
}

// Kind returns the entity family the dialog works on.
func (d Dialog) Kind() EntityKind {
	switch {
	case strings.HasPrefix(string(d), "patient_"):
		return EntityPatient
	case strings.HasPrefix(string(d), "turno_"):
		return EntityTurno
	default:
		return EntityNone
	}
}

// NeedsEntity is true for dialogs that act on an existing record.
func (d Dialog) NeedsEntity() bool {
	return d.Kind() != EntityNone && !strings.HasSuffix(string(d), "_create")
}

func (v View) Valid() bool {
	return v == ViewPatients || v == ViewTurnos || v == ViewCalendar
}

// ViewState is what the dashboard shows for one admin session: the active
// view, the single open dialog and the selected patient and turno.
type ViewState struct {
	View            View      `json:"view"`
	Dialog          Dialog    `json:"dialog"`
	SelectedPatient string    `json:"selectedPatient,omitempty"`
	SelectedTurno   string    `json:"selectedTurno,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ViewAction struct {
	Type     ActionType `json:"type"`
	View     View       `json:"view,omitempty"`
	Dialog   Dialog     `json:"dialog,omitempty"`
	Kind     EntityKind `json:"kind,omitempty"`
	EntityID string     `json:"entityId,omitempty"`
}

func DefaultViewState() ViewState {
	return ViewState{View: ViewTurnos, Dialog: DialogNone}
}

// Apply returns the state that results from action. The receiver is never
// modified; on error the returned state equals the receiver.
func (s ViewState) Apply(action ViewAction) (ViewState, error) {
	if s.View == "" {
		s.View = ViewTurnos
	}
	if s.Dialog == "" {
		s.Dialog = DialogNone
	}
	next := s
	entityID := strings.TrimSpace(action.EntityID)

	switch action.Type {
	case ActionOpen:
		if !knownDialogs[action.Dialog] {
			return s, fmt.Errorf("%w: %q", ErrUnknownDialog, action.Dialog)
		}
		if action.Dialog.NeedsEntity() && entityID == "" {
			return s, ErrEntityRequired
		}
		if !action.Dialog.NeedsEntity() && entityID != "" {
			return s, ErrEntityNotAllowed
		}
		next.Dialog = action.Dialog
		next.setSelection(action.Dialog.Kind(), entityID)

	case ActionClose:
		if s.Dialog == DialogNone {
			return s, nil
		}
		next.setSelection(s.Dialog.Kind(), "")
		next.Dialog = DialogNone

	case ActionSwitchView:
		if !action.View.Valid() {
			return s, fmt.Errorf("%w: %q", ErrUnknownView, action.View)
		}
		next.setSelection(s.Dialog.Kind(), "")
		next.Dialog = DialogNone
		next.View = action.View

	case ActionSelect:
		if action.Kind != EntityPatient && action.Kind != EntityTurno {
			return s, fmt.Errorf("%w: %q", ErrUnknownEntityKind, action.Kind)
		}
		if s.Dialog.Kind() == action.Kind && s.Dialog.NeedsEntity() {
			return s, ErrSelectionLocked
		}
		next.setSelection(action.Kind, entityID)

	case ActionForget:
		if action.Kind != EntityPatient && action.Kind != EntityTurno {
			return s, fmt.Errorf("%w: %q", ErrUnknownEntityKind, action.Kind)
		}
		if entityID == "" {
			return s, ErrEntityIDRequired
		}
		if s.selection(action.Kind) != entityID {
			return s, nil
		}
		next.setSelection(action.Kind, "")
		if s.Dialog.Kind() == action.Kind && s.Dialog.NeedsEntity() {
			next.Dialog = DialogNone
		}

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}

	return next, nil
}

func (s ViewState) selection(kind EntityKind) string {
	switch kind {
	case EntityPatient:
		return s.SelectedPatient
	case EntityTurno:
		return s.SelectedTurno
	}
	return ""
}

func (s *ViewState) setSelection(kind EntityKind, entityID string) {
	switch kind {
	case EntityPatient:
		s.SelectedPatient = entityID
	case EntityTurno:
		s.SelectedTurno = entityID
	}
}
