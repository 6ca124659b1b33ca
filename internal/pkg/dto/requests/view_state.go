package requests

type OpenDialog struct {
	Dialog   string `json:"dialog" validate:"required"`
	EntityID string `json:"entityId"`
}

type SwitchView struct {
	View string `json:"view" validate:"required"`
}

type SelectEntity struct {
	Kind     string `json:"kind" validate:"required,oneof=patient turno"`
	EntityID string `json:"entityId"`
}
