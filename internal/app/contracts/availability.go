package contracts

import (
	"context"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/dto/responses"
)

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, request *requests.GetAvailability) (*responses.Availability, error)
}
