package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type EventRepository interface {
	Create(ctx context.Context, ev model.Event) (model.Event, error)
	FindByID(ctx context.Context, id int64) (model.Event, error)
	List(ctx context.Context, page int, limit int) ([]model.Event, int64, error)
}

type EventRegistrationRepository interface {
	Create(ctx context.Context, reg model.EventRegistration) (model.EventRegistration, error)
	FindByID(ctx context.Context, id int64) (model.EventRegistration, error)
	FindByEventAndVendor(ctx context.Context, eventID int64, vendorID int64) (model.EventRegistration, bool, error)
	ListByEventID(ctx context.Context, eventID int64) ([]model.EventRegistration, error)
	UpdateStatus(ctx context.Context, id int64, status model.RegistrationStatus, reason string) error
}
