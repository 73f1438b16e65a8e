package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// マーケット主催イベント（バザール・ポップアップ等）と出店申請。
type EventUsecase struct {
	tx         repo.TransactionManager
	eventRepo  repo.EventRepository
	regRepo    repo.EventRegistrationRepository
	vendorRepo repo.VendorRepository
}

func NewEventUsecase(tx repo.TransactionManager, eventRepo repo.EventRepository, regRepo repo.EventRegistrationRepository, vendorRepo repo.VendorRepository) *EventUsecase {
	return &EventUsecase{tx: tx, eventRepo: eventRepo, regRepo: regRepo, vendorRepo: vendorRepo}
}

type CreateEventInput struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"required,max=255"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
}

func (u *EventUsecase) CreateEvent(ctx context.Context, adminUserID int64, in CreateEventInput) (*model.Event, error) {
	if adminUserID <= 0 {
		return nil, errUnauthorized()
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" || in.Location == "" {
		return nil, errValidation("title and location are required")
	}
	if !in.EndsAt.After(in.StartsAt) {
		return nil, errValidation("ends_at must be after starts_at")
	}

	ev, err := u.eventRepo.Create(ctx, model.Event{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedBy:   adminUserID,
	})
	if err != nil {
		return nil, errInternal()
	}
	return &ev, nil
}

func (u *EventUsecase) ListEvents(ctx context.Context, page int, limit int) ([]model.Event, int64, error) {
	items, total, err := u.eventRepo.List(ctx, page, limit)
	if err != nil {
		return []model.Event{}, 0, errInternal()
	}
	return items, total, nil
}

func (u *EventUsecase) GetEvent(ctx context.Context, eventID int64) (*model.Event, error) {
	ev, err := u.eventRepo.FindByID(ctx, eventID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("event not found")
	}
	if err != nil {
		return nil, errInternal()
	}
	return &ev, nil
}

// 出店申請。承認済み（ACTIVE）のストアのみ申請でき、同一イベントへの重複申請は不可。
func (u *EventUsecase) Register(ctx context.Context, userID int64, eventID int64) (*model.EventRegistration, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}

	v, err := u.vendorRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errForbidden("vendor account required")
	}
	if err != nil {
		return nil, errInternal()
	}
	if v.Status != model.VendorStatusActive {
		return nil, errForbidden("vendor is not active")
	}

	if _, err := u.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNotFound("event not found")
		}
		return nil, errInternal()
	}

	if _, exists, err := u.regRepo.FindByEventAndVendor(ctx, eventID, v.ID); err != nil {
		return nil, errInternal()
	} else if exists {
		return nil, errConflict("already registered for this event")
	}

	reg, err := u.regRepo.Create(ctx, model.EventRegistration{
		EventID:  eventID,
		VendorID: v.ID,
		Status:   model.RegistrationStatusPending,
	})
	if err != nil {
		//ユニーク制約との競合もここに落ちる
		return nil, errConflict("already registered for this event")
	}
	return &reg, nil
}

func (u *EventUsecase) ListRegistrations(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	if _, err := u.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNotFound("event not found")
		}
		return nil, errInternal()
	}
	regs, err := u.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errInternal()
	}
	return regs, nil
}

type DecideRegistrationInput struct {
	//"approve" か "reject"
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason" validate:"max=2000"`
}

// 出店申請の審査。PENDINGからのみ確定でき、結果は監査ログと通知に残す。
func (u *EventUsecase) Decide(ctx context.Context, adminUserID int64, registrationID int64, in DecideRegistrationInput) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if in.Action != "approve" && in.Action != "reject" {
		return errValidation("invalid action")
	}
	reason := strings.TrimSpace(in.Reason)
	if in.Action == "reject" && reason == "" {
		return errValidation("reason is required")
	}

	next := model.RegistrationStatusApproved
	if in.Action == "reject" {
		next = model.RegistrationStatusRejected
	} else {
		reason = ""
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		reg, err := r.EventRegistrations().FindByID(ctx, registrationID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("registration not found")
		}
		if err != nil {
			return errInternal()
		}

		if !reg.Status.CanTransitionTo(next) {
			return errInvalidTransition(string(reg.Status), string(next))
		}

		if err := r.EventRegistrations().UpdateStatus(ctx, registrationID, next, reason); err != nil {
			return errInternal()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionDecideEventReg,
			ResourceType: model.AuditResourceEventReg,
			ResourceID:   registrationID,
			BeforeJSON:   statusJSON(string(reg.Status)),
			AfterJSON:    statusJSON(string(next)),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errInternal()
		}

		v, err := r.Vendors().FindByID(ctx, reg.VendorID)
		if err == nil {
			_ = r.Notifications().Create(ctx, model.Notification{
				UserID: v.UserID,
				Title:  "イベント出店申請の結果",
				Body:   fmt.Sprintf("出店申請（イベントID: %d）の結果：%s", reg.EventID, next),
			})
		}
		return nil
	})
}
