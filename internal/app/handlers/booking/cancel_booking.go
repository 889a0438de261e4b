package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/fault"
	"staybnb/internal/app/outbox"
	"staybnb/internal/app/policies"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	"staybnb/internal/domain/shared/events"
	domainuser "staybnb/internal/domain/user"
)

const cancelBookingKey = "booking.cancel"

// CancelBookingCommand withdraws a pending booking. Cancellation removes the
// row permanently; it is not a status flip.
type CancelBookingCommand struct {
	GuestID   string
	BookingID string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

type CancelBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	if strings.TrimSpace(cmd.BookingID) == "" {
		return nil, fault.Validationf("booking id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, fault.NotFoundf("booking not found")
		}
		return nil, err
	}
	if err := policies.RequireOwner(policies.Principal{ID: domainuser.ID(cmd.GuestID), Role: domainuser.RoleGuest}, b.GuestID); err != nil {
		return nil, err
	}
	if !b.Cancellable() {
		return nil, fault.Conflictf("cannot cancel booking with status: %s", b.Status).WithBlockingStatus(string(b.Status))
	}

	if err := unit.Bookings().Delete(ctx, b.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cancelled := domainbooking.BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, At: now}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{cancelled}); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", b.ID, "guest_id", b.GuestID)
	}
	return &CancelBookingResult{BookingID: string(b.ID), Message: "booking cancelled successfully"}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
