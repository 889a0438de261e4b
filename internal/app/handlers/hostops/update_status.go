package hostops

import (
	"context"
	"log/slog"
	"time"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/fault"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
)

const updateBookingStatusKey = "host.bookings.update_status"

// UpdateBookingStatusCommand is the host's direct booking edit. The
// target status must belong to the enumerated set.
type UpdateBookingStatusCommand struct {
	HostID    string
	BookingID string
	Status    string
}

func (c UpdateBookingStatusCommand) Key() string { return updateBookingStatusKey }

type UpdateBookingStatusHandler struct {
	Logger *slog.Logger
}

func (h *UpdateBookingStatusHandler) Handle(ctx context.Context, cmd UpdateBookingStatusCommand) (*BookingActionResult, error) {
	status, err := domainbooking.ParseStatus(cmd.Status)
	if err != nil {
		return nil, fault.Validationf("invalid booking status %q", cmd.Status).Wrap(err)
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	b, err := loadOwnedBooking(ctx, unit, cmd.HostID, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b.SetStatus(status, now)
	if err := unit.Bookings().UpdateStatus(ctx, b.ID, status, now); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host booking status updated", "booking_id", b.ID, "host_id", cmd.HostID, "status", status)
	}
	return &BookingActionResult{BookingID: string(b.ID), Status: string(status)}, nil
}

var _ commands.Handler[UpdateBookingStatusCommand, *BookingActionResult] = (*UpdateBookingStatusHandler)(nil)
