package hostops

import (
	"context"
	"log/slog"
	"time"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/fault"
	"staybnb/internal/app/outbox"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
)

const (
	approveBookingKey = "host.bookings.approve"
	rejectBookingKey  = "host.bookings.reject"
)

// ApproveBookingCommand confirms a pending booking on the host's listing.
type ApproveBookingCommand struct {
	HostID    string
	BookingID string
}

func (c ApproveBookingCommand) Key() string { return approveBookingKey }

// RejectBookingCommand declines a pending booking on the host's listing.
type RejectBookingCommand struct {
	HostID    string
	BookingID string
}

func (c RejectBookingCommand) Key() string { return rejectBookingKey }

type BookingActionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"booking_status"`
}

type DecideBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *DecideBookingHandler) HandleApprove(ctx context.Context, cmd ApproveBookingCommand) (*BookingActionResult, error) {
	return h.decide(ctx, cmd.HostID, cmd.BookingID, domainbooking.StatusConfirmed)
}

func (h *DecideBookingHandler) HandleReject(ctx context.Context, cmd RejectBookingCommand) (*BookingActionResult, error) {
	return h.decide(ctx, cmd.HostID, cmd.BookingID, domainbooking.StatusRejected)
}

func (h *DecideBookingHandler) decide(ctx context.Context, hostID, bookingID string, outcome domainbooking.Status) (*BookingActionResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	b, err := loadOwnedBooking(ctx, unit, hostID, bookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch outcome {
	case domainbooking.StatusConfirmed:
		err = b.Confirm(now)
	case domainbooking.StatusRejected:
		err = b.Reject(now)
	default:
		return nil, fault.Validationf("unsupported outcome %q", outcome)
	}
	if err != nil {
		return nil, fault.Conflictf("cannot decide booking with status: %s", b.Status).WithBlockingStatus(string(b.Status)).Wrap(err)
	}

	if err := unit.Bookings().UpdateStatus(ctx, b.ID, b.Status, now); err != nil {
		return nil, err
	}
	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host booking decided", "booking_id", b.ID, "host_id", hostID, "status", b.Status)
	}
	return &BookingActionResult{BookingID: string(b.ID), Status: string(b.Status)}, nil
}

type approveAdapter struct{ Inner *DecideBookingHandler }

func (a approveAdapter) Handle(ctx context.Context, cmd ApproveBookingCommand) (*BookingActionResult, error) {
	return a.Inner.HandleApprove(ctx, cmd)
}

type rejectAdapter struct{ Inner *DecideBookingHandler }

func (a rejectAdapter) Handle(ctx context.Context, cmd RejectBookingCommand) (*BookingActionResult, error) {
	return a.Inner.HandleReject(ctx, cmd)
}

func ApproveHandler(inner *DecideBookingHandler) commands.Handler[ApproveBookingCommand, *BookingActionResult] {
	return approveAdapter{Inner: inner}
}

func RejectHandler(inner *DecideBookingHandler) commands.Handler[RejectBookingCommand, *BookingActionResult] {
	return rejectAdapter{Inner: inner}
}
