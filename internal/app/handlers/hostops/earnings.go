package hostops

import (
	"context"
	"log/slog"
	"strings"

	"staybnb/internal/app/dto"
	"staybnb/internal/app/fault"
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
)

const hostEarningsKey = "host.earnings"

const fallbackCurrency = "USD"

// HostEarningsQuery sums the total price of confirmed bookings across the
// host's listings.
type HostEarningsQuery struct {
	HostID string
}

func (q HostEarningsQuery) Key() string { return hostEarningsKey }

type HostEarningsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *HostEarningsHandler) Handle(ctx context.Context, q HostEarningsQuery) (dto.EarningsReport, error) {
	hostID := strings.TrimSpace(q.HostID)
	if hostID == "" {
		return dto.EarningsReport{}, fault.Validationf("host id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.EarningsReport{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	owned, err := unit.Listings().ListByHost(execCtx, domainuser.ID(hostID))
	if err != nil {
		return dto.EarningsReport{}, err
	}
	ids := make([]domainlistings.ListingID, 0, len(owned))
	for _, l := range owned {
		ids = append(ids, l.ID)
	}
	bookings, err := unit.Bookings().ListByListings(execCtx, ids)
	if err != nil {
		return dto.EarningsReport{}, err
	}

	total := money.Money{Currency: fallbackCurrency}
	for _, b := range bookings {
		if b.Status != domainbooking.StatusConfirmed {
			continue
		}
		if total.IsZero() {
			total.Currency = b.Total.Currency
		}
		sum, err := total.Add(b.Total)
		if err != nil {
			return dto.EarningsReport{}, err
		}
		total = sum
	}

	if h.Logger != nil {
		h.Logger.Debug("host earnings computed", "host_id", hostID, "total", total.String())
	}
	return dto.EarningsReport{TotalEarnings: dto.MapMoney(total)}, nil
}

var _ queries.Handler[HostEarningsQuery, dto.EarningsReport] = (*HostEarningsHandler)(nil)
