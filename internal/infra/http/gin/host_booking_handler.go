package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	hostapp "staybnb/internal/app/handlers/hostops"
	"staybnb/internal/app/queries"
)

type HostBookingHTTP interface {
	List(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
	Earnings(c *gin.Context)
}

type HostBookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type updateBookingStatusRequest struct {
	Status string `json:"booking_status"`
}

func (h HostBookingHandler) List(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	query := hostapp.ListHostBookingsQuery{
		HostID: host.ID,
		Status: c.Query("status"),
	}
	result, err := queries.Ask[hostapp.ListHostBookingsQuery, dto.HostBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostBookingHandler) UpdateStatus(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := hostapp.UpdateBookingStatusCommand{
		HostID:    host.ID,
		BookingID: c.Param("id"),
		Status:    req.Status,
	}
	result, err := commands.Dispatch[hostapp.UpdateBookingStatusCommand, *hostapp.BookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostBookingHandler) Approve(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := hostapp.ApproveBookingCommand{HostID: host.ID, BookingID: c.Param("id")}
	result, err := commands.Dispatch[hostapp.ApproveBookingCommand, *hostapp.BookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostBookingHandler) Reject(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := hostapp.RejectBookingCommand{HostID: host.ID, BookingID: c.Param("id")}
	result, err := commands.Dispatch[hostapp.RejectBookingCommand, *hostapp.BookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostBookingHandler) Earnings(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	query := hostapp.HostEarningsQuery{HostID: host.ID}
	result, err := queries.Ask[hostapp.HostEarningsQuery, dto.EarningsReport](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HostBookingHTTP = HostBookingHandler{}
