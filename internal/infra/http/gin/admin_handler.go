package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	listingapp "staybnb/internal/app/handlers/listings"
	"staybnb/internal/app/queries"
)

type AdminHTTP interface {
	ListListings(c *gin.Context)
	ApproveListing(c *gin.Context)
	RejectListing(c *gin.Context)
	DeleteListing(c *gin.Context)
}

type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h AdminHandler) ListListings(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	result, err := queries.Ask[listingapp.ListAllListingsQuery, dto.ListingCollection](c.Request.Context(), h.Queries, listingapp.ListAllListingsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) ApproveListing(c *gin.Context) {
	h.moderate(c, true)
}

func (h AdminHandler) RejectListing(c *gin.Context) {
	h.moderate(c, false)
}

func (h AdminHandler) moderate(c *gin.Context, approve bool) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	cmd := listingapp.ModerateListingCommand{ListingID: c.Param("id"), Approve: approve}
	result, err := commands.Dispatch[listingapp.ModerateListingCommand, *dto.ListingRecord](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) DeleteListing(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	cmd := listingapp.AdminDeleteListingCommand{ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingapp.AdminDeleteListingCommand, *dto.ListingRecord](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AdminHTTP = AdminHandler{}
