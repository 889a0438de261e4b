package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	reviewapp "staybnb/internal/app/handlers/reviews"
	"staybnb/internal/app/queries"
)

type ReviewHTTP interface {
	Create(c *gin.Context)
	ListMine(c *gin.Context)
	ListByListing(c *gin.Context)
	ListAll(c *gin.Context)
	Delete(c *gin.Context)
}

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createReviewRequest struct {
	ListingID string `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h ReviewHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		AuthorID:  user.ID,
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	result, err := commands.Dispatch[reviewapp.SubmitReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := reviewapp.ListUserReviewsQuery{UserID: user.ID}
	result, err := queries.Ask[reviewapp.ListUserReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) ListByListing(c *gin.Context) {
	query := reviewapp.ListListingReviewsQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[reviewapp.ListListingReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) ListAll(c *gin.Context) {
	result, err := queries.Ask[reviewapp.ListAllReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, reviewapp.ListAllReviewsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) Delete(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := reviewapp.DeleteReviewCommand{
		AuthorID: user.ID,
		ReviewID: c.Param("id"),
	}
	result, err := commands.Dispatch[reviewapp.DeleteReviewCommand, *reviewapp.DeleteReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
