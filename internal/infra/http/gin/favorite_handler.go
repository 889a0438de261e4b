package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	favoriteapp "staybnb/internal/app/handlers/favorites"
	"staybnb/internal/app/queries"
)

type FavoriteHTTP interface {
	Add(c *gin.Context)
	ListMine(c *gin.Context)
	ListByUser(c *gin.Context)
	Remove(c *gin.Context)
}

type FavoriteHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type addFavoriteRequest struct {
	ListingID string `json:"listing_id"`
	Note      string `json:"note"`
}

func (h FavoriteHandler) Add(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := favoriteapp.AddFavoriteCommand{
		UserID:    user.ID,
		ListingID: req.ListingID,
		Note:      req.Note,
	}
	result, err := commands.Dispatch[favoriteapp.AddFavoriteCommand, *dto.Favorite](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h FavoriteHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := favoriteapp.ListUserFavoritesQuery{UserID: user.ID}
	result, err := queries.Ask[favoriteapp.ListUserFavoritesQuery, dto.FavoriteCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByUser serves without authentication, like the other public per-user
// reads.
func (h FavoriteHandler) ListByUser(c *gin.Context) {
	query := favoriteapp.ListUserFavoritesQuery{UserID: c.Param("id")}
	result, err := queries.Ask[favoriteapp.ListUserFavoritesQuery, dto.FavoriteCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FavoriteHandler) Remove(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := favoriteapp.RemoveFavoriteCommand{
		UserID:     user.ID,
		FavoriteID: c.Param("id"),
	}
	result, err := commands.Dispatch[favoriteapp.RemoveFavoriteCommand, *favoriteapp.RemoveFavoriteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ FavoriteHTTP = FavoriteHandler{}
