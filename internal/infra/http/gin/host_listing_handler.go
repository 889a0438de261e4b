package ginserver

import (
	"io"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	listingapp "staybnb/internal/app/handlers/listings"
	"staybnb/internal/app/queries"
)

// maxPhotoSize caps multipart photo uploads at 10 MiB.
const maxPhotoSize = 10 << 20

type HostListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetStatus(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type HostListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	PricePerNight int64    `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	ImageURL      string   `json:"image_url"`
}

type updateListingRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	PricePerNight *int64   `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	ImageURL      *string  `json:"image_url"`
}

type listingStatusRequest struct {
	Status string `json:"status"`
}

func (h HostListingHandler) List(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	query := listingapp.ListHostListingsQuery{HostID: host.ID}
	result, err := queries.Ask[listingapp.ListHostListingsQuery, dto.ListingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Create(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := listingapp.CreateListingCommand{
		HostID:      host.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		NightlyRate: req.PricePerNight,
		Amenities:   req.Amenities,
		ImageURL:    req.ImageURL,
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *dto.ListingRecord](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostListingHandler) Update(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := listingapp.UpdateListingCommand{
		HostID:      host.ID,
		ListingID:   c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		NightlyRate: req.PricePerNight,
		Amenities:   req.Amenities,
		ImageURL:    req.ImageURL,
	}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *dto.ListingRecord](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Delete(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := listingapp.DeleteListingCommand{HostID: host.ID, ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingapp.DeleteListingCommand, *dto.ListingRecord](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) SetStatus(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req listingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := listingapp.SetListingVisibilityCommand{
		HostID:    host.ID,
		ListingID: c.Param("id"),
		Status:    req.Status,
	}
	result, err := commands.Dispatch[listingapp.SetListingVisibilityCommand, *dto.ListingRecord](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) UploadPhoto(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if file.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds size limit"})
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxPhotoSize))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := listingapp.UploadListingPhotoCommand{
		HostID:      host.ID,
		ListingID:   c.Param("id"),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}
	result, err := commands.Dispatch[listingapp.UploadListingPhotoCommand, *listingapp.PhotoUploadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HostListingHTTP = HostListingHandler{}
