package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

const imageField = "image"

// CropHandler handles HTTP requests for the crop catalog.
type CropHandler struct {
	service ports.CropService
}

func NewCropHandler(service ports.CropService) *CropHandler {
	return &CropHandler{service: service}
}

// Create handles POST /crops.
//
// @Summary      Publish a crop listing
// @Tags         crops
// @Accept       multipart/form-data
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string  false  "Replays the first listing created with the same key"
// @Param        name             formData  string  true   "Crop name"
// @Param        description      formData  string  false  "Description"
// @Param        location         formData  string  true   "Location"
// @Param        price            formData  number  true   "Price per kg"
// @Param        quantity         formData  number  false  "Quantity in kg"
// @Param        image            formData  file    false  "JPEG, PNG, GIF or WebP image"
// @Success      201              {object}  createCropResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      413              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /crops [post]
func (h *CropHandler) Create(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createCropRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	price, err := parseAmount("price", req.Price)
	if err != nil {
		return err
	}
	quantity, err := parseAmount("quantity", req.Quantity)
	if err != nil {
		return err
	}

	input := ports.CreateCropInput{
		Owner:          owner,
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		Price:          price,
		Quantity:       quantity,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
		}
		files := form.File[imageField]
		if len(files) > 1 {
			return fmt.Errorf("%w: only one image may be uploaded", domain.ErrValidation)
		}
		if len(files) == 1 {
			fh := files[0]
			f, err := fh.Open()
			if err != nil {
				return fmt.Errorf("%w: open upload: %v", domain.ErrStorage, err)
			}
			defer f.Close()
			input.Image = &ports.ImageUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Size:        fh.Size,
				Content:     f,
			}
		}
	}

	result, err := h.service.CreateCrop(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createCropResponse{
		Message: "Crop added successfully",
		Crop:    result.Crop,
	})
}

// List handles GET /crops.
//
// @Summary      List crop listings
// @Tags         crops
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Crop
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /crops [get]
func (h *CropHandler) List(c echo.Context) error {
	crops, err := h.service.ListCrops(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, crops)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// parseAmount accepts an empty value as zero.
func parseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, field)
	}
	return v, nil
}
