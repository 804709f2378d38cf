package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

// ContractHandler serves generated agreements as downloads.
type ContractHandler struct {
	service ports.ContractService
}

func NewContractHandler(service ports.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// Generate handles GET /generate-contract/:cropId.
//
// @Summary      Download a contract for a crop
// @Tags         contracts
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        cropId  path      string  true  "Crop id"
// @Success      200     {file}    file
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /generate-contract/{cropId} [get]
func (h *ContractHandler) Generate(c echo.Context) error {
	buyer, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	doc, err := h.service.GenerateContract(c.Request().Context(), c.Param("cropId"), buyer)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+doc.Filename)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Content)
}
