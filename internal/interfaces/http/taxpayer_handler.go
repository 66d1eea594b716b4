package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/application/taxpayer"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
)

// TaxpayerHandler serves the taxpayer registry.
type TaxpayerHandler struct {
	svc *taxpayer.Service
}

// NewTaxpayerHandler builds the taxpayer handler.
func NewTaxpayerHandler(svc *taxpayer.Service) *TaxpayerHandler {
	return &TaxpayerHandler{svc: svc}
}

// Create godoc
// @Summary      Create a taxpayer
// @Tags         taxpayers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTaxpayerRequest  true  "taxpayer"
// @Success      201   {object}  dto.TaxpayerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers [post]
func (h *TaxpayerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaxpayerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List taxpayers
// @Tags         taxpayers
// @Produce      json
// @Security     BearerAuth
// @Param        page            query  int     false  "page (>= 1)"
// @Param        size            query  int     false  "page size (1..100)"
// @Param        state           query  string  false  "state"
// @Param        tax_type        query  string  false  "PAYE|VAT|CIT|WHT|PIT"
// @Param        status          query  string  false  "status"
// @Param        employer_id     query  string  false  "employer organization id"
// @Param        is_verified     query  bool    false  "verification flag"
// @Param        search          query  string  false  "name, TIN, business name or email"
// @Param        created_after   query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        created_before  query  string  false  "RFC3339 or YYYY-MM-DD"
// @Success      200  {object}  dto.TaxpayerListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers [get]
func (h *TaxpayerHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	filter, err := filterFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), filter, GetUser(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Taxpayer statistics
// @Tags         taxpayers
// @Produce      json
// @Security     BearerAuth
// @Param        organization_id  query  string  false  "narrow to one employer"
// @Success      200  {object}  dto.TaxpayerStatsResponse
// @Router       /api/v1/taxpayers/stats/summary [get]
func (h *TaxpayerHandler) Stats(c *fiber.Ctx) error {
	out, err := h.svc.Stats(c.UserContext(), GetUser(c), optionalQuery(c, "organization_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SearchByTIN godoc
// @Summary      Find a taxpayer by TIN
// @Tags         taxpayers
// @Produce      json
// @Security     BearerAuth
// @Param        tin  path  string  true  "tax identification number"
// @Success      200  {object}  dto.TaxpayerDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers/search/tin/{tin} [get]
func (h *TaxpayerHandler) SearchByTIN(c *fiber.Ctx) error {
	out, err := h.svc.SearchByTIN(c.UserContext(), c.Params("tin"), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Taxpayer detail
// @Tags         taxpayers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "taxpayer id"
// @Success      200  {object}  dto.TaxpayerDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers/{id} [get]
func (h *TaxpayerHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.View(c.UserContext(), c.Params("id"), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update a taxpayer
// @Tags         taxpayers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "taxpayer id"
// @Param        body  body  dto.UpdateTaxpayerRequest  true  "fields to change"
// @Success      200   {object}  dto.TaxpayerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers/{id} [put]
func (h *TaxpayerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTaxpayerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), c.Params("id"), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete a taxpayer
// @Description  Soft delete by default; hard=true removes the record.
// @Tags         taxpayers
// @Security     BearerAuth
// @Param        id    path   string  true   "taxpayer id"
// @Param        hard  query  bool    false  "permanent deletion"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers/{id} [delete]
func (h *TaxpayerHandler) Delete(c *fiber.Ctx) error {
	mode := taxpayer.SoftDelete
	if c.QueryBool("hard", false) {
		mode = taxpayer.HardDelete
	}
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), GetUser(c), mode); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Verify godoc
// @Summary      Verify a taxpayer
// @Tags         taxpayers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true   "taxpayer id"
// @Param        body  body  dto.VerifyTaxpayerRequest  false  "verification details"
// @Success      200   {object}  dto.TaxpayerResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers/{id}/verify [post]
func (h *TaxpayerHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyTaxpayerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.svc.Verify(c.UserContext(), c.Params("id"), GetUser(c), in.Details)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkCreate godoc
// @Summary      Create taxpayers in bulk
// @Description  Items are created independently; failures are reported per item.
// @Tags         taxpayers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BulkCreateTaxpayersRequest  true  "taxpayers"
// @Success      200   {object}  dto.BulkResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/taxpayers/bulk [post]
func (h *TaxpayerHandler) BulkCreate(c *fiber.Ctx) error {
	var in dto.BulkCreateTaxpayersRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Taxpayers) == 0 {
		return writeError(c, domain.BadRequest("taxpayers must not be empty"))
	}
	out, err := h.svc.BulkCreate(c.UserContext(), in.Taxpayers, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	p := dto.PageRequest{Page: 1, Size: 20}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, domain.BadRequest("page must be an integer >= 1")
		}
		p.Page = n
	}
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > dto.MaxPageSize {
			return p, domain.BadRequest("size must be an integer between 1 and %d", dto.MaxPageSize)
		}
		p.Size = n
	}
	return p, nil
}

func filterFromQuery(c *fiber.Ctx) (dto.TaxpayerFilter, error) {
	f := dto.TaxpayerFilter{
		State:      optionalQuery(c, "state"),
		TaxType:    optionalQuery(c, "tax_type"),
		Status:     optionalQuery(c, "status"),
		EmployerID: optionalQuery(c, "employer_id"),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("is_verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.BadRequest("is_verified must be a boolean")
		}
		f.IsVerified = &v
	}
	var err error
	if f.CreatedAfter, err = timeQuery(c, "created_after", false); err != nil {
		return f, err
	}
	if f.CreatedBefore, err = timeQuery(c, "created_before", true); err != nil {
		return f, err
	}
	return f, nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

// timeQuery accepts RFC3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func timeQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return nil, domain.BadRequest("%s must be RFC3339 or YYYY-MM-DD", key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
