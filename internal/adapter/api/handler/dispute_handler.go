package handler

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/response"
	"tukarlapak/pkg/utils"
)

type DisputeHandler struct {
	disputeUseCase *usecase.DisputeUseCase
	proofUseCase   *usecase.ProofUploadUseCase
}

func NewDisputeHandler(disputeUseCase *usecase.DisputeUseCase, proofUseCase *usecase.ProofUploadUseCase) *DisputeHandler {
	return &DisputeHandler{
		disputeUseCase: disputeUseCase,
		proofUseCase:   proofUseCase,
	}
}

// CreateDispute accepts a multipart form: order_id, reason, description, and
// up to five "proofs" files.
func (h *DisputeHandler) CreateDispute(c echo.Context) error {
	userID := c.Get("uid").(string)

	orderID := c.FormValue("order_id")
	if orderID == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	proofs, err := h.proofUseCase.UploadProofs(c.Request().Context(), userID, formFiles(c, "proofs"))
	if err != nil {
		return response.Error(c, err)
	}

	dispute, err := h.disputeUseCase.CreateDispute(c.Request().Context(), userID, usecase.CreateDisputeInput{
		OrderID:     orderID,
		Reason:      entity.DisputeReason(c.FormValue("reason")),
		Description: c.FormValue("description"),
		Proofs:      proofs,
	})
	if err != nil {
		h.proofUseCase.RemoveProofs(c.Request().Context(), proofs)
		return response.Error(c, err)
	}

	return response.Created(c, dispute)
}

func (h *DisputeHandler) ListDisputes(c echo.Context) error {
	userID := c.Get("uid").(string)
	role := c.QueryParam("role") // "client" or "seller"
	status := entity.DisputeStatus(c.QueryParam("status"))

	pagination := utils.GetPaginationParams(c)

	disputes, total, err := h.disputeUseCase.ListDisputes(
		c.Request().Context(),
		userID,
		role,
		status,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, disputes, total, pagination.Page, pagination.PageSize)
}

func (h *DisputeHandler) GetDispute(c echo.Context) error {
	disputeID := c.Param("id")
	if disputeID == "" {
		return response.Error(c, errors.BadRequest("Dispute ID is required", nil))
	}

	userID := c.Get("uid").(string)

	detail, err := h.disputeUseCase.GetDispute(c.Request().Context(), userID, disputeID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

// SellerRespond accepts a multipart form: response text plus up to five
// "proofs" files; at least one of the two must be present.
func (h *DisputeHandler) SellerRespond(c echo.Context) error {
	disputeID := c.Param("id")
	if disputeID == "" {
		return response.Error(c, errors.BadRequest("Dispute ID is required", nil))
	}

	userID := c.Get("uid").(string)

	proofs, err := h.proofUseCase.UploadProofs(c.Request().Context(), userID, formFiles(c, "proofs"))
	if err != nil {
		return response.Error(c, err)
	}

	dispute, err := h.disputeUseCase.SellerRespond(c.Request().Context(), userID, disputeID, usecase.SellerResponseInput{
		Response: c.FormValue("response"),
		Proofs:   proofs,
	})
	if err != nil {
		h.proofUseCase.RemoveProofs(c.Request().Context(), proofs)
		return response.Error(c, err)
	}

	return response.Success(c, dispute)
}

func (h *DisputeHandler) AdminListDisputes(c echo.Context) error {
	status := entity.DisputeStatus(c.QueryParam("status"))
	query := c.QueryParam("q")

	pagination := utils.GetPaginationParams(c)

	disputes, total, err := h.disputeUseCase.ListAdminDisputes(
		c.Request().Context(),
		status,
		query,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, disputes, total, pagination.Page, pagination.PageSize)
}

type resolveDisputeRequest struct {
	ResolutionType string `json:"resolution_type" validate:"required,oneof=refund_full refund_partial compensation reject"`
	AdminDecision  string `json:"admin_decision" validate:"required,min=5"`
	Favor          string `json:"favor,omitempty" validate:"omitempty,oneof=client seller"`
}

func (h *DisputeHandler) AdminResolve(c echo.Context) error {
	disputeID := c.Param("id")
	if disputeID == "" {
		return response.Error(c, errors.BadRequest("Dispute ID is required", nil))
	}

	var req resolveDisputeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID := c.Get("uid").(string)

	dispute, err := h.disputeUseCase.AdminResolve(c.Request().Context(), adminID, disputeID, usecase.ResolveDisputeInput{
		ResolutionType: entity.ResolutionType(req.ResolutionType),
		AdminDecision:  req.AdminDecision,
		Favor:          req.Favor,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, dispute)
}

// TriggerSweep lets an operator force-run the deadline sweep independent of
// normal traffic.
func (h *DisputeHandler) TriggerSweep(c echo.Context) error {
	result, err := h.disputeUseCase.RunSweep(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func formFiles(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
