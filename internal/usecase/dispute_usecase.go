package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/config"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
	"tukarlapak/pkg/utils"
)

const recentMessagePreviewLimit = 10

type DisputeUseCase struct {
	disputeRepo repository.DisputeRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	logRepo     repository.ActionLogRepository
	chatRepo    repository.ChatRepository
	txRunner    repository.TxRunner
	evaluator   *AbuseSignalEvaluator
	sweeper     *DeadlineSweeper
	notifier    *Notifier

	disputeWindow  time.Duration
	responseWindow time.Duration
	monthlyQuota   int

	now func() time.Time
}

func NewDisputeUseCase(
	disputeRepo repository.DisputeRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	logRepo repository.ActionLogRepository,
	chatRepo repository.ChatRepository,
	txRunner repository.TxRunner,
	evaluator *AbuseSignalEvaluator,
	sweeper *DeadlineSweeper,
	notifier *Notifier,
	cfg *config.Config,
) *DisputeUseCase {
	return &DisputeUseCase{
		disputeRepo:    disputeRepo,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		logRepo:        logRepo,
		chatRepo:       chatRepo,
		txRunner:       txRunner,
		evaluator:      evaluator,
		sweeper:        sweeper,
		notifier:       notifier,
		disputeWindow:  time.Duration(cfg.DisputeWindowHours) * time.Hour,
		responseWindow: time.Duration(cfg.SellerResponseHours) * time.Hour,
		monthlyQuota:   cfg.MonthlyDisputeQuota,
		now:            time.Now,
	}
}

type CreateDisputeInput struct {
	OrderID     string
	Reason      entity.DisputeReason
	Description string
	Proofs      []entity.ProofFile
}

func (uc *DisputeUseCase) CreateDispute(ctx context.Context, clientID string, input CreateDisputeInput) (*entity.Dispute, error) {
	uc.sweepBestEffort(ctx)

	if !input.Reason.Valid() {
		return nil, errors.BadRequest("Invalid dispute reason", nil)
	}
	if len(strings.TrimSpace(input.Description)) < 10 {
		return nil, errors.BadRequest("Description must be at least 10 characters", nil)
	}
	if len(input.Proofs) > entity.MaxProofFiles {
		return nil, errors.BadRequest("A maximum of 5 proof files is allowed", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != clientID {
		return nil, errors.Forbidden("Only the order's buyer can open a dispute", nil)
	}
	if !order.Status.Disputable() {
		return nil, errors.Conflict("ORDER_NOT_ELIGIBLE", "Order is not in a disputable status")
	}
	if order.DeliveredAt == nil {
		return nil, errors.Conflict("ORDER_NOT_ELIGIBLE", "Order has no recorded delivery time")
	}

	now := uc.now()
	windowEndsAt := order.DeliveredAt.Add(uc.disputeWindow)
	if now.After(windowEndsAt) {
		return nil, errors.Conflict("DISPUTE_WINDOW_EXPIRED", "The dispute window for this order has closed")
	}

	monthlyCount, err := uc.disputeRepo.CountByClientSince(ctx, clientID, startOfMonthUTC(now))
	if err != nil {
		return nil, err
	}
	if monthlyCount >= uc.monthlyQuota {
		return nil, errors.TooManyRequests("Monthly dispute limit reached")
	}

	sellerID := order.SellerID()
	if sellerID == "" {
		return nil, errors.BadRequest("Seller could not be identified for this order", nil)
	}

	signals, err := uc.evaluator.Evaluate(ctx, clientID, sellerID, now)
	if err != nil {
		// Advisory metadata only; a scoring failure never blocks creation.
		logger.Warn("Abuse signal evaluation failed for order %s: %v", input.OrderID, err)
		signals = entity.AbuseSignals{}
	}

	dispute := &entity.Dispute{
		OrderID:             input.OrderID,
		ClientID:            clientID,
		SellerID:            sellerID,
		Reason:              input.Reason,
		Description:         input.Description,
		ClientProofs:        input.Proofs,
		Status:              entity.DisputeStatusOpen,
		SellerDeadline:      now.Add(uc.responseWindow),
		DisputeWindowEndsAt: windowEndsAt,
		AbuseSignals:        signals,
	}

	err = uc.txRunner.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := uc.orderRepo.TxGet(tx, input.OrderID)
		if err != nil {
			return err
		}
		// Re-check inside the transaction; another writer may have moved the
		// order since the eligibility read above.
		if !current.Status.Disputable() {
			return errors.Conflict("ORDER_NOT_ELIGIBLE", "Order is no longer eligible for dispute")
		}

		if err := uc.disputeRepo.TxCreate(tx, dispute); err != nil {
			return err
		}
		if err := uc.orderRepo.TxSetStatus(tx, input.OrderID, entity.OrderStatusDisputed, ""); err != nil {
			return err
		}
		if err := uc.userRepo.TxApplyDisputeDelta(tx, clientID, repository.UserDisputeDelta{Opened: 1}); err != nil {
			return err
		}
		return uc.userRepo.TxApplyDisputeDelta(tx, sellerID, repository.UserDisputeDelta{OpenedAgainst: 1})
	})
	if err != nil {
		return nil, err
	}

	uc.appendLog(ctx, dispute, clientID, "client", entity.ActionDisputeCreated, map[string]interface{}{
		"reason":      string(input.Reason),
		"proof_count": len(input.Proofs),
		"suspicious":  signals.Suspicious,
	})

	recipients := append(uc.notifier.AdminRecipients(ctx), sellerID)
	uc.notifier.Fanout(clientID, entity.NotificationDisputeOpened, map[string]interface{}{
		"dispute_id": dispute.ID,
		"order_id":   dispute.OrderID,
		"reason":     string(input.Reason),
	}, recipients...)

	return dispute, nil
}

type SellerResponseInput struct {
	Response string
	Proofs   []entity.ProofFile
}

func (uc *DisputeUseCase) SellerRespond(ctx context.Context, sellerID, disputeID string, input SellerResponseInput) (*entity.Dispute, error) {
	uc.sweepBestEffort(ctx)

	response := strings.TrimSpace(input.Response)
	if response == "" && len(input.Proofs) == 0 {
		return nil, errors.BadRequest("Response text or at least one proof file is required", nil)
	}

	dispute, err := uc.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if dispute.SellerID != sellerID {
		return nil, errors.Forbidden("Only the dispute's seller can respond", nil)
	}

	switch dispute.Status {
	case entity.DisputeStatusOpen:
	case entity.DisputeStatusSellerResponded:
		return nil, errors.Conflict("ALREADY_RESPONDED", "A response has already been submitted")
	case entity.DisputeStatusUnderReview:
		return nil, errors.Conflict("DISPUTE_UNDER_REVIEW", "The dispute has been escalated to admin review")
	default:
		return nil, errors.Conflict("DISPUTE_ALREADY_RESOLVED", "The dispute has already been resolved")
	}

	now := uc.now()
	if now.After(dispute.SellerDeadline) {
		// Late response: the reply is not persisted as a formal answer; the
		// dispute moves to admin review instead.
		uc.escalateLateResponse(ctx, dispute, sellerID, now)
		return nil, errors.Conflict("RESPONSE_DEADLINE_PASSED", "The response deadline has passed; the dispute was escalated to admin review")
	}

	var updated *entity.Dispute
	err = uc.txRunner.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := uc.disputeRepo.TxGet(tx, disputeID)
		if err != nil {
			return err
		}
		if current.Status != entity.DisputeStatusOpen {
			return errors.Conflict("DISPUTE_UNDER_REVIEW", "The dispute was escalated before the response arrived")
		}

		if response != "" {
			current.SellerResponse = response
		}
		current.SellerProofs = appendProofsCapped(current.SellerProofs, input.Proofs)
		current.Status = entity.DisputeStatusSellerResponded

		updated = current
		return uc.disputeRepo.TxSet(tx, current)
	})
	if err != nil {
		return nil, err
	}

	uc.appendLog(ctx, updated, sellerID, "seller", entity.ActionSellerResponded, map[string]interface{}{
		"proof_count": len(input.Proofs),
		"has_text":    response != "",
	})

	recipients := append(uc.notifier.AdminRecipients(ctx), updated.ClientID)
	uc.notifier.Fanout(sellerID, entity.NotificationDisputeResponse, map[string]interface{}{
		"dispute_id": updated.ID,
		"order_id":   updated.OrderID,
	}, recipients...)

	return updated, nil
}

type ResolveDisputeInput struct {
	ResolutionType entity.ResolutionType
	AdminDecision  string
	Favor          string // "client", "seller", or empty
}

func (uc *DisputeUseCase) AdminResolve(ctx context.Context, adminID, disputeID string, input ResolveDisputeInput) (*entity.Dispute, error) {
	uc.sweepBestEffort(ctx)

	if !input.ResolutionType.Valid() {
		return nil, errors.BadRequest("Invalid resolution type", nil)
	}
	if len(strings.TrimSpace(input.AdminDecision)) < 5 {
		return nil, errors.BadRequest("Admin decision must be at least 5 characters", nil)
	}
	if input.Favor != "" && input.Favor != "client" && input.Favor != "seller" {
		return nil, errors.BadRequest("Favor must be either client or seller", nil)
	}

	now := uc.now()
	var resolved *entity.Dispute

	err := uc.txRunner.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		dispute, err := uc.disputeRepo.TxGet(tx, disputeID)
		if err != nil {
			return err
		}
		if dispute.Status.IsTerminal() {
			return errors.Conflict("DISPUTE_ALREADY_RESOLVED", "The dispute has already been resolved")
		}

		nextStatus := resolveStatus(input.Favor, input.ResolutionType)

		dispute.Status = nextStatus
		dispute.ResolutionType = input.ResolutionType
		dispute.AdminDecision = input.AdminDecision
		dispute.ResolvedBy = adminID
		dispute.ResolvedAt = &now

		if input.ResolutionType == entity.ResolutionRefundFull {
			reason := fmt.Sprintf("Dispute %s resolved with full refund", dispute.ID)
			if err := uc.orderRepo.TxSetStatus(tx, dispute.OrderID, entity.OrderStatusCancelled, reason); err != nil {
				return err
			}
		} else {
			if err := uc.orderRepo.TxSetStatus(tx, dispute.OrderID, entity.OrderStatusCompleted, ""); err != nil {
				return err
			}
		}

		if !dispute.ReputationImpactApplied {
			clientDelta, sellerDelta := reputationDeltas(nextStatus)
			if !clientDelta.IsZero() {
				if err := uc.userRepo.TxApplyDisputeDelta(tx, dispute.ClientID, clientDelta); err != nil {
					return err
				}
			}
			if !sellerDelta.IsZero() {
				if err := uc.userRepo.TxApplyDisputeDelta(tx, dispute.SellerID, sellerDelta); err != nil {
					return err
				}
			}
			dispute.ReputationImpactApplied = true
		}

		resolved = dispute
		return uc.disputeRepo.TxSet(tx, dispute)
	})
	if err != nil {
		return nil, err
	}

	uc.appendLog(ctx, resolved, adminID, "admin", entity.ActionAdminResolved, map[string]interface{}{
		"resolution_type": string(input.ResolutionType),
		"favor":           input.Favor,
		"status":          string(resolved.Status),
	})

	uc.notifier.Fanout(adminID, entity.NotificationDisputeResolved, map[string]interface{}{
		"dispute_id":      resolved.ID,
		"order_id":        resolved.OrderID,
		"resolution_type": string(input.ResolutionType),
		"status":          string(resolved.Status),
	}, resolved.ClientID, resolved.SellerID)

	return resolved, nil
}

type DisputeDetail struct {
	Dispute        *entity.Dispute          `json:"dispute"`
	Order          *entity.Order            `json:"order,omitempty"`
	Timeline       []*entity.ActionLogEntry `json:"timeline"`
	RecentMessages []*entity.ChatMessage    `json:"recent_messages,omitempty"`
}

func (uc *DisputeUseCase) GetDispute(ctx context.Context, userID, disputeID string) (*DisputeDetail, error) {
	uc.sweepBestEffort(ctx)

	dispute, err := uc.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if dispute.ClientID != userID && dispute.SellerID != userID {
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil || !user.CanArbitrate() {
			return nil, errors.Forbidden("You don't have permission to view this dispute", nil)
		}
	}

	timeline, err := uc.logRepo.ListByDisputeID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	detail := &DisputeDetail{
		Dispute:  dispute,
		Timeline: timeline,
	}

	if order, err := uc.orderRepo.GetByID(ctx, dispute.OrderID); err == nil {
		detail.Order = order
	} else {
		logger.Warn("Failed to load order %s for dispute detail: %v", dispute.OrderID, err)
	}

	if messages, err := uc.chatRepo.ListRecentByOrderID(ctx, dispute.OrderID, recentMessagePreviewLimit); err == nil {
		detail.RecentMessages = messages
	} else {
		logger.Warn("Failed to load chat preview for order %s: %v", dispute.OrderID, err)
	}

	return detail, nil
}

func (uc *DisputeUseCase) ListDisputes(ctx context.Context, userID, role string, status entity.DisputeStatus, page, limit int) ([]*entity.Dispute, int64, error) {
	uc.sweepBestEffort(ctx)

	pagination := utils.NewPaginationParams(page, limit)

	filter := repository.DisputeFilter{
		Status: status,
		Limit:  pagination.PageSize,
		Offset: pagination.Offset,
	}
	if role == "seller" {
		filter.SellerID = userID
	} else {
		filter.ClientID = userID
	}

	return uc.disputeRepo.List(ctx, filter)
}

type DisputeWithOrder struct {
	Dispute *entity.Dispute `json:"dispute"`
	Order   *entity.Order   `json:"order,omitempty"`
}

// ListAdminDisputes supports status filtering plus free-text search over the
// linked order's address, city, and payment reference.
func (uc *DisputeUseCase) ListAdminDisputes(ctx context.Context, status entity.DisputeStatus, query string, page, limit int) ([]*DisputeWithOrder, int64, error) {
	uc.sweepBestEffort(ctx)

	pagination := utils.NewPaginationParams(page, limit)

	if query == "" {
		disputes, total, err := uc.disputeRepo.List(ctx, repository.DisputeFilter{
			Status: status,
			Limit:  pagination.PageSize,
			Offset: pagination.Offset,
		})
		if err != nil {
			return nil, 0, err
		}
		return uc.joinOrders(ctx, disputes), total, nil
	}

	// Free-text search matches against order fields, so filtering happens
	// after the join and pagination after the filter.
	disputes, _, err := uc.disputeRepo.List(ctx, repository.DisputeFilter{Status: status})
	if err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(query)
	var matched []*DisputeWithOrder
	for _, item := range uc.joinOrders(ctx, disputes) {
		if item.Order == nil {
			continue
		}
		haystack := strings.ToLower(item.Order.Address + " " + item.Order.City + " " + item.Order.PaymentRef)
		if strings.Contains(haystack, needle) {
			matched = append(matched, item)
		}
	}

	total := int64(len(matched))
	start := pagination.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pagination.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

// RunSweep is the operator maintenance trigger, independent of normal
// traffic.
func (uc *DisputeUseCase) RunSweep(ctx context.Context) (SweepResult, error) {
	return uc.sweeper.Run(ctx)
}

func (uc *DisputeUseCase) joinOrders(ctx context.Context, disputes []*entity.Dispute) []*DisputeWithOrder {
	items := make([]*DisputeWithOrder, 0, len(disputes))
	for _, dispute := range disputes {
		item := &DisputeWithOrder{Dispute: dispute}
		if order, err := uc.orderRepo.GetByID(ctx, dispute.OrderID); err == nil {
			item.Order = order
		} else {
			logger.Warn("Failed to load order %s for dispute %s: %v", dispute.OrderID, dispute.ID, err)
		}
		items = append(items, item)
	}
	return items
}

func (uc *DisputeUseCase) escalateLateResponse(ctx context.Context, dispute *entity.Dispute, sellerID string, now time.Time) {
	err := uc.disputeRepo.EscalateToReview(ctx, dispute.ID, now)
	if err != nil && err != repository.ErrStateChanged {
		logger.Warn("Failed to escalate dispute %s after late response: %v", dispute.ID, err)
		return
	}

	uc.appendLog(ctx, dispute, sellerID, "seller", entity.ActionLateResponseRejected, map[string]interface{}{
		"seller_deadline": dispute.SellerDeadline,
	})

	if err == nil {
		uc.appendLog(ctx, dispute, "", "system", entity.ActionAutoEscalated, map[string]interface{}{
			"seller_deadline": dispute.SellerDeadline,
		})
		recipients := append(uc.notifier.AdminRecipients(ctx), dispute.ClientID, dispute.SellerID)
		uc.notifier.Fanout("", entity.NotificationDisputeEscalated, map[string]interface{}{
			"dispute_id": dispute.ID,
			"order_id":   dispute.OrderID,
		}, recipients...)
	}
}

func (uc *DisputeUseCase) sweepBestEffort(ctx context.Context) {
	if _, err := uc.sweeper.Run(ctx); err != nil {
		logger.Warn("Inline deadline sweep failed: %v", err)
	}
}

func (uc *DisputeUseCase) appendLog(ctx context.Context, dispute *entity.Dispute, actorID, actorRole string, action entity.ActionLogAction, metadata map[string]interface{}) {
	entry := &entity.ActionLogEntry{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		ActorID:   actorID,
		ActorRole: actorRole,
		Action:    action,
		Metadata:  metadata,
	}
	if err := uc.logRepo.Append(ctx, entry); err != nil {
		logger.Warn("Failed to append %s log for dispute %s: %v", action, dispute.ID, err)
	}
}

// appendProofsCapped accumulates seller proofs across submissions, capped at
// the shared proof limit.
func appendProofsCapped(existing, incoming []entity.ProofFile) []entity.ProofFile {
	combined := make([]entity.ProofFile, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)
	if len(combined) > entity.MaxProofFiles {
		combined = combined[:entity.MaxProofFiles]
	}
	return combined
}

// resolveStatus maps an admin ruling to a terminal status. An explicit favor
// always wins over the resolution-type default.
func resolveStatus(favor string, resolutionType entity.ResolutionType) entity.DisputeStatus {
	switch favor {
	case "seller":
		return entity.DisputeStatusResolvedSeller
	case "client":
		return entity.DisputeStatusResolvedClient
	}
	if resolutionType == entity.ResolutionReject {
		return entity.DisputeStatusRejected
	}
	return entity.DisputeStatusResolvedClient
}

// reputationDeltas returns the one-time counter adjustments for a terminal
// status. A rejected dispute moves counters but no reputation.
func reputationDeltas(status entity.DisputeStatus) (client, seller repository.UserDisputeDelta) {
	switch status {
	case entity.DisputeStatusResolvedClient:
		client = repository.UserDisputeDelta{Won: 1, Reputation: 1}
		seller = repository.UserDisputeDelta{Lost: 1, Reputation: -2}
	case entity.DisputeStatusResolvedSeller:
		seller = repository.UserDisputeDelta{ResolvedForSeller: 1, Reputation: 1}
	case entity.DisputeStatusRejected:
		client = repository.UserDisputeDelta{Rejected: 1}
	}
	return client, seller
}
