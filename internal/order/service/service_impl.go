package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	"github.com/smallbiznis/retailerp/internal/cache"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/internal/invalidation"
	inventorydomain "github.com/smallbiznis/retailerp/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	"github.com/smallbiznis/retailerp/internal/observability/logger"
	"github.com/smallbiznis/retailerp/internal/observability/metrics"
	"github.com/smallbiznis/retailerp/internal/observability/tracing"
	"github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/smallbiznis/retailerp/internal/order/pricing"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	tracerName       = "github.com/smallbiznis/retailerp/internal/order"
	referenceTypeOrd = "order"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       config.Config
	RetailCfg *config.RetailConfigHolder
	Repo      domain.Repository

	Numbering numberingdomain.Service
	Inventory inventorydomain.Service
	Loyalty   loyaltydomain.Service
	Customers customerdomain.Service

	PaymentMethods  cache.PaymentMethodCache `optional:"true"`
	Notifier        invalidation.Notifier    `optional:"true"`
	AuditSvc        auditdomain.Service      `optional:"true"`
	Metrics         *metrics.Metrics         `optional:"true"`
	CheckoutMetrics *metrics.CheckoutMetrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	txTimeout time.Duration
	retailCfg *config.RetailConfigHolder
	repo      domain.Repository

	numbering numberingdomain.Service
	inventory inventorydomain.Service
	loyalty   loyaltydomain.Service
	customers customerdomain.Service

	paymentMethods  cache.PaymentMethodCache
	notifier        invalidation.Notifier
	auditSvc        auditdomain.Service
	metrics         *metrics.Metrics
	checkoutMetrics *metrics.CheckoutMetrics
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	methods := p.PaymentMethods
	if methods == nil {
		methods = cache.NewPaymentMethodCache()
	}
	notifier := p.Notifier
	if notifier == nil {
		notifier = invalidation.NewNoop()
	}

	return &Service{
		db:              p.DB,
		log:             p.Log.Named("order.service"),
		genID:           p.GenID,
		clock:           clk,
		txTimeout:       p.Cfg.OrderTxTimeout,
		retailCfg:       p.RetailCfg,
		repo:            p.Repo,
		numbering:       p.Numbering,
		inventory:       p.Inventory,
		loyalty:         p.Loyalty,
		customers:       p.Customers,
		paymentMethods:  methods,
		notifier:        notifier,
		auditSvc:        p.AuditSvc,
		metrics:         p.Metrics,
		checkoutMetrics: p.CheckoutMetrics,
	}
}

// checkout is a validated request ready to be persisted.
type checkout struct {
	customerID *snowflake.ID
	lines      []line
	payments   []tender
	totals     pricing.Totals
	paid       decimal.Decimal
	change     decimal.Decimal
}

type line struct {
	productID snowflake.ID
	name      string
	sku       string
	quantity  int64
	unitPrice decimal.Decimal
	discount  decimal.Decimal
	subtotal  decimal.Decimal
}

type tender struct {
	methodID  snowflake.ID
	amount    decimal.Decimal
	reference string
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (order domain.Order, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "order.create")
	started := time.Now()
	defer func() {
		s.observe(ctx, started, len(req.Items), err)
		if err != nil {
			span.SetStatus(codes.Error, tracing.SafeError(err).Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int("order.item_count", len(req.Items)),
		attribute.Int("order.payment_count", len(req.Payments)),
	)

	co, err := s.prepare(ctx, req)
	if err != nil {
		return domain.Order{}, err
	}

	order, err = s.persist(ctx, req, co)
	if err != nil {
		return domain.Order{}, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.no", order.OrderNo),
		attribute.String("order.total", order.TotalAmount.StringFixed(2)),
	)
	s.afterCommit(ctx, order, co)
	return order, nil
}

// prepare runs every check that needs no transaction: request shape,
// referenced customer and payment methods, stock, totals and tender.
func (s *Service) prepare(ctx context.Context, req domain.CreateOrderRequest) (checkout, error) {
	co, verrs := parseRequest(req)
	if len(verrs) > 0 {
		return checkout{}, verrs
	}

	if err := s.validateReferences(ctx, co, verrs); err != nil {
		return checkout{}, err
	}
	if len(verrs) > 0 {
		return checkout{}, verrs
	}

	if err := s.checkStock(ctx, co.lines); err != nil {
		return checkout{}, err
	}

	pricingLines := make([]pricing.Line, len(co.lines))
	for i, l := range co.lines {
		pricingLines[i] = pricing.Line{Quantity: l.quantity, UnitPrice: l.unitPrice, Discount: l.discount}
	}
	co.totals = pricing.ComputeTotals(pricingLines, s.retailCfg.Get().TaxRateDecimal())

	amounts := make([]decimal.Decimal, len(co.payments))
	for i, p := range co.payments {
		amounts[i] = p.amount
	}
	co.paid = pricing.Sum(amounts...)
	if co.paid.LessThan(co.totals.Total) {
		return checkout{}, &domain.InsufficientPaymentError{Required: co.totals.Total, Received: co.paid}
	}
	co.change = pricing.Change(co.totals.Total, co.paid)
	return co, nil
}

func parseRequest(req domain.CreateOrderRequest) (checkout, domain.ValidationErrors) {
	verrs := domain.ValidationErrors{}
	co := checkout{}

	if len(req.Items) == 0 {
		verrs.Add("items", "at least one item is required")
	}
	for i, item := range req.Items {
		field := fmt.Sprintf("items.%d", i)

		productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || productID <= 0 {
			verrs.Add(field+".product_id", "must be a valid id")
		}
		name := strings.TrimSpace(item.ProductName)
		if name == "" {
			verrs.Add(field+".product_name", "is required")
		}
		if item.Quantity <= 0 {
			verrs.Add(field+".quantity", "must be greater than zero")
		}
		if item.UnitPrice.IsNegative() {
			verrs.Add(field+".unit_price", "cannot be negative")
		}
		if item.Discount.IsNegative() {
			verrs.Add(field+".discount", "cannot be negative")
		} else if item.Quantity > 0 && item.Discount.GreaterThan(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))) {
			verrs.Add(field+".discount", "cannot exceed the line amount")
		}

		l := line{
			productID: productID,
			name:      name,
			sku:       strings.TrimSpace(item.ProductSKU),
			quantity:  item.Quantity,
			unitPrice: item.UnitPrice.Round(2),
			discount:  item.Discount.Round(2),
		}
		l.subtotal = pricing.LineSubtotal(pricing.Line{Quantity: l.quantity, UnitPrice: l.unitPrice, Discount: l.discount})
		co.lines = append(co.lines, l)
	}

	if len(req.Payments) == 0 {
		verrs.Add("payments", "at least one payment is required")
	}
	for i, payment := range req.Payments {
		field := fmt.Sprintf("payments.%d", i)

		methodID, err := snowflake.ParseString(strings.TrimSpace(payment.PaymentMethodID))
		if err != nil || methodID <= 0 {
			verrs.Add(field+".payment_method_id", "must be a valid id")
		}
		if !payment.Amount.IsPositive() {
			verrs.Add(field+".amount", "must be greater than zero")
		}
		co.payments = append(co.payments, tender{
			methodID:  methodID,
			amount:    payment.Amount.Round(2),
			reference: strings.TrimSpace(payment.Reference),
		})
	}

	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil || customerID <= 0 {
			verrs.Add("customer_id", "must be a valid id")
		} else {
			co.customerID = &customerID
		}
	}

	return co, verrs
}

func (s *Service) validateReferences(ctx context.Context, co checkout, verrs domain.ValidationErrors) error {
	if co.customerID != nil {
		_, err := s.customers.GetByID(ctx, co.customerID.String())
		switch {
		case errors.Is(err, customerdomain.ErrNotFound):
			verrs.Add("customer_id", "customer not found")
		case err != nil:
			return &domain.TransactionFailedError{Err: err}
		}
	}

	for i, payment := range co.payments {
		_, ok, err := s.paymentMethod(ctx, payment.methodID)
		if err != nil {
			return &domain.TransactionFailedError{Err: err}
		}
		if !ok {
			verrs.Add(fmt.Sprintf("payments.%d.payment_method_id", i), "payment method is not available")
		}
	}
	return nil
}

func (s *Service) paymentMethod(ctx context.Context, id snowflake.ID) (domain.PaymentMethod, bool, error) {
	if method, ok, loaded := s.paymentMethods.Lookup(id.String()); loaded {
		return method, ok, nil
	}

	methods, err := s.repo.ListPaymentMethods(ctx, s.db, true)
	if err != nil {
		return domain.PaymentMethod{}, false, err
	}
	s.paymentMethods.Store(methods)

	method, ok, _ := s.paymentMethods.Lookup(id.String())
	return method, ok, nil
}

// checkStock reports every short product at once. Quantities of repeated
// products are summed first.
func (s *Service) checkStock(ctx context.Context, lines []line) error {
	type demand struct {
		index    int
		name     string
		quantity int64
	}
	order := make([]snowflake.ID, 0, len(lines))
	demands := make(map[snowflake.ID]*demand, len(lines))
	for i, l := range lines {
		d, ok := demands[l.productID]
		if !ok {
			d = &demand{index: i, name: l.name}
			demands[l.productID] = d
			order = append(order, l.productID)
		}
		d.quantity += l.quantity
	}

	shortage := &domain.StockShortageError{}
	for _, productID := range order {
		d := demands[productID]
		err := s.inventory.CheckAvailability(ctx, productID, d.quantity)
		if err == nil {
			continue
		}

		var stockErr *inventorydomain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			shortage.Items = append(shortage.Items, domain.StockShortage{
				LineIndex:   d.index,
				ProductID:   productID,
				ProductName: d.name,
				Requested:   d.quantity,
				Available:   stockErr.Available,
			})
		case errors.Is(err, inventorydomain.ErrNoInventoryRecord):
			shortage.Items = append(shortage.Items, domain.StockShortage{
				LineIndex:   d.index,
				ProductID:   productID,
				ProductName: d.name,
				Requested:   d.quantity,
				NotStocked:  true,
			})
		default:
			return &domain.TransactionFailedError{Err: err}
		}
	}

	if len(shortage.Items) > 0 {
		return shortage
	}
	return nil
}

func (s *Service) persist(ctx context.Context, req domain.CreateOrderRequest, co checkout) (domain.Order, error) {
	txCtx := ctx
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	ruleCode := s.retailCfg.Get().OrderRuleCode
	cashierID := cashierFromContext(ctx)

	var order domain.Order
	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		orderNo, err := s.numbering.GenerateNext(txCtx, tx, ruleCode)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		order = domain.Order{
			ID:            s.genID.Generate(),
			OrderNo:       orderNo,
			Status:        domain.OrderStatusCompleted,
			PaymentStatus: domain.PaymentStatusPaid,
			CustomerID:    co.customerID,
			CashierID:     cashierID,
			PromotionID:   strings.TrimSpace(req.PromotionID),
			Subtotal:      co.totals.Subtotal,
			TaxAmount:     co.totals.Tax,
			TotalAmount:   co.totals.Total,
			PaidAmount:    co.paid,
			ChangeAmount:  co.change,
			Notes:         strings.TrimSpace(req.Notes),
			OrderDate:     now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.InsertOrder(txCtx, tx, &order); err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(co.lines))
		for i, l := range co.lines {
			item := domain.OrderItem{
				ID:          s.genID.Generate(),
				OrderID:     order.ID,
				ProductID:   l.productID,
				ProductName: l.name,
				ProductSKU:  l.sku,
				Quantity:    l.quantity,
				UnitPrice:   l.unitPrice,
				Discount:    l.discount,
				Subtotal:    l.subtotal,
				CreatedAt:   now,
			}
			if err := s.repo.InsertItems(txCtx, tx, []domain.OrderItem{item}); err != nil {
				return err
			}

			err := s.inventory.Decrement(txCtx, tx, inventorydomain.DecrementRequest{
				ProductID:     l.productID,
				Quantity:      l.quantity,
				ReferenceType: referenceTypeOrd,
				ReferenceID:   orderNo,
			})
			if err != nil {
				return lineStockError(i, l, err)
			}
			items = append(items, item)
		}
		order.Items = items

		payments := make([]domain.Payment, 0, len(co.payments))
		for _, p := range co.payments {
			payments = append(payments, domain.Payment{
				ID:              s.genID.Generate(),
				OrderID:         order.ID,
				PaymentMethodID: p.methodID,
				Amount:          p.amount,
				Status:          domain.PaymentStatusPaid,
				Reference:       p.reference,
				PaidAt:          now,
				CreatedAt:       now,
			})
		}
		if err := s.repo.InsertPayments(txCtx, tx, payments); err != nil {
			return err
		}
		order.Payments = payments

		if co.customerID == nil {
			return nil
		}
		accrued, err := s.loyalty.Accrue(txCtx, tx, loyaltydomain.AccrueRequest{
			CustomerID:  *co.customerID,
			OrderID:     order.ID,
			OrderNo:     orderNo,
			TotalAmount: order.TotalAmount,
		})
		if err != nil {
			return err
		}
		if accrued.Points > 0 {
			if err := s.repo.UpdateEarnedPoints(txCtx, tx, order.ID, accrued.Points, now); err != nil {
				return err
			}
		}
		order.EarnedPoints = accrued.Points
		return nil
	})
	if err != nil {
		return domain.Order{}, s.classifyTxError(ctx, err)
	}
	return order, nil
}

func lineStockError(index int, l line, err error) error {
	var stockErr *inventorydomain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return &domain.StockShortageError{Items: []domain.StockShortage{{
			LineIndex:   index,
			ProductID:   l.productID,
			ProductName: l.name,
			Requested:   l.quantity,
			Available:   stockErr.Available,
		}}}
	case errors.Is(err, inventorydomain.ErrNoInventoryRecord):
		return &domain.StockShortageError{Items: []domain.StockShortage{{
			LineIndex:   index,
			ProductID:   l.productID,
			ProductName: l.name,
			Requested:   l.quantity,
			NotStocked:  true,
		}}}
	default:
		return err
	}
}

// classifyTxError keeps business failures as they are and wraps the rest.
func (s *Service) classifyTxError(ctx context.Context, err error) error {
	var (
		verrs    domain.ValidationErrors
		shortage *domain.StockShortageError
	)
	switch {
	case errors.As(err, &shortage):
		return shortage
	case errors.As(err, &verrs):
		return verrs
	case errors.Is(err, numberingdomain.ErrRuleNotFound), errors.Is(err, numberingdomain.ErrRuleInactive):
		return err
	case errors.Is(err, loyaltydomain.ErrCustomerNotFound):
		return domain.ValidationErrors{"customer_id": {"customer not found"}}
	}

	logger.WithContext(ctx, s.log).Error("order transaction failed", zap.Error(err))
	return &domain.TransactionFailedError{Err: err}
}

func (s *Service) afterCommit(ctx context.Context, order domain.Order, co checkout) {
	log := logger.WithOrder(logger.WithContext(ctx, s.log), order.ID.String(), order.OrderNo)
	log.Info("order created",
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(co.lines)),
		zap.Int64("earned_points", order.EarnedPoints),
	)

	invalidation.Signal(ctx, s.notifier, log, invalidation.GroupOrders, invalidation.GroupInventory, invalidation.GroupPOS)

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, string(order.PaymentStatus), order.TotalAmount.InexactFloat64())
		s.metrics.RecordNumberGenerated(ctx, s.retailCfg.Get().OrderRuleCode)
		s.metrics.RecordStockMovement(ctx, string(inventorydomain.MovementSale), len(co.lines))
		if order.EarnedPoints > 0 {
			s.metrics.RecordPointsAwarded(ctx, order.EarnedPoints)
		}
	}

	if s.auditSvc == nil {
		return
	}
	targetID := order.ID.String()
	metadata := map[string]any{
		"order_no":      order.OrderNo,
		"total_amount":  order.TotalAmount.StringFixed(2),
		"paid_amount":   order.PaidAmount.StringFixed(2),
		"item_count":    len(co.lines),
		"earned_points": order.EarnedPoints,
	}
	if order.CustomerID != nil {
		metadata["customer_id"] = order.CustomerID.String()
	}
	_ = s.auditSvc.AuditLog(ctx, "", nil, "order.create", "order", &targetID, metadata)
}

func (s *Service) observe(ctx context.Context, started time.Time, items int, err error) {
	outcome, reason := checkoutOutcome(err)
	if s.checkoutMetrics != nil {
		s.checkoutMetrics.ObserveCheckout(outcome, reason, time.Since(started))
		if err == nil {
			s.checkoutMetrics.ObserveItems(items)
		}
	}
	if err != nil && s.metrics != nil {
		s.metrics.RecordCheckoutRejected(ctx, reason)
	}
}

func checkoutOutcome(err error) (string, string) {
	var failed *domain.TransactionFailedError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess, ""
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeRejected, metrics.ReasonValidation
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return metrics.OutcomeRejected, metrics.ReasonInsufficientStock
	case errors.Is(err, domain.ErrInsufficientPayment):
		return metrics.OutcomeRejected, metrics.ReasonInsufficientPayment
	case errors.Is(err, numberingdomain.ErrRuleNotFound), errors.Is(err, numberingdomain.ErrRuleInactive):
		return metrics.OutcomeRejected, metrics.ReasonNumbering
	case errors.As(err, &failed):
		return metrics.OutcomeFailed, metrics.ClassifyFailureReason(failed.Err)
	default:
		return metrics.OutcomeFailed, metrics.ClassifyFailureReason(err)
	}
}

func cashierFromContext(ctx context.Context) string {
	kind, id := obscontext.ActorFromContext(ctx)
	if kind != "cashier" {
		return ""
	}
	return id
}

func (s *Service) Checkout(ctx context.Context, req domain.CreateOrderRequest) domain.Result {
	order, err := s.CreateOrder(ctx, req)
	if err == nil {
		return domain.Result{
			Success: true,
			Message: fmt.Sprintf("Order %s created", order.OrderNo),
			Data: &domain.ResultData{
				OrderID:      order.ID.String(),
				OrderNo:      order.OrderNo,
				TotalAmount:  order.TotalAmount,
				ChangeAmount: order.ChangeAmount,
				EarnedPoints: order.EarnedPoints,
			},
		}
	}

	var (
		verrs    domain.ValidationErrors
		shortage *domain.StockShortageError
		payment  *domain.InsufficientPaymentError
	)
	switch {
	case errors.As(err, &verrs):
		return domain.Result{
			Code:    domain.ResultCodeValidation,
			Message: "The order request is invalid",
			Errors:  verrs,
		}
	case errors.As(err, &shortage):
		fields := map[string][]string{}
		names := make([]string, 0, len(shortage.Items))
		for _, item := range shortage.Items {
			field := fmt.Sprintf("items.%d.quantity", item.LineIndex)
			if item.NotStocked {
				fields[field] = append(fields[field], fmt.Sprintf("product %s is not stocked", item.ProductID))
			} else {
				fields[field] = append(fields[field], fmt.Sprintf("product %s: requested %d, available %d", item.ProductID, item.Requested, item.Available))
			}
			names = append(names, item.ProductName)
		}
		return domain.Result{
			Code:    domain.ResultCodeInsufficientStock,
			Message: "Insufficient stock for " + strings.Join(names, ", "),
			Errors:  fields,
		}
	case errors.As(err, &payment):
		return domain.Result{
			Code: domain.ResultCodeInsufficientPayment,
			Message: fmt.Sprintf("Payment of %s does not cover the total of %s",
				payment.Received.StringFixed(2), payment.Required.StringFixed(2)),
			Errors: map[string][]string{
				"payments": {fmt.Sprintf("required %s, received %s", payment.Required.StringFixed(2), payment.Received.StringFixed(2))},
			},
		}
	case errors.Is(err, numberingdomain.ErrRuleNotFound), errors.Is(err, numberingdomain.ErrRuleInactive):
		return domain.Result{
			Code:    domain.ResultCodeNumbering,
			Message: "Order numbering is not configured",
		}
	default:
		logger.WithContext(ctx, s.log).Error("checkout failed", zap.Error(err))
		return domain.Result{
			Code:    domain.ResultCodeInternal,
			Message: "The order could not be completed. Please try again.",
		}
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Order, error) {
	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || orderID <= 0 {
		return domain.Order{}, domain.ErrInvalidID
	}

	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}

	items, err := s.repo.ListItems(ctx, s.db, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	payments, err := s.repo.ListPayments(ctx, s.db, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	order.Payments = payments
	return *order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrderRequest) (domain.ListOrderResponse, error) {
	pos, err := req.Position()
	if err != nil {
		return domain.ListOrderResponse{}, err
	}

	filter := domain.ListOrderFilter{
		Status: domain.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		From:   req.From,
		To:     req.To,
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil || customerID <= 0 {
			return domain.ListOrderResponse{}, domain.ErrInvalidID
		}
		filter.CustomerID = &customerID
	}

	limit := req.Limit()
	items, err := s.repo.List(ctx, s.db, filter, pos, limit)
	if err != nil {
		return domain.ListOrderResponse{}, err
	}

	items, pageInfo := pagination.Page(items, limit, func(o *domain.Order) (snowflake.ID, time.Time) {
		return o.ID, o.CreatedAt
	})

	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		orders = append(orders, *item)
	}
	return domain.ListOrderResponse{PageInfo: pageInfo, Orders: orders}, nil
}

func (s *Service) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := s.repo.ListPaymentMethods(ctx, s.db, true)
	if err != nil {
		return nil, err
	}
	s.paymentMethods.Store(methods)
	return methods, nil
}
