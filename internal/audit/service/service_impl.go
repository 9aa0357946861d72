package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	"github.com/smallbiznis/retailerp/internal/clock"
	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
	clock clock.Clock
}

func New(p Params) auditdomain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: clk,
	}
}

func (s *Service) AuditLog(ctx context.Context, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	targetType = strings.TrimSpace(targetType)
	if targetType == "" {
		targetType = "unknown"
	}

	resolvedActorType, resolvedActorID := s.resolveActor(ctx, strings.TrimSpace(actorType), actorID)

	payload := map[string]any{}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	entry := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  resolvedActorType,
		ActorID:    resolvedActorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   normalizePointer(targetID),
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

const (
	defaultListLimit = 50
	maxListLimit     = 250
)

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) ([]auditdomain.AuditLog, error) {
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, auditdomain.ErrInvalidRange
	}
	limit := req.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		Action:     strings.TrimSpace(req.Action),
		TargetType: strings.TrimSpace(req.TargetType),
		TargetID:   strings.TrimSpace(req.TargetID),
		ActorID:    strings.TrimSpace(req.ActorID),
		From:       req.From,
		To:         req.To,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	logs := make([]auditdomain.AuditLog, 0, len(items))
	for _, item := range items {
		if item != nil {
			logs = append(logs, *item)
		}
	}
	return logs, nil
}

// resolveActor prefers explicit arguments, then the actor the request
// middleware put on ctx, then "system" for background jobs.
func (s *Service) resolveActor(ctx context.Context, actorType string, actorID *string) (string, *string) {
	if actorType != "" {
		return actorType, normalizePointer(actorID)
	}
	ctxType, ctxID := obscontext.ActorFromContext(ctx)
	if ctxType == "" {
		return string(auditdomain.ActorTypeSystem), normalizePointer(actorID)
	}
	if id := normalizePointer(actorID); id != nil {
		return ctxType, id
	}
	return ctxType, normalizePointer(&ctxID)
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
