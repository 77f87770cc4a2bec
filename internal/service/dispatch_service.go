package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/provider"
	"github.com/fairwaygolf/tour-messaging-backend/internal/queue"
	"github.com/fairwaygolf/tour-messaging-backend/internal/repository"
	"github.com/fairwaygolf/tour-messaging-backend/internal/retry"
	"github.com/fairwaygolf/tour-messaging-backend/internal/template"
)

// DispatchService runs the outbound send path: variable auto-fill,
// template rendering, provider send with retry, and best-effort logging.
type DispatchService interface {
	Send(ctx context.Context, req *SendMessageRequest) (*SendMessageResult, error)
	Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error)
	EnqueueBulk(ctx context.Context, req *SendMessageRequest) (*BulkSendResult, error)
	ListLogs(ctx context.Context, filter models.MessageLogFilter) (*MessageLogListResult, error)
}

// DispatchConfig tunes the retry and bulk chunking behaviour
type DispatchConfig struct {
	MaxAttempts    int
	RetryBaseDelay time.Duration
	BulkChunkSize  int
}

type dispatchService struct {
	templateRepo     repository.TemplateRepository
	customerRepo     repository.CustomerRepository
	logRepo          repository.MessageLogRepository
	renderer         template.Renderer
	smsProvider      provider.Provider
	alimtalkProvider provider.Provider
	queueClient      queue.Client
	cfg              DispatchConfig
	logger           *slog.Logger
}

// NewDispatchService creates a new dispatch service. alimtalkProvider
// receives alimtalk sends; every other kind goes to smsProvider.
func NewDispatchService(
	templateRepo repository.TemplateRepository,
	customerRepo repository.CustomerRepository,
	logRepo repository.MessageLogRepository,
	renderer template.Renderer,
	smsProvider provider.Provider,
	alimtalkProvider provider.Provider,
	queueClient queue.Client,
	cfg DispatchConfig,
	logger *slog.Logger,
) DispatchService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.BulkChunkSize < 1 {
		cfg.BulkChunkSize = 100
	}

	return &dispatchService{
		templateRepo:     templateRepo,
		customerRepo:     customerRepo,
		logRepo:          logRepo,
		renderer:         renderer,
		smsProvider:      smsProvider,
		alimtalkProvider: alimtalkProvider,
		queueClient:      queueClient,
		cfg:              cfg,
		logger:           logger,
	}
}

// resolvedContent is the template/body input after template lookup
type resolvedContent struct {
	content           string
	title             *string
	kakaoTemplateCode string
	buttons           []byte
}

// resolve loads the referenced template, if any. Caller-supplied title
// wins over the template's own title.
func (s *dispatchService) resolve(ctx context.Context, templateID *int64, content string, title *string) (*resolvedContent, error) {
	rc := &resolvedContent{content: content, title: title}

	if templateID == nil {
		return rc, nil
	}

	tmpl, err := s.templateRepo.GetByID(ctx, *templateID)
	if err != nil {
		return nil, err
	}

	if rc.content == "" {
		rc.content = tmpl.Content
	}
	if rc.title == nil {
		rc.title = tmpl.Title
	}
	if tmpl.KakaoTemplateCode != nil {
		rc.kakaoTemplateCode = *tmpl.KakaoTemplateCode
	}
	rc.buttons = tmpl.Buttons

	return rc, nil
}

// autoFillVariables builds the per-recipient variable map. Linked customer
// data and the latest booking are merged first, then caller variables win
// on key collision.
func (s *dispatchService) autoFillVariables(ctx context.Context, recipient *models.Recipient, callerVars map[string]string) map[string]string {
	vars := map[string]string{}

	if recipient.Name != "" {
		vars["name"] = recipient.Name
	}
	vars["phone"] = recipient.Phone

	if recipient.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *recipient.CustomerID)
		if err != nil {
			s.logger.Warn("customer lookup failed, sending without auto-fill",
				slog.Int64("customer_id", *recipient.CustomerID),
				slog.String("error", err.Error()),
			)
		} else {
			vars["name"] = customer.Name
			vars["phone"] = customer.Phone
			vars["email"] = customer.Email

			booking, err := s.customerRepo.GetLatestBooking(ctx, *recipient.CustomerID)
			if err != nil {
				s.logger.Debug("no booking found for customer",
					slog.Int64("customer_id", *recipient.CustomerID),
				)
			} else {
				vars["tour_name"] = booking.TourTitle
				vars["departure_date"] = booking.DepartureDate.Format("2006-01-02")
				vars["amount"] = strconv.FormatInt(booking.Amount, 10)
			}
		}
	}

	for k, v := range callerVars {
		vars[k] = v
	}

	return vars
}

// providerFor routes a message kind to its adapter
func (s *dispatchService) providerFor(kind string) provider.Provider {
	if kind == models.KindAlimtalk {
		return s.alimtalkProvider
	}
	return s.smsProvider
}

// Send processes recipients sequentially, in input order, within the
// request. A failure for one recipient never aborts the batch.
func (s *dispatchService) Send(ctx context.Context, req *SendMessageRequest) (*SendMessageResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rc, err := s.resolve(ctx, req.TemplateID, req.Content, req.Title)
	if err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	result := &SendMessageResult{
		Total:   len(req.Recipients),
		Results: make([]*models.SendResult, 0, len(req.Recipients)),
	}

	s.logger.Info("dispatch started",
		slog.String("group_id", groupID),
		slog.String("type", req.Kind),
		slog.Int("recipients", len(req.Recipients)),
	)

	for i := range req.Recipients {
		recipient := &req.Recipients[i]
		result.Results = append(result.Results, s.sendOne(ctx, recipient, rc, req, groupID, result))
	}

	result.Success = result.Failed == 0

	s.logger.Info("dispatch finished",
		slog.String("group_id", groupID),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int("cost", result.Cost),
	)

	return result, nil
}

// sendOne handles a single recipient: auto-fill, render, retry-send, log
func (s *dispatchService) sendOne(
	ctx context.Context,
	recipient *models.Recipient,
	rc *resolvedContent,
	req *SendMessageRequest,
	groupID string,
	agg *SendMessageResult,
) *models.SendResult {
	vars := s.autoFillVariables(ctx, recipient, req.Variables)

	body := s.renderer.Render(rc.content, vars)
	var title *string
	if rc.title != nil {
		rendered := s.renderer.Render(*rc.title, vars)
		title = &rendered
	}

	kind := provider.ResolveKind(req.Kind, body)
	prov := s.providerFor(kind)
	phone := provider.NormalizePhone(recipient.Phone)

	msg := &provider.Message{
		Kind:              kind,
		To:                recipient.Phone,
		Body:              body,
		KakaoTemplateCode: rc.kakaoTemplateCode,
		Buttons:           rc.buttons,
	}
	if title != nil {
		msg.Title = *title
	}

	var provResult *provider.Result
	sendErr := retry.Do(ctx, s.cfg.MaxAttempts, s.cfg.RetryBaseDelay, func() error {
		r, err := prov.Send(ctx, msg)
		if err != nil {
			return err
		}
		provResult = r
		return nil
	})

	sr := &models.SendResult{Phone: phone}
	logRow := &models.MessageLog{
		CustomerID:  recipient.CustomerID,
		MessageType: kind,
		PhoneNumber: phone,
		Title:       title,
		Content:     body,
		SentAt:      time.Now(),
	}

	if sendErr != nil {
		errMsg := sendErr.Error()
		sr.Success = false
		sr.Error = errMsg
		logRow.Status = models.LogStatusFailed
		logRow.ErrorMessage = &errMsg
		agg.Failed++

		s.logger.Warn("message send failed",
			slog.String("group_id", groupID),
			slog.String("phone", phone),
			slog.String("provider", prov.Name()),
			slog.String("error", errMsg),
		)
	} else {
		cost := prov.Cost(kind)
		sr.Success = true
		sr.MessageID = provResult.MessageID
		sr.Cost = cost
		logRow.Status = models.LogStatusSuccess
		logRow.Cost = cost
		agg.Sent++
		agg.Cost += cost
	}

	// Best-effort telemetry: a log-insert failure never affects the
	// caller-visible result.
	if err := s.logRepo.Insert(ctx, logRow); err != nil {
		s.logger.Error("failed to insert message log",
			slog.String("group_id", groupID),
			slog.String("phone", phone),
			slog.String("error", err.Error()),
		)
	}

	return sr
}

// Preview renders the message for a single recipient without sending
func (s *dispatchService) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rc, err := s.resolve(ctx, req.TemplateID, req.Content, nil)
	if err != nil {
		return nil, err
	}

	vars := s.autoFillVariables(ctx, &req.Recipient, req.Variables)
	body := s.renderer.Render(rc.content, vars)

	result := &PreviewResult{
		RenderedContent: body,
		Kind:            provider.ResolveKind("", body),
		Phone:           provider.NormalizePhone(req.Recipient.Phone),
	}
	if rc.title != nil {
		rendered := s.renderer.Render(*rc.title, vars)
		result.RenderedTitle = &rendered
	}

	return result, nil
}

// EnqueueBulk splits the recipients into chunks and queues one job per
// chunk for the worker. Publish failures fail the request.
func (s *dispatchService) EnqueueBulk(ctx context.Context, req *SendMessageRequest) (*BulkSendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Validate the template reference up front so a bad ID fails the
	// request instead of every queued job.
	if _, err := s.resolve(ctx, req.TemplateID, req.Content, req.Title); err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	queued := 0

	for start := 0; start < len(req.Recipients); start += s.cfg.BulkChunkSize {
		end := start + s.cfg.BulkChunkSize
		if end > len(req.Recipients) {
			end = len(req.Recipients)
		}

		job := &models.BulkSendJob{
			JobID:      fmt.Sprintf("%s-%d", groupID, queued),
			Kind:       req.Kind,
			Recipients: req.Recipients[start:end],
			TemplateID: req.TemplateID,
			Title:      req.Title,
			Content:    req.Content,
			Variables:  req.Variables,
		}

		if err := s.queueClient.Publish(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to queue bulk send job: %w", err)
		}
		queued++
	}

	s.logger.Info("bulk send queued",
		slog.String("group_id", groupID),
		slog.Int("jobs", queued),
		slog.Int("recipients", len(req.Recipients)),
	)

	return &BulkSendResult{
		JobsQueued: queued,
		Recipients: len(req.Recipients),
		GroupID:    groupID,
	}, nil
}

// ListLogs retrieves message logs with pagination
func (s *dispatchService) ListLogs(ctx context.Context, filter models.MessageLogFilter) (*MessageLogListResult, error) {
	logs, totalCount, err := s.logRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	return &MessageLogListResult{
		Data:       logs,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, totalCount),
	}, nil
}
