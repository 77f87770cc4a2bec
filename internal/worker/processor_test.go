package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/service"
)

type mockDispatchService struct {
	sendResult *service.SendMessageResult
	sendErr    error
	gotReq     *service.SendMessageRequest
}

func (m *mockDispatchService) Send(ctx context.Context, req *service.SendMessageRequest) (*service.SendMessageResult, error) {
	m.gotReq = req
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return m.sendResult, nil
}

func (m *mockDispatchService) Preview(ctx context.Context, req *service.PreviewRequest) (*service.PreviewResult, error) {
	return nil, nil
}

func (m *mockDispatchService) EnqueueBulk(ctx context.Context, req *service.SendMessageRequest) (*service.BulkSendResult, error) {
	return nil, nil
}

func (m *mockDispatchService) ListLogs(ctx context.Context, filter models.MessageLogFilter) (*service.MessageLogListResult, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobProcessor_Process(t *testing.T) {
	templateID := int64(5)
	title := "투어 안내"

	dispatch := &mockDispatchService{
		sendResult: &service.SendMessageResult{Success: true, Sent: 2, Total: 2},
	}
	processor := NewJobProcessor(dispatch, testLogger())

	job := &models.BulkSendJob{
		JobID: "group-1-0",
		Kind:  models.KindLMS,
		Recipients: []models.Recipient{
			{Name: "홍길동", Phone: "01011111111"},
			{Name: "김철수", Phone: "01022222222"},
		},
		TemplateID: &templateID,
		Title:      &title,
		Content:    "#{name}님 안내드립니다",
		Variables:  map[string]string{"tour_name": "치앙마이 골프"},
	}

	if err := processor.Process(context.Background(), job); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	req := dispatch.gotReq
	if req == nil {
		t.Fatal("dispatch service was not called")
	}
	if req.Kind != models.KindLMS {
		t.Errorf("req.Kind = %q, want lms", req.Kind)
	}
	if len(req.Recipients) != 2 {
		t.Errorf("req.Recipients = %d, want 2", len(req.Recipients))
	}
	if req.TemplateID == nil || *req.TemplateID != templateID {
		t.Error("req.TemplateID should carry the job's template id")
	}
	if req.Title == nil || *req.Title != title {
		t.Error("req.Title should carry the job's title")
	}
	if req.Variables["tour_name"] != "치앙마이 골프" {
		t.Error("req.Variables should carry the job's variables")
	}
}

func TestJobProcessor_Process_DispatchError(t *testing.T) {
	dispatch := &mockDispatchService{sendErr: errors.New("template not found")}
	processor := NewJobProcessor(dispatch, testLogger())

	job := &models.BulkSendJob{
		JobID:      "group-1-0",
		Kind:       models.KindSMS,
		Recipients: []models.Recipient{{Phone: "01011111111"}},
		Content:    "hi",
	}

	err := processor.Process(context.Background(), job)
	if err == nil {
		t.Fatal("Process() error = nil, want error")
	}
	if !errors.Is(err, dispatch.sendErr) {
		t.Errorf("Process() error = %v, want wrapped dispatch error", err)
	}
}

func TestJobProcessor_Process_PartialFailureIsNotAJobError(t *testing.T) {
	dispatch := &mockDispatchService{
		sendResult: &service.SendMessageResult{Success: false, Sent: 1, Failed: 1, Total: 2},
	}
	processor := NewJobProcessor(dispatch, testLogger())

	job := &models.BulkSendJob{
		JobID: "group-1-0",
		Kind:  models.KindSMS,
		Recipients: []models.Recipient{
			{Phone: "01011111111"},
			{Phone: "01022222222"},
		},
		Content: "hi",
	}

	if err := processor.Process(context.Background(), job); err != nil {
		t.Errorf("Process() error = %v, per-recipient failures must not fail the job", err)
	}
}
