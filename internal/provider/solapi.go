package provider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/retry"
)

// SolapiConfig holds Solapi aggregator credentials. PfID identifies the
// Kakao business channel used for alimtalk.
type SolapiConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Sender    string
	PfID      string
}

// Solapi is the adapter for the Solapi aggregator. Requests are JSON and
// authenticated with an HMAC-SHA256 signature over date+salt.
type Solapi struct {
	cfg        SolapiConfig
	httpClient *http.Client
	now        func() time.Time
	newSalt    func() string
}

// solapiKinds maps message kinds to Solapi's type values
var solapiKinds = map[string]string{
	models.KindSMS:      "SMS",
	models.KindLMS:      "LMS",
	models.KindMMS:      "MMS",
	models.KindAlimtalk: "ATA",
}

// solapiCosts is Solapi's per-message price table in KRW
var solapiCosts = map[string]int{
	models.KindSMS:      20,
	models.KindLMS:      30,
	models.KindMMS:      80,
	models.KindAlimtalk: 9,
}

// solapiPermanentCodes are error codes that no retry can fix
var solapiPermanentCodes = map[string]bool{
	"InvalidAPIKey":         true,
	"APIKeyNotFound":        true,
	"SignatureDoesNotMatch": true,
	"NotEnoughBalance":      true,
}

type solapiKakaoOptions struct {
	PfID       string          `json:"pfId"`
	TemplateID string          `json:"templateId"`
	Buttons    json.RawMessage `json:"buttons,omitempty"`
}

type solapiMessage struct {
	To           string              `json:"to"`
	From         string              `json:"from"`
	Text         string              `json:"text"`
	Subject      string              `json:"subject,omitempty"`
	Type         string              `json:"type"`
	KakaoOptions *solapiKakaoOptions `json:"kakaoOptions,omitempty"`
}

type solapiResponse struct {
	MessageID     string `json:"messageId"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	ErrorCode     string `json:"errorCode"`
	ErrorMessage  string `json:"errorMessage"`
}

// solapiAcceptedCodes are the body status codes meaning the message was
// taken for delivery
var solapiAcceptedCodes = map[string]bool{
	"":     true,
	"2000": true,
	"3000": true,
}

// NewSolapi creates the Solapi adapter. A nil httpClient falls back to
// the shared tuned client.
func NewSolapi(cfg SolapiConfig, httpClient *http.Client) *Solapi {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &Solapi{
		cfg:        cfg,
		httpClient: httpClient,
		now:        time.Now,
		newSalt:    uuid.NewString,
	}
}

// Name returns the adapter name
func (s *Solapi) Name() string {
	return "solapi"
}

// Cost returns the per-message price for kind in KRW
func (s *Solapi) Cost(kind string) int {
	return solapiCosts[kind]
}

// authorization builds the signed Authorization header value
func (s *Solapi) authorization() string {
	date := s.now().UTC().Format(time.RFC3339)
	salt := s.newSalt()

	mac := hmac.New(sha256.New, []byte(s.cfg.APISecret))
	mac.Write([]byte(date + salt))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s",
		s.cfg.APIKey, date, salt, signature)
}

// Send performs one JSON POST to Solapi's send endpoint
func (s *Solapi) Send(ctx context.Context, msg *Message) (*Result, error) {
	msgType, ok := solapiKinds[msg.Kind]
	if !ok {
		return nil, retry.Permanent(fmt.Errorf("solapi: unsupported message kind %q", msg.Kind))
	}

	payload := solapiMessage{
		To:   NormalizePhone(msg.To),
		From: s.cfg.Sender,
		Text: msg.Body,
		Type: msgType,
	}
	if msg.Kind != models.KindSMS {
		payload.Subject = msg.Title
	}
	if msg.Kind == models.KindAlimtalk {
		payload.KakaoOptions = &solapiKakaoOptions{
			PfID:       s.cfg.PfID,
			TemplateID: msg.KakaoTemplateCode,
			Buttons:    msg.Buttons,
		}
	}

	body, err := json.Marshal(map[string]solapiMessage{"message": payload})
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/messages/v4/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.authorization())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	var result solapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("solapi: failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		sendErr := fmt.Errorf("solapi: send rejected: %s (%s)", result.ErrorMessage, result.ErrorCode)
		if solapiPermanentCodes[result.ErrorCode] {
			return nil, retry.Permanent(sendErr)
		}
		return nil, sendErr
	}

	if !solapiAcceptedCodes[result.StatusCode] {
		return nil, fmt.Errorf("solapi: message not accepted: %s (status %s)", result.StatusMessage, result.StatusCode)
	}

	return &Result{MessageID: result.MessageID}, nil
}
