package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/retry"
)

// AligoConfig holds Aligo aggregator credentials
type AligoConfig struct {
	BaseURL string
	APIKey  string
	UserID  string
	Sender  string
}

// Aligo is the adapter for the Aligo SMS aggregator. Authentication is a
// static api key + user id sent as form fields; provider errors come back
// as a non-"1" result_code inside a 200 response.
type Aligo struct {
	cfg        AligoConfig
	httpClient *http.Client
}

// aligoKinds maps message kinds to Aligo's msg_type values
var aligoKinds = map[string]string{
	models.KindSMS: "SMS",
	models.KindLMS: "LMS",
	models.KindMMS: "MMS",
}

// aligoCosts is Aligo's per-message price table in KRW
var aligoCosts = map[string]int{
	models.KindSMS:      20,
	models.KindLMS:      50,
	models.KindMMS:      100,
	models.KindAlimtalk: 15,
}

// aligoPermanentCodes are result codes that no retry can fix
var aligoPermanentCodes = map[string]bool{
	"-101": true, // invalid api key
	"-102": true, // unregistered user id
	"-300": true, // insufficient balance
}

type aligoResponse struct {
	ResultCode json.Number `json:"result_code"`
	Message    string      `json:"message"`
	MsgID      json.Number `json:"msg_id"`
}

// NewAligo creates the Aligo adapter. A nil httpClient falls back to the
// shared tuned client.
func NewAligo(cfg AligoConfig, httpClient *http.Client) *Aligo {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &Aligo{cfg: cfg, httpClient: httpClient}
}

// Name returns the adapter name
func (a *Aligo) Name() string {
	return "aligo"
}

// Cost returns the per-message price for kind in KRW
func (a *Aligo) Cost(kind string) int {
	return aligoCosts[kind]
}

// Send performs one form-encoded POST to Aligo's send endpoint
func (a *Aligo) Send(ctx context.Context, msg *Message) (*Result, error) {
	msgType, ok := aligoKinds[msg.Kind]
	if !ok {
		return nil, retry.Permanent(fmt.Errorf("aligo: unsupported message kind %q", msg.Kind))
	}

	form := url.Values{}
	form.Set("key", a.cfg.APIKey)
	form.Set("user_id", a.cfg.UserID)
	form.Set("sender", a.cfg.Sender)
	form.Set("receiver", NormalizePhone(msg.To))
	form.Set("msg", msg.Body)
	form.Set("msg_type", msgType)
	if msg.Kind != models.KindSMS && msg.Title != "" {
		form.Set("title", msg.Title)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/send/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("aligo: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aligo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("aligo: unexpected status %d", resp.StatusCode)
	}

	var body aligoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("aligo: failed to decode response: %w", err)
	}

	if body.ResultCode.String() != "1" {
		sendErr := fmt.Errorf("aligo: send rejected: %s (code %s)", body.Message, body.ResultCode.String())
		if aligoPermanentCodes[body.ResultCode.String()] {
			return nil, retry.Permanent(sendErr)
		}
		return nil, sendErr
	}

	return &Result{MessageID: body.MsgID.String()}, nil
}
