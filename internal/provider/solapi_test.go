package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/retry"
)

func newSolapiTestServer(t *testing.T, handler http.HandlerFunc) *Solapi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSolapi(SolapiConfig{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		APISecret: "test-secret",
		Sender:    "0212345678",
		PfID:      "pf-123",
	}, srv.Client())

	return s
}

func TestSolapi_Send_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]map[string]interface{}

	s := newSolapiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"messageId":"M4V1","statusCode":"2000","statusMessage":"accepted"}`))
	})

	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixedTime }
	s.newSalt = func() string { return "fixed-salt" }

	result, err := s.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "010-1234-5678",
		Body: "안녕하세요",
	})

	require.NoError(t, err)
	assert.Equal(t, "M4V1", result.MessageID)

	msg := gotBody["message"]
	assert.Equal(t, "01012345678", msg["to"])
	assert.Equal(t, "0212345678", msg["from"])
	assert.Equal(t, "안녕하세요", msg["text"])
	assert.Equal(t, "SMS", msg["type"])

	date := fixedTime.Format(time.RFC3339)
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte(date + "fixed-salt"))
	wantSig := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t,
		"HMAC-SHA256 apiKey=test-key, date="+date+", salt=fixed-salt, signature="+wantSig,
		gotAuth,
	)
}

func TestSolapi_Send_AlimtalkCarriesKakaoOptions(t *testing.T) {
	var gotBody struct {
		Message solapiMessage `json:"message"`
	}

	s := newSolapiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"messageId":"M4V2","statusCode":"2000"}`))
	})

	_, err := s.Send(context.Background(), &Message{
		Kind:              models.KindAlimtalk,
		To:                "01012345678",
		Body:              "홍길동님 예약이 확정되었습니다",
		KakaoTemplateCode: "TPL001",
		Buttons:           json.RawMessage(`[{"buttonType":"WL","buttonName":"확인"}]`),
	})

	require.NoError(t, err)
	assert.Equal(t, "ATA", gotBody.Message.Type)
	require.NotNil(t, gotBody.Message.KakaoOptions)
	assert.Equal(t, "pf-123", gotBody.Message.KakaoOptions.PfID)
	assert.Equal(t, "TPL001", gotBody.Message.KakaoOptions.TemplateID)
}

func TestSolapi_Send_RejectedStatusCode(t *testing.T) {
	s := newSolapiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode":"4000","statusMessage":"invalid number"}`))
	})

	_, err := s.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "4000")
	assert.True(t, retry.IsRetryable(err))
}

func TestSolapi_Send_BalanceErrorIsPermanent(t *testing.T) {
	s := newSolapiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"errorCode":"NotEnoughBalance","errorMessage":"잔액이 부족합니다"}`))
	})

	_, err := s.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.False(t, retry.IsRetryable(err))
}

func TestSolapi_Send_TransientServerError(t *testing.T) {
	s := newSolapiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errorCode":"InternalError","errorMessage":"try again"}`))
	})

	_, err := s.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.True(t, retry.IsRetryable(err))
}

func TestSolapi_Cost(t *testing.T) {
	s := NewSolapi(SolapiConfig{}, nil)

	assert.Equal(t, 20, s.Cost(models.KindSMS))
	assert.Equal(t, 30, s.Cost(models.KindLMS))
	assert.Equal(t, 80, s.Cost(models.KindMMS))
	assert.Equal(t, 9, s.Cost(models.KindAlimtalk))
}
