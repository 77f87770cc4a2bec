package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/retry"
)

func newAligoTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Aligo) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := NewAligo(AligoConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		UserID:  "test-user",
		Sender:  "0212345678",
	}, srv.Client())

	return srv, a
}

func TestAligo_Send_Success(t *testing.T) {
	var gotForm map[string]string

	_, a := newAligoTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"key":      r.PostFormValue("key"),
			"user_id":  r.PostFormValue("user_id"),
			"sender":   r.PostFormValue("sender"),
			"receiver": r.PostFormValue("receiver"),
			"msg":      r.PostFormValue("msg"),
			"msg_type": r.PostFormValue("msg_type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result_code":1,"message":"success","msg_id":553344}`))
	})

	result, err := a.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "010-1234-5678",
		Body: "홍길동님 안녕하세요",
	})

	require.NoError(t, err)
	assert.Equal(t, "553344", result.MessageID)
	assert.Equal(t, "test-key", gotForm["key"])
	assert.Equal(t, "test-user", gotForm["user_id"])
	assert.Equal(t, "0212345678", gotForm["sender"])
	assert.Equal(t, "01012345678", gotForm["receiver"])
	assert.Equal(t, "홍길동님 안녕하세요", gotForm["msg"])
	assert.Equal(t, "SMS", gotForm["msg_type"])
}

func TestAligo_Send_LMSCarriesTitle(t *testing.T) {
	var gotType, gotTitle string

	_, a := newAligoTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotType = r.PostFormValue("msg_type")
		gotTitle = r.PostFormValue("title")
		w.Write([]byte(`{"result_code":1,"message":"success","msg_id":1}`))
	})

	_, err := a.Send(context.Background(), &Message{
		Kind:  models.KindLMS,
		To:    "01012345678",
		Title: "투어 안내",
		Body:  "상세 안내문",
	})

	require.NoError(t, err)
	assert.Equal(t, "LMS", gotType)
	assert.Equal(t, "투어 안내", gotTitle)
}

func TestAligo_Send_ProviderErrorInsideOK(t *testing.T) {
	_, a := newAligoTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result_code":-105,"message":"발송 실패"}`))
	})

	_, err := a.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "-105")
	assert.True(t, retry.IsRetryable(err))
}

func TestAligo_Send_AuthErrorIsPermanent(t *testing.T) {
	_, a := newAligoTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result_code":-101,"message":"api key error"}`))
	})

	_, err := a.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.False(t, retry.IsRetryable(err))
}

func TestAligo_Send_NonOKStatus(t *testing.T) {
	_, a := newAligoTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := a.Send(context.Background(), &Message{
		Kind: models.KindSMS,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestAligo_Send_AlimtalkUnsupported(t *testing.T) {
	_, a := newAligoTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := a.Send(context.Background(), &Message{
		Kind: models.KindAlimtalk,
		To:   "01012345678",
		Body: "hi",
	})

	require.Error(t, err)
	assert.False(t, retry.IsRetryable(err))
}

func TestAligo_Cost(t *testing.T) {
	a := NewAligo(AligoConfig{}, nil)

	assert.Equal(t, 20, a.Cost(models.KindSMS))
	assert.Equal(t, 50, a.Cost(models.KindLMS))
	assert.Equal(t, 100, a.Cost(models.KindMMS))
	assert.Equal(t, 15, a.Cost(models.KindAlimtalk))
}
