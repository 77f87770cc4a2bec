package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_TransientErrorExhaustsAttempts(t *testing.T) {
	attempts := 0
	transient := errors.New("connection reset")

	err := Do(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return transient
	})

	if !errors.Is(err, transient) {
		t.Fatalf("Do() error = %v, want %v", err, transient)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDo_RecoversAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("timeout")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDo_PermanentErrorAbortsImmediately(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return Permanent(errors.New("invalid api key"))
	})

	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_BalanceMessageAbortsImmediately(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return errors.New("잔액이 부족합니다")
	})

	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, 3, time.Hour, func() error {
			attempts++
			return errors.New("timeout")
		})
	}()

	// Let the first attempt fail, then cancel during the backoff sleep
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Do() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do() did not return after cancellation")
	}

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "transient network error",
			err:  errors.New("connection refused"),
			want: true,
		},
		{
			name: "wrapped permanent error",
			err:  Permanent(errors.New("provider rejected")),
			want: false,
		},
		{
			name: "korean balance message",
			err:  errors.New("SMS 잔액이 부족합니다"),
			want: false,
		},
		{
			name: "korean auth message",
			err:  errors.New("인증 오류입니다"),
			want: false,
		},
		{
			name: "english unauthorized",
			err:  errors.New("401 Unauthorized"),
			want: false,
		},
		{
			name: "english balance",
			err:  errors.New("insufficient balance"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
