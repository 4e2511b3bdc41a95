package service

import (
	"context"
	"errors"
	"testing"

	"threadline/internal/model"
)

type mockTokenSender struct {
	tokens []string
	title  string
	body   string
	stale  []string
	err    error
	calls  int
}

func (m *mockTokenSender) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	m.calls++
	m.tokens = tokens
	m.title = title
	m.body = body
	return m.stale, m.err
}

func TestPushService_SendToUser(t *testing.T) {
	tokenRepo := &mockDeviceTokenRepository{devices: map[int64][]model.DeviceToken{
		1: {{Token: "tok-phone"}, {Token: "tok-tablet"}},
	}}
	sender := &mockTokenSender{stale: []string{"tok-tablet"}}
	svc := NewPushService(tokenRepo, sender)

	err := svc.SendToUser(context.Background(), 1, "New reply", "Bob replied to your thread", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.tokens) != 2 {
		t.Errorf("sent to %d tokens, want 2", len(sender.tokens))
	}
	if sender.body != "Bob replied to your thread" {
		t.Errorf("body = %q", sender.body)
	}
	if len(tokenRepo.deleted) != 1 || tokenRepo.deleted[0] != "tok-tablet" {
		t.Errorf("stale tokens deleted = %v, want [tok-tablet]", tokenRepo.deleted)
	}
}

func TestPushService_NoDevices(t *testing.T) {
	sender := &mockTokenSender{}
	svc := NewPushService(&mockDeviceTokenRepository{}, sender)

	if err := svc.SendToUser(context.Background(), 1, "t", "b", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.calls != 0 {
		t.Error("FCM should not be called without devices")
	}
}

func TestPushService_Errors(t *testing.T) {
	dbError := errors.New("db down")
	svc := NewPushService(&mockDeviceTokenRepository{getErr: dbError}, &mockTokenSender{})
	if err := svc.SendToUser(context.Background(), 1, "t", "b", nil); !errors.Is(err, dbError) {
		t.Errorf("error = %v, want wrapping %v", err, dbError)
	}

	fcmError := errors.New("quota exceeded")
	tokenRepo := &mockDeviceTokenRepository{devices: map[int64][]model.DeviceToken{1: {{Token: "tok"}}}}
	svc = NewPushService(tokenRepo, &mockTokenSender{err: fcmError})
	if err := svc.SendToUser(context.Background(), 1, "t", "b", nil); !errors.Is(err, fcmError) {
		t.Errorf("error = %v, want wrapping %v", err, fcmError)
	}
}
