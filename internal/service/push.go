package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"threadline/internal/repository"
)

// fcmMaxTokens is the multicast limit of a single FCM request.
const fcmMaxTokens = 500

// TokenSender delivers one notification to a set of device tokens and reports the
// tokens FCM no longer recognizes.
type TokenSender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) (stale []string, err error)
}

// FCMClient wraps the Firebase Cloud Messaging client.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient builds a service-account credential from its three fields.
// The private key may carry literal "\n" sequences as found in .env files.
func NewFCMClient(ctx context.Context, projectID, clientEmail, privateKey string) (*FCMClient, error) {
	privateKey = strings.ReplaceAll(privateKey, "\\n", "\n")

	credsJSON := fmt.Sprintf(`{
		"type": "service_account",
		"project_id": %q,
		"private_key": %q,
		"client_email": %q,
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, projectID, privateKey, clientEmail)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON([]byte(credsJSON)))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Printf("[FCM] Initialized for project: %s", projectID)
	return &FCMClient{client: client}, nil
}

// SendToTokens multicasts in batches of fcmMaxTokens.
func (c *FCMClient) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	var stale []string

	for start := 0; start < len(tokens); start += fcmMaxTokens {
		end := start + fcmMaxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		message := &messaging.MulticastMessage{
			Tokens: batch,
			Data:   data,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound: "default",
				},
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Sound: "default"},
				},
			},
		}

		response, err := c.client.SendEachForMulticast(ctx, message)
		if err != nil {
			return stale, fmt.Errorf("send multicast: %w", err)
		}

		log.Printf("[FCM] Sent to %d tokens: %d success, %d failure",
			len(batch), response.SuccessCount, response.FailureCount)

		for i, resp := range response.Responses {
			if resp.Success {
				continue
			}
			if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
				stale = append(stale, batch[i])
				continue
			}
			log.Printf("[FCM] Token %d failed: %v", start+i, resp.Error)
		}
	}

	return stale, nil
}

// PushService sends notifications to every registered device of a user.
type PushService struct {
	tokenRepo repository.DeviceTokenRepository
	sender    TokenSender
}

func NewPushService(tokenRepo repository.DeviceTokenRepository, sender TokenSender) *PushService {
	return &PushService{
		tokenRepo: tokenRepo,
		sender:    sender,
	}
}

// SendToUser pushes to all of userID's devices and forgets tokens FCM rejected.
func (s *PushService) SendToUser(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	devices, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get device tokens: %w", err)
	}
	if len(devices) == 0 {
		log.Printf("[Push] SendToUser: user=%d has no devices", userID)
		return nil
	}

	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Token
	}

	stale, err := s.sender.SendToTokens(ctx, tokens, title, body, data)
	for _, token := range stale {
		if delErr := s.tokenRepo.Delete(ctx, userID, token); delErr != nil {
			log.Printf("[Push] drop stale token FAILED: user=%d err=%v", userID, delErr)
		}
	}
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}

	log.Printf("[Push] SendToUser OK: user=%d devices=%d stale=%d", userID, len(tokens), len(stale))
	return nil
}
