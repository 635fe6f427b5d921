package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"layerlabs.io/support-chat/internal/intent"
)

// IntentClassifier resolves an utterance to an intent. Implementations must
// always return a result; failures are handled internally.
type IntentClassifier interface {
	Classify(ctx context.Context, utterance string) intent.Result
}

// ChatService runs one message through classification and composition. It
// keeps no state between calls.
type ChatService struct {
	classifier IntentClassifier
	composer   *Composer
	logger     *zap.Logger
}

func NewChatService(classifier IntentClassifier, composer *Composer, logger *zap.Logger) *ChatService {
	return &ChatService{
		classifier: classifier,
		composer:   composer,
		logger:     logger.Named("chat"),
	}
}

// Reply validates req, classifies the message and composes the reply. The
// returned result carries the classification even when composition fails.
func (s *ChatService) Reply(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Field: "message", Message: "No message provided"}
	}

	res := s.classifier.Classify(ctx, req.Message)
	result := &ChatResult{Intent: res}

	reply, err := s.composer.Compose(ctx, req.Message, res)
	if err != nil {
		return result, fmt.Errorf("%s reply: %w", res.Intent, err)
	}

	s.logger.Debug("reply composed",
		zap.String("session_id", req.SessionID),
		zap.String("intent", string(res.Intent)),
		zap.Int("reply_len", len(reply)),
	)
	result.Reply = reply
	return result, nil
}
