package intent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"layerlabs.io/support-chat/internal/metrics"
)

// JSONGenerator asks a text-generation service for a JSON document.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

const classifyPromptTemplate = "Extract intent and entities from the user message. Return ONLY valid JSON.\n" +
	`Respond with an object: {"intent": "<one of: product_info, order_status, order_tracking, greeting, fallback>", ` +
	`"entities": {"product": "...", "order_number": "...", "email": "..."}}` + "\n" +
	"Use null for entities that are not present.\n\n" +
	`User message: """%s"""`

// BuildPrompt embeds the utterance verbatim in the classification prompt.
func BuildPrompt(utterance string) string {
	return fmt.Sprintf(classifyPromptTemplate, utterance)
}

// Classifier resolves an utterance to an intent. The model path is tried
// first; any failure falls back to ClassifyRules.
type Classifier struct {
	gen    JSONGenerator
	logger *zap.Logger
}

// NewClassifier returns a classifier. A nil gen disables the model path.
func NewClassifier(gen JSONGenerator, logger *zap.Logger) *Classifier {
	return &Classifier{gen: gen, logger: logger.Named("intent")}
}

func (c *Classifier) Classify(ctx context.Context, utterance string) Result {
	res := c.classify(ctx, utterance)
	metrics.IntentClassifications.WithLabelValues(string(res.Source)).Inc()
	c.logger.Debug("classified message",
		zap.String("intent", string(res.Intent)),
		zap.String("source", string(res.Source)),
	)
	return res
}

func (c *Classifier) classify(ctx context.Context, utterance string) Result {
	if IsBareGreeting(utterance) {
		return Result{Intent: Greeting, Source: SourceShortcut}
	}
	if c.gen == nil {
		return ClassifyRules(utterance)
	}

	raw, err := c.gen.GenerateJSON(ctx, BuildPrompt(utterance))
	if err != nil {
		c.logger.Warn("model classification failed, using rules", zap.Error(err))
		return ClassifyRules(utterance)
	}

	res, err := ParseModelOutput(raw)
	if err != nil {
		c.logger.Warn("unusable model classification, using rules",
			zap.Error(err),
			zap.String("response", raw),
		)
		return ClassifyRules(utterance)
	}
	return res
}
