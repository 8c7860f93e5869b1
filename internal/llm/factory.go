package llm

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/reviewlens/internal/model"
)

const defaultTimeout = 30 * time.Second

// NewProvider builds a provider from config. An empty provider name means
// the narrative is disabled; callers get (nil, nil) and skip it.
func NewProvider(config model.LLMConfig, log *zap.Logger) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, log)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai)", config.Provider)
	}
}
