package gemini

import (
	"errors"

	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"google.golang.org/genai"
)

// ErrNoAPIKeys is returned by New when no key is configured.
var ErrNoAPIKeys = errors.New("gemini: no API keys configured")

type implClient struct {
	apiKeys []string
	logger  logger.Logger
	call    generateFunc

	state *keyState
}

// New creates a Client that rotates through the supplied Gemini API keys.
func New(apiKeys []string, log logger.Logger) (Client, error) {
	if len(apiKeys) == 0 {
		return nil, ErrNoAPIKeys
	}
	c := &implClient{
		apiKeys: apiKeys,
		logger:  log,
		state:   &keyState{clients: map[string]*genai.Client{}},
	}
	c.call = c.generateWithKey
	return c, nil
}
