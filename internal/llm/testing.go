package llm

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedClient is a Client for tests: it records prompts and replays
// canned responses in order. If Responses runs out, the last one repeats.
type ScriptedClient struct {
	Responses []string
	ErrAt     int   // 1-based call number at which calls start failing; 0 disables
	Err       error // error returned from failing calls

	mu      sync.Mutex
	prompts []string
}

func (c *ScriptedClient) Name() string { return "scripted" }

func (c *ScriptedClient) Generate(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	n := len(c.prompts)

	if c.ErrAt > 0 && n >= c.ErrAt {
		if c.Err != nil {
			return "", c.Err
		}
		return "", fmt.Errorf("scripted failure on call %d", n)
	}
	if len(c.Responses) == 0 {
		return "ok", nil
	}
	if n <= len(c.Responses) {
		return c.Responses[n-1], nil
	}
	return c.Responses[len(c.Responses)-1], nil
}

// CallCount returns how many times Generate was invoked.
func (c *ScriptedClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// Prompts returns a copy of all prompts seen so far, in call order.
func (c *ScriptedClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}
