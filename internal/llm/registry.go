package llm

import (
	"fmt"
	"sort"
)

const (
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// DefaultModel is used when a request does not name one.
const DefaultModel = "Gemini 2.5 Pro"

// ModelConfig describes one selectable model configuration.
type ModelConfig struct {
	Provider string
	ModelID  string
	KeyEnv   string // environment variable holding the credential
}

// Models is the fixed registry of named model configurations users can
// select from.
var Models = map[string]ModelConfig{
	"Gemini 2.5 Pro":    {Provider: ProviderGemini, ModelID: "gemini-2.5-pro", KeyEnv: "GEMINI_API_KEY"},
	"Gemini 2.5 Flash":  {Provider: ProviderGemini, ModelID: "gemini-2.5-flash", KeyEnv: "GEMINI_API_KEY"},
	"Gemini 1.5 Flash":  {Provider: ProviderGemini, ModelID: "gemini-1.5-flash", KeyEnv: "GEMINI_API_KEY"},
	"DeepSeek Chat":     {Provider: ProviderDeepSeek, ModelID: "deepseek-chat", KeyEnv: "DEEPSEEK_API_KEY"},
	"DeepSeek Reasoner": {Provider: ProviderDeepSeek, ModelID: "deepseek-reasoner", KeyEnv: "DEEPSEEK_API_KEY"},
}

// Registry builds clients for the named model configurations using the
// credentials it was constructed with. Keys come from configuration, not
// read from the environment here, so tests stay deterministic.
type Registry struct {
	keys  map[string]string // provider -> API key
	stats *Stats
}

func NewRegistry(geminiKey, deepseekKey string, stats *Stats) *Registry {
	return &Registry{
		keys: map[string]string{
			ProviderGemini:   geminiKey,
			ProviderDeepSeek: deepseekKey,
		},
		stats: stats,
	}
}

// ForModel returns a ready client for the named model configuration.
func (r *Registry) ForModel(name string) (Client, error) {
	if name == "" {
		name = DefaultModel
	}
	mc, ok := Models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %q", name)
	}
	key := r.keys[mc.Provider]
	if key == "" {
		return nil, fmt.Errorf("%s is not set; required for model %q", mc.KeyEnv, name)
	}

	switch mc.Provider {
	case ProviderGemini:
		return NewGeminiClient(key, mc.ModelID, r.stats), nil
	case ProviderDeepSeek:
		return NewDeepSeekClient(key, mc.ModelID, r.stats), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", mc.Provider)
	}
}

// ModelInfo is the models-listing view of one registry entry.
type ModelInfo struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	ModelID   string `json:"model_id"`
	Available bool   `json:"available"`
	Default   bool   `json:"default"`
}

// List returns all registry entries sorted by name, with availability
// reflecting whether the provider credential is configured.
func (r *Registry) List() []ModelInfo {
	infos := make([]ModelInfo, 0, len(Models))
	for name, mc := range Models {
		infos = append(infos, ModelInfo{
			Name:      name,
			Provider:  mc.Provider,
			ModelID:   mc.ModelID,
			Available: r.keys[mc.Provider] != "",
			Default:   name == DefaultModel,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
