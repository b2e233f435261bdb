package config

// Model describes one selectable transcription model.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Models is the catalog exposed to the CLI and the web API.
var Models = []Model{
	{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: "gemini"},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: "gemini"},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: "gemini"},
	{ID: "whisper-1", Name: "Whisper", Provider: "openai"},
}

// DefaultModel is the catalog entry used when nothing is configured.
func DefaultModel() Model {
	return Models[0]
}

// FindModel looks a model up by ID.
func FindModel(id string) (Model, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// ModelsFor returns the catalog entries for one provider.
func ModelsFor(provider string) []Model {
	var out []Model
	for _, m := range Models {
		if m.Provider == provider {
			out = append(out, m)
		}
	}
	return out
}
