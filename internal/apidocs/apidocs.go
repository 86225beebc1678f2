package apidocs

import "strings"

const (
	// DescriptionSuffix is where the API serves its OpenAPI description.
	DescriptionSuffix = "/swagger-docs"
	// ConfigSuffix is where the shell serves the viewer configuration.
	ConfigSuffix = "/swagger-config.json"
	// DomID is the element the viewer mounts into.
	DomID = "swagger-ui"
)

// URLs are what the documentation viewer needs to start.
type URLs struct {
	SpecURL   string
	ConfigURL string
}

// For derives the viewer URLs from a base path.
func For(basePath string) URLs {
	base := strings.TrimSuffix(basePath, "/")
	return URLs{
		SpecURL:   base + DescriptionSuffix,
		ConfigURL: base + ConfigSuffix,
	}
}

// Config is the configuration document handed to the viewer.
type Config struct {
	URL                      string  `json:"url"`
	DomID                    string  `json:"dom_id"`
	DeepLinking              bool    `json:"deepLinking"`
	DisplayRequestDuration   bool    `json:"displayRequestDuration"`
	DefaultModelsExpandDepth int     `json:"defaultModelsExpandDepth"`
	ValidatorURL             *string `json:"validatorUrl"`
}

// NewConfig returns the viewer configuration for basePath with the online
// validator disabled.
func NewConfig(basePath string) Config {
	return Config{
		URL:                      For(basePath).SpecURL,
		DomID:                    "#" + DomID,
		DeepLinking:              true,
		DisplayRequestDuration:   true,
		DefaultModelsExpandDepth: -1,
		ValidatorURL:             nil,
	}
}
