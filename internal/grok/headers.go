package grok

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"grokimg/internal/config"
)

const sentryPublicKey = "b311e0f2690c81f25e2c4cf6d4f7ce1c"

// HeaderGenerator produces the browser-like headers Grok requires on its
// REST routes.
type HeaderGenerator struct {
	cfg config.GrokConfig
}

// NewHeaderGenerator creates a HeaderGenerator from Grok settings.
func NewHeaderGenerator(cfg config.GrokConfig) *HeaderGenerator {
	return &HeaderGenerator{cfg: cfg}
}

// Headers returns a fresh header set for route. Callers may mutate the map.
func (g *HeaderGenerator) Headers(route string) map[string]string {
	origin := g.cfg.BaseURL
	contentType := "application/json"
	if strings.Contains(route, "upload-file") {
		// The web client posts upload bodies as text even though they are JSON.
		contentType = "text/plain;charset=UTF-8"
	}
	h := map[string]string{
		"Accept":             "*/*",
		"Accept-Language":    "en-US,en;q=0.9",
		"Content-Type":       contentType,
		"Origin":             origin,
		"Referer":            origin + "/",
		"User-Agent":         g.cfg.UserAgent,
		"Priority":           "u=1, i",
		"Sec-Ch-Ua":          `"Not(A:Brand";v="99", "Google Chrome";v="133", "Chromium";v="133"`,
		"Sec-Ch-Ua-Mobile":   "?0",
		"Sec-Ch-Ua-Platform": `"macOS"`,
		"Sec-Fetch-Dest":     "empty",
		"Sec-Fetch-Mode":     "cors",
		"Sec-Fetch-Site":     "same-origin",
		"Baggage":            "sentry-environment=production,sentry-public_key=" + sentryPublicKey,
		"x-statsig-id":       g.statsigID(),
		"x-xai-request-id":   uuid.NewString(),
	}
	return h
}

func (g *HeaderGenerator) statsigID() string {
	if !g.cfg.DynamicStatsig && g.cfg.StatsigID != "" {
		return g.cfg.StatsigID
	}
	msg := fmt.Sprintf("e:TypeError: Cannot read properties of null (reading 'children[%q]')", randomHex(5))
	return base64.StdEncoding.EncodeToString([]byte(msg))
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
