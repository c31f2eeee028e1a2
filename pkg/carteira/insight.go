package carteira

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultInsightModel    = "gemini-2.0-flash"
	insightRequestTimeout  = 2 * time.Minute
	insightMaxOutputTokens = 8192
)

var validRiskProfiles = map[string]struct{}{
	"conservative": {},
	"balanced":     {},
	"aggressive":   {},
}

const insightSystemPrompt = `You are a portfolio review assistant for a personal
brokerage portfolio (Brazilian B3 market: stocks, REITs/FIIs, fixed income,
covered options). The user supplies their consolidated open positions:
ticker, asset class, net quantity, average cost, latest reference price,
unrealized variance, cumulative income, and option premium totals.

Respond with a single JSON object and nothing else. Required fields:
- "summary": string, overall portfolio assessment
- "risk_level": string, one of low/moderate/high
- "highlights": string[], notable concentrations, outliers, or negative cost
  bases worth attention
- "recommendations": [{"ticker", "action", "rationale"}], action one of
  increase/reduce/hold/watch

Never promise returns. Flag concentration risk explicitly. Base statements
only on the data supplied; do not invent prices.`

func defaultAISettings() AISettings {
	return AISettings{
		Model:       defaultInsightModel,
		RiskProfile: "balanced",
		Language:    "pt-BR",
	}
}

func normalizeAISettings(settings AISettings) AISettings {
	normalized := settings
	normalized.Model = strings.TrimSpace(normalized.Model)
	if normalized.Model == "" {
		normalized.Model = defaultInsightModel
	}
	normalized.RiskProfile = strings.ToLower(strings.TrimSpace(normalized.RiskProfile))
	if _, ok := validRiskProfiles[normalized.RiskProfile]; !ok {
		normalized.RiskProfile = "balanced"
	}
	normalized.Language = strings.TrimSpace(normalized.Language)
	if normalized.Language == "" {
		normalized.Language = "pt-BR"
	}
	return normalized
}

// GetAISettings returns persisted insight settings, falling back to defaults.
func (c *Core) GetAISettings(ctx context.Context) (AISettings, error) {
	settings := defaultAISettings()
	err := c.db.QueryRowContext(ctx, `
		SELECT model, risk_profile, language FROM ai_settings WHERE id = 1
	`).Scan(&settings.Model, &settings.RiskProfile, &settings.Language)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, WrapError(ErrCodeDatabase, "load ai settings", err)
	}
	return normalizeAISettings(settings), nil
}

// SetAISettings persists insight settings after normalization.
func (c *Core) SetAISettings(ctx context.Context, settings AISettings) (AISettings, error) {
	normalized := normalizeAISettings(settings)
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ai_settings (id, model, risk_profile, language)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				model = excluded.model,
				risk_profile = excluded.risk_profile,
				language = excluded.language
		`, normalized.Model, normalized.RiskProfile, normalized.Language)
		if err != nil {
			return WrapError(ErrCodeDatabase, "save ai settings", err)
		}
		return nil
	})
	if err != nil {
		return AISettings{}, err
	}
	return normalized, nil
}

// PortfolioInsight is the structured review returned by the model.
type PortfolioInsight struct {
	Summary         string                  `json:"summary"`
	RiskLevel       string                  `json:"risk_level"`
	Highlights      []string                `json:"highlights"`
	Recommendations []InsightRecommendation `json:"recommendations"`
	Model           string                  `json:"model"`
	GeneratedAt     string                  `json:"generated_at"`
}

// InsightRecommendation is one actionable item in a portfolio review.
type InsightRecommendation struct {
	Ticker    string `json:"ticker"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

// buildInsightPrompt renders the open positions into the user prompt.
func buildInsightPrompt(positions []AssetPosition, settings AISettings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Risk profile: %s. Answer language: %s.\n", settings.RiskProfile, settings.Language)
	sb.WriteString("Open positions:\n")
	for _, p := range positions {
		income, _ := p.CumulativeIncome.Float64()
		premiums, _ := p.DerivativeTotal.Float64()
		avgCost, _ := p.AverageCost.Float64()
		refPrice, _ := p.ReferencePrice.Float64()
		fmt.Fprintf(&sb,
			"- %s (%s): qty %d, avg cost %.2f, reference price %.2f, variance %.2f%%, income %.2f, option premiums %.2f\n",
			p.Ticker, p.AssetClass, p.NetQty, avgCost, refPrice, p.UnrealizedVariancePct, income, premiums,
		)
	}
	return sb.String()
}

// GeneratePortfolioInsight asks the configured Gemini model for a structured
// review of the current open positions. The API key is supplied by the
// caller (from the environment) and never persisted.
func (c *Core) GeneratePortfolioInsight(ctx context.Context, apiKey string) (*PortfolioInsight, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, NewError(ErrCodeUnavailable, "insight api key not configured")
	}

	positions, err := c.GetAssetPositions(ctx)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, NewError(ErrCodeInvalidInput, "no open positions to review")
	}
	settings, err := c.GetAISettings(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, insightRequestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "create gemini client", err)
	}

	requestConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: insightSystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  insightMaxOutputTokens,
		ResponseMIMEType: "application/json",
	}
	contents := genai.Text(buildInsightPrompt(positions, settings))

	response, err := client.Models.GenerateContent(ctx, settings.Model, contents, requestConfig)
	if err != nil {
		return nil, WrapError(ErrCodeUnavailable, "gemini generate content", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return nil, NewError(ErrCodeInternal, "empty insight response")
	}

	var insight PortfolioInsight
	if err := json.Unmarshal([]byte(content), &insight); err != nil {
		return nil, WrapError(ErrCodeInternal, "parse insight response", err)
	}
	insight.Model = strings.TrimSpace(response.ModelVersion)
	if insight.Model == "" {
		insight.Model = settings.Model
	}
	insight.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	c.logger.Info("portfolio insight generated",
		"model", insight.Model,
		"positions", len(positions),
		"recommendations", len(insight.Recommendations),
	)
	return &insight, nil
}
