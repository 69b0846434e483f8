// ABOUTME: Tool handler for skin condition image analysis
// ABOUTME: Renders assessments with a mandatory medical disclaimer

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careassist/care-gateway/internal/imaging"
	"github.com/careassist/care-gateway/internal/registry"
)

type skinAnalysisInput struct {
	ImageData string `json:"image_data"`
}

// AnalyzeSkinConditionImage submits a base64 image to the skin-analysis
// provider and renders the assessment. The API key is read at call time; a
// missing key short-circuits before any network activity.
func (h *handlers) AnalyzeSkinConditionImage(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
	var in skinAnalysisInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}

	apiKey := h.cfg.Providers.SkinAPIKey
	if apiKey == "" {
		return registry.Text("Skin analysis API not configured. Please contact administrator."), nil
	}

	client := imaging.NewClient(lc.HTTP, h.cfg.Providers.SkinAPIURL, apiKey)
	analysis, err := client.Analyze(ctx, in.ImageData)
	if err != nil {
		return registry.Result{}, fmt.Errorf("analyzing skin condition: %w. Please ensure the image is clear and try again", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `
🔬 Skin Condition Analysis Results:

📊 Analysis Confidence: %.0f%%
🏷️ Potential Condition: %s
⚠️ Risk Level: %s

📋 Recommendations:
`,
		analysis.Confidence*100,
		orDefault(analysis.PredictedCondition, "Unknown"),
		orDefault(analysis.RiskLevel, "Unknown"),
	)
	for _, rec := range analysis.Recommendations {
		fmt.Fprintf(&sb, "• %s\n", rec)
	}
	sb.WriteString(`

⚠️ IMPORTANT DISCLAIMER: This analysis is for informational purposes only and should not replace professional medical advice. Please consult with a dermatologist for proper diagnosis and treatment.

🏥 Would you like me to help you find nearby dermatologists for a professional consultation?
`)

	return registry.Text(sb.String()), nil
}
