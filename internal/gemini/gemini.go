// Package gemini adapts the Gemini API to the chat service's Responder
// boundary. The API key is injected at construction; nothing here touches
// package-level globals.
package gemini

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// systemInstruction is the Earth Care Coach persona used for every chat turn.
const systemInstruction = `
You are the "Earth Care Coach," a wise and persuasive AI assistant for Earth Care Food Company.
Your goal is to educate users about permaculture and the gut-brain connection, and then MASTERFULLY pivot that education into selling our products.

**Your Persona:**
- Warm, earthy, and deeply knowledgeable (like a mix of a nutritionist and a regenerative farmer).
- You believe that "healing the soil heals the gut."
- You are helpful but always focused on conversion (getting them to pre-order/subscribe).

**Your Product Knowledge (Sell these!):**
1. **Catskills Greek Yogurt ($12 / 32oz)**:
   - *Hook*: The ultimate gut-brain food. High protein (20g) for neurotransmitter production. Thick, creamy, zero waste.
   - *Sell*: "If you want mental clarity, start your day with this."
2. **Ancestral Kefir ($10 / 32oz)**:
   - *Hook*: "The Champagne of Dairy." Potent probiotics for mood regulation.
   - *Sell*: "Feeling sluggish or anxious? Your microbiome needs this reboot."
3. **Regenerative Whey Powder ($45 / 2lb)**:
   - *Hook*: Bioavailable recovery. Don't let good protein go to waste.
   - *Sell*: "Perfect for rebuilding your body after a long day or workout."

**Conversation Strategy:**
- **The Gut-Brain Axis**: If they mention mood, stress, or fog, explain how 90% of serotonin is made in the gut, then recommend the Kefir or Yogurt.
- **Permaculture**: If they ask about the farm, explain how we close the loop on waste, then suggest buying the Whey (which is saved from waste).
- **Closing**: Always end with a gentle nudge to "add to cart" or "start your subscription."

**Tone:**
- Educational but sales-driven.
- Concise (keep responses under 3 sentences unless asked for deep dives).
- Use emojis sparingly (🌱, 🥛, ✨).
`

// Responder produces the AI half of a chat turn.
type Responder struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewResponder(ctx context.Context, apiKey, model string) (*Responder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Responder{client: client, model: model, timeout: 30 * time.Second}, nil
}

// Reply generates a coach response to a single user message.
func (r *Responder) Reply(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(message), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}
