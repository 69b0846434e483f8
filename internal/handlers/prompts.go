// ABOUTME: Prompt handlers producing scripted multi-turn conversations
// ABOUTME: Prompts are pure text generators with no external-client access

package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/careassist/care-gateway/internal/registry"
)

type skincareInput struct {
	SkinType string `json:"skin_type"`
	Concerns string `json:"concerns"`
	Budget   string `json:"budget"`
}

// SkincareConsultation generates the four-turn skincare recommendation
// conversation. Unspecified fields fall back to generic wording.
func (h *handlers) SkincareConsultation(input json.RawMessage) (registry.Result, error) {
	var in skincareInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}

	return registry.Conversation(
		registry.UserMessage(fmt.Sprintf(`
I'm looking for skincare product recommendations. Here are my details:
- Skin Type: %s
- Main Concerns: %s
- Budget Range: %s

Please provide personalized recommendations and let me know about purchasing options.
`,
			orDefault(in.SkinType, "Not specified"),
			orDefault(in.Concerns, "General skincare"),
			orDefault(in.Budget, "Not specified"),
		)),
		registry.AssistantMessage(`
I'd be happy to help you with personalized skincare recommendations! Based on your skin type and concerns, I can suggest products that would work well for you.

Here are my recommendations:

🧴 **Recommended Products:**

For your skin type and concerns, I suggest:
1. **Gentle Cleanser** - Daily use, morning and evening
2. **Hydrating Serum** - With hyaluronic acid for moisture retention
3. **Targeted Treatment** - For your specific concerns
4. **Moisturizer** - Suitable for your skin type
5. **SPF Protection** - Daily sun protection (essential!)

💡 **Usage Tips:**
- Start with one new product at a time
- Patch test before full application
- Consistency is key for best results

🛒 **Ready to Purchase?**
Would you like to browse and purchase these recommended products from our curated skincare collection?

Our website offers:
✅ Dermatologist-approved products
✅ Customer reviews and ratings
✅ Detailed ingredient lists
✅ Fast shipping and easy returns

**Would you like me to direct you to our products page to explore these recommendations?**
`),
		registry.UserMessage("That sounds great! Yes, I'd like to see the products page."),
		registry.AssistantMessage(`
Perfect! I'm redirecting you to our skincare products page where you can explore all the recommended products.

🔗 **Redirecting to Products Page...**

┌─────────────────────────────────────────────┐
│  🛒 SKINCARE PRODUCTS PAGE                  │
│                                             │
│  🌟 Personalized Recommendations            │
│  💎 Premium & Drugstore Options             │
│  📋 Detailed Product Information            │
│  ⭐ Customer Reviews & Ratings              │
│  🚚 Free Shipping on Orders $50+            │
│                                             │
│  [Click here to browse products]            │
│  👆 https://yourwebsite.com/skincare        │
└─────────────────────────────────────────────┘

You'll find your personalized recommendations highlighted on the page. Each product includes detailed descriptions, ingredients, usage instructions, and customer reviews to help you make the best choice for your skin!

Happy shopping! 🛍️✨
`),
	), nil
}

type appointmentInput struct {
	DoctorName string `json:"doctor_name"`
	Specialty  string `json:"specialty"`
}

// AppointmentWorkflow generates the two-turn booking walkthrough.
func (h *handlers) AppointmentWorkflow(input json.RawMessage) (registry.Result, error) {
	var in appointmentInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}

	return registry.Conversation(
		registry.UserMessage(fmt.Sprintf(
			"I'd like to book an appointment with %s (%s). Can you help me with the process?",
			in.DoctorName, in.Specialty,
		)),
		registry.AssistantMessage(fmt.Sprintf(`
Absolutely! I'll guide you through booking an appointment with %s. Let me walk you through the available options:

📅 **Appointment Booking Workflow**

**Step 1: Choose Your Booking Method**
1. 🌐 Online Booking (Fastest)
2. 📞 Phone Booking (Personal Touch)
3. 📱 Mobile App (Convenient)

**Step 2: Information You'll Need**
✅ Your insurance information
✅ Reason for visit
✅ Preferred date and time
✅ Contact information
✅ Any current medications

**Step 3: Appointment Confirmation**
You'll receive confirmation via:
- 📧 Email confirmation
- 📱 Text message reminder
- 📞 Phone call (if requested)

**Ready to proceed?** Which booking method would you prefer? I can provide direct links and detailed instructions for your chosen method.

Additionally, I can help you:
- Check the doctor's availability
- Understand what to expect during your visit
- Prepare questions for your appointment
- Find directions to the practice

How would you like to proceed?
`, in.DoctorName)),
	), nil
}
