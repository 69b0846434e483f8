// ABOUTME: Tool handlers for doctor search, availability, and booking options
// ABOUTME: API keys are read from configuration at call time, not startup

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careassist/care-gateway/internal/directory"
	"github.com/careassist/care-gateway/internal/registry"
)

// maxDoctorResults caps how many doctors the search renders.
const maxDoctorResults = 5

type searchDoctorsInput struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Specialty   string  `json:"specialty"`
	RadiusMiles int     `json:"radius_miles"`
}

// SearchNearbyDoctors queries the provider directory and renders up to
// five matches. A missing API key is a user-facing outcome, not a fault,
// and never triggers a network call.
func (h *handlers) SearchNearbyDoctors(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
	var in searchDoctorsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}
	if in.Specialty == "" {
		in.Specialty = "general"
	}
	if in.RadiusMiles <= 0 {
		in.RadiusMiles = 10
	}

	apiKey := h.cfg.Providers.DoctorAPIKey
	if apiKey == "" {
		return registry.Text("Doctor API key not configured. Please contact administrator."), nil
	}

	client := directory.NewClient(lc.HTTP, h.cfg.Providers.DoctorAPIURL, apiKey)
	doctors, err := client.Search(ctx, directory.Query{
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		RadiusMiles: in.RadiusMiles,
		Specialty:   in.Specialty,
		Limit:       10,
	})
	if err != nil {
		return registry.Result{}, fmt.Errorf("searching for doctors: %w", err)
	}
	if len(doctors) == 0 {
		return registry.Text("No doctors found in your area. Please try expanding your search radius."), nil
	}

	if len(doctors) > maxDoctorResults {
		doctors = doctors[:maxDoctorResults]
	}

	var sb strings.Builder
	sb.WriteString("🏥 Nearby Doctors Found:\n")
	for i, d := range doctors {
		website := d.Website
		if website == "" {
			website = "No website available"
		}
		accepts := "No"
		if d.AcceptsNewPatients {
			accepts = "Yes"
		}
		// malformed upstream data can carry a negative rating
		stars := int(d.Rating)
		if stars < 0 {
			stars = 0
		}
		fmt.Fprintf(&sb, `
%d. Dr. %s
   Specialty: %s
   Practice: %s
   Address: %s
   Phone: %s
   Distance: %.1f miles
   Rating: %s

   Website: %s
   Accepts New Patients: %s
`,
			i+1,
			d.Name(),
			strings.Join(d.Specialties, ", "),
			orDefault(d.PracticeName, "N/A"),
			orDefault(d.Address, "N/A"),
			orDefault(d.Phone, "N/A"),
			d.DistanceMiles,
			strings.Repeat("★", stars),
			website,
			accepts,
		)
	}
	sb.WriteString("\n\n📅 Would you like to book an appointment with any of these doctors? I can help you with the appointment workflow!")

	return registry.Text(sb.String()), nil
}

type doctorAvailabilityInput struct {
	DoctorID string `json:"doctor_id"`
}

// DoctorAvailability returns the booking schedule for a doctor. Slot data
// comes from a canned schedule until a booking-system integration exists.
func (h *handlers) DoctorAvailability(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
	var in doctorAvailabilityInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}
	if in.DoctorID == "" {
		return registry.Result{}, fmt.Errorf("doctor_id is required")
	}

	return registry.Textf(`
📅 Available Appointment Slots for Dr. %s:

This Week:
- Tomorrow 2:00 PM - 15 min consultation
- Thursday 10:30 AM - 30 min consultation
- Friday 3:45 PM - 15 min consultation

Next Week:
- Monday 9:00 AM - 30 min consultation
- Tuesday 1:15 PM - 15 min consultation
- Wednesday 4:30 PM - 30 min consultation

🔗 Book Online: [Click here to book directly](https://doctorbooking.example.com/book/%s)
📞 Call to Book: (555) 123-4567

Would you like me to help you book one of these appointments?
`, in.DoctorID, in.DoctorID), nil
}

type bookingResourceInput struct {
	DoctorName      string `json:"doctor_name"`
	PracticeWebsite string `json:"practice_website"`
}

// CreateAppointmentBookingResource renders the booking options summary for
// a doctor. It is pure text assembly and touches no external service.
func (h *handlers) CreateAppointmentBookingResource(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
	var in bookingResourceInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}

	return registry.Textf(`
📋 Appointment Booking Options for %s:

🌐 Online Booking:
┌─────────────────────────────────────┐
│  📅 Book Online                     │
│  %s
│  ✅ Instant confirmation            │
│  ⏰ 24/7 availability               │
└─────────────────────────────────────┘

📞 Phone Booking:
┌─────────────────────────────────────┐
│  ☎️ Call Practice Directly          │
│  📞 (555) 123-4567                  │
│  🕒 Mon-Fri 8AM-5PM                 │
│  💬 Speak with receptionist         │
└─────────────────────────────────────┘

📱 Mobile App:
┌─────────────────────────────────────┐
│  📲 Download Practice App           │
│  🔍 Search "[Practice Name] app"    │
│  📅 Mobile-friendly booking         │
│  📬 Appointment reminders           │
└─────────────────────────────────────┘

💡 Pro Tip: Online booking is usually fastest and gives you real-time availability!
`, in.DoctorName, in.PracticeWebsite), nil
}
