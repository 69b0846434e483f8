// ABOUTME: Registers every gateway operation with the registry
// ABOUTME: Handlers hold only configuration; clients arrive via dispatch injection

package handlers

import (
	"github.com/careassist/care-gateway/internal/config"
	"github.com/careassist/care-gateway/internal/registry"
)

// handlers carries the configuration shared by the operation bodies.
// External clients are never stored here; resource and tool handlers
// receive the live lifecycle context on every dispatch.
type handlers struct {
	cfg *config.Config
}

// Register wires the full operation surface into the registry: two user
// resources, five tools, and two prompts. Registration order fixes the
// listing order clients see.
func Register(reg *registry.Registry, cfg *config.Config) error {
	h := &handlers{cfg: cfg}

	if err := reg.RegisterResource(
		"user://profile/{user_id}",
		"Get user profile information",
		h.UserProfile,
	); err != nil {
		return err
	}
	if err := reg.RegisterResource(
		"user://medical-history/{user_id}",
		"Get detailed medical history for a user",
		h.MedicalHistory,
	); err != nil {
		return err
	}

	if err := reg.RegisterTool(
		"search_nearby_doctors",
		"Search for nearby doctors using the provider directory",
		`{"type":"object","properties":{"latitude":{"type":"number"},"longitude":{"type":"number"},"specialty":{"type":"string","default":"general"},"radius_miles":{"type":"integer","default":10}},"required":["latitude","longitude"]}`,
		h.SearchNearbyDoctors,
	); err != nil {
		return err
	}
	if err := reg.RegisterTool(
		"get_doctor_availability",
		"Get available appointment slots for a specific doctor",
		`{"type":"object","properties":{"doctor_id":{"type":"string"}},"required":["doctor_id"]}`,
		h.DoctorAvailability,
	); err != nil {
		return err
	}
	if err := reg.RegisterTool(
		"analyze_skin_condition_image",
		"Analyze an uploaded image for potential skin conditions",
		`{"type":"object","properties":{"image_data":{"type":"string","description":"Base64-encoded image"}},"required":["image_data"]}`,
		h.AnalyzeSkinConditionImage,
	); err != nil {
		return err
	}
	if err := reg.RegisterTool(
		"create_appointment_booking_resource",
		"Create a booking options summary for a specific doctor",
		`{"type":"object","properties":{"doctor_name":{"type":"string"},"practice_website":{"type":"string"}},"required":["doctor_name","practice_website"]}`,
		h.CreateAppointmentBookingResource,
	); err != nil {
		return err
	}
	if err := reg.RegisterTool(
		"save_user_interaction",
		"Save a user interaction for future reference",
		`{"type":"object","properties":{"user_id":{"type":"string"},"interaction_type":{"type":"string"},"details":{"type":"string"}},"required":["user_id","interaction_type","details"]}`,
		h.SaveUserInteraction,
	); err != nil {
		return err
	}

	if err := reg.RegisterPrompt(
		"skincare_product_consultation",
		"Comprehensive skincare product consultation",
		[]registry.PromptArgument{
			{Name: "skin_type", Description: "Skin type, e.g. oily, dry, combination"},
			{Name: "concerns", Description: "Main skincare concerns"},
			{Name: "budget", Description: "Budget range"},
		},
		h.SkincareConsultation,
	); err != nil {
		return err
	}
	if err := reg.RegisterPrompt(
		"appointment_workflow_prompt",
		"Guide a user through the appointment booking workflow",
		[]registry.PromptArgument{
			{Name: "doctor_name", Description: "Doctor the user wants to see"},
			{Name: "specialty", Description: "The doctor's specialty"},
		},
		h.AppointmentWorkflow,
	); err != nil {
		return err
	}

	return nil
}
