// ABOUTME: Package documentation for the handlers package
// ABOUTME: Describes the gateway's operation surface

// Package handlers implements the gateway's operation surface: user
// resources, provider tools, and scripted prompts.
//
// # Operation Surface
//
// Resources (read-only lookups keyed by a URI identifier):
//   - user://profile/{user_id}
//   - user://medical-history/{user_id}
//
// Tools (actions, dispatched by name with JSON input):
//   - search_nearby_doctors
//   - get_doctor_availability
//   - analyze_skin_condition_image
//   - create_appointment_booking_resource
//   - save_user_interaction
//
// Prompts (pure conversation generators, no client access):
//   - skincare_product_consultation
//   - appointment_workflow_prompt
//
// # Conventions
//
// Handlers hold configuration only. The data store and HTTP clients are
// injected per dispatch through the lifecycle context, so a handler never
// owns a connection. Provider API keys are read from configuration at call
// time; a missing key renders a "not configured" message without touching
// the network. Missing records render "not found" text rather than faults.
package handlers
