// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package anomaly

import "github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"

var webUIKinds = []Kind{
	{"xss_detection", telemetry.SeverityHigh, webXSSDetection},
	{"csrf_failure", telemetry.SeverityHigh, webCSRFFailure},
	{"bot_detection", telemetry.SeverityMedium, webBotDetection},
	{"file_upload_attempt", telemetry.SeverityCritical, webFileUpload},
	{"geolocation_mismatch", telemetry.SeverityMedium, webGeolocationMismatch},
	{"session_hijacking", telemetry.SeverityCritical, webSessionHijacking},
	{"clickjacking_attempt", telemetry.SeverityHigh, webClickjacking},
	{"form_tampering", telemetry.SeverityHigh, webFormTampering},
	{"suspicious_navigation", telemetry.SeverityMedium, webSuspiciousNavigation},
}

type location struct {
	city      string
	country   string
	latitude  float64
	longitude float64
}

func (l location) fields() map[string]any {
	return map[string]any{"city": l.city, "country": l.country, "lat": l.latitude, "lon": l.longitude}
}

var loginLocations = []location{
	{"New York", "US", 40.7128, -74.0060},
	{"London", "UK", 51.5074, -0.1278},
	{"Moscow", "RU", 55.7558, 37.6173},
	{"Beijing", "CN", 39.9042, 116.4074},
	{"Lagos", "NG", 6.5244, 3.3792},
}

func webXSSDetection(d *Draw) map[string]any {
	return map[string]any{
		"payload":     d.Choice(xssPayloads),
		"input_field": d.Choice([]string{"search", "comment", "name", "description", "notes"}),
		"page":        d.Choice([]string{"/prescriptions", "/medications", "/patients"}),
		"user_id":     d.Tag("user_", 100, 999),
		"session_id":  d.Tag("session_", 1000, 9999),
		"ip_address":  d.IPv4(),
		"blocked":     true,
		"waf_rule":    d.Tag("XSS_PROTECTION_", 1000, 9999),
	}
}

func webCSRFFailure(d *Draw) map[string]any {
	return map[string]any{
		"form_action":    d.Choice([]string{"/submit-prescription", "/update-medication", "/delete-order"}),
		"expected_token": d.Tag("token_", 100000, 999999),
		"received_token": d.Choice([]string{"missing", "invalid", "expired"}),
		"user_id":        d.Tag("user_", 100, 999),
		"session_id":     d.Tag("session_", 1000, 9999),
		"ip_address":     d.IPv4(),
		"referer":        d.Choice([]string{"http://evil.com", "http://phishing-site.com", "missing"}),
		"blocked":        true,
	}
}

func webBotDetection(d *Draw) map[string]any {
	return map[string]any{
		"indicators": d.Sample([]string{
			"rapid_clicking", "no_mouse_movement", "automated_form_filling",
			"suspicious_user_agent", "headless_browser", "missing_javascript",
		}, 2, 4),
		"user_agent":           d.Choice(botUserAgents[:4]),
		"session_id":           d.Tag("session_", 1000, 9999),
		"ip_address":           d.IPv4(),
		"pages_visited":        d.Int(50, 500),
		"time_on_site_seconds": d.Int(10, 60),
		"actions_per_second":   d.Float(5, 20),
		"action_taken":         "captcha_challenge",
	}
}

func webFileUpload(d *Draw) map[string]any {
	return map[string]any{
		"filename":         d.Choice([]string{"malware.exe", "payload.php", "shell.jsp", "backdoor.aspx", "exploit.sh", "virus.bat"}),
		"file_type":        d.Choice([]string{"exe", "php", "jsp", "aspx", "sh", "bat"}),
		"file_size_bytes":  d.Int(1000, 10_000_000),
		"upload_field":     "document_upload",
		"user_id":          d.Tag("user_", 100, 999),
		"session_id":       d.Tag("session_", 1000, 9999),
		"ip_address":       d.IPv4(),
		"malware_detected": d.Bool(),
		"status":           "blocked",
	}
}

func webGeolocationMismatch(d *Draw) map[string]any {
	previous := d.random.IntN(len(loginLocations))
	// Draw from the remaining n-1 locations so the two always differ.
	current := d.random.IntN(len(loginLocations) - 1)
	if current >= previous {
		current++
	}
	return map[string]any{
		"user_id":                     d.Tag("user_", 100, 999),
		"session_id":                  d.Tag("session_", 1000, 9999),
		"previous_location":           loginLocations[previous].fields(),
		"current_location":            loginLocations[current].fields(),
		"time_between_logins_minutes": d.Int(1, 30),
		"distance_km":                 d.Int(1000, 15000),
		"impossible_travel":           d.Bool(),
		"action_taken":                "additional_verification_required",
	}
}

func webSessionHijacking(d *Draw) map[string]any {
	return map[string]any{
		"session_id":          d.Tag("session_", 1000, 9999),
		"original_ip":         d.IPv4(),
		"new_ip":              d.IPv4(),
		"original_user_agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"new_user_agent":      "Mozilla/5.0 (X11; Linux x86_64)",
		"session_token_reuse": true,
		"action_taken":        "session_terminated",
	}
}

func webClickjacking(d *Draw) map[string]any {
	return map[string]any{
		"page":                    d.Choice([]string{"/prescriptions", "/orders", "/admin"}),
		"iframe_detected":         true,
		"parent_domain":           d.Choice([]string{"evil.com", "phishing-site.com", "malicious.net"}),
		"x_frame_options_missing": true,
		"user_id":                 d.Tag("user_", 100, 999),
		"ip_address":              d.IPv4(),
		"blocked":                 true,
	}
}

func webFormTampering(d *Draw) map[string]any {
	return map[string]any{
		"form_id":         d.Choice([]string{"prescription_form", "order_form", "patient_form"}),
		"tampered_fields": d.Sample([]string{"price", "quantity", "user_role", "permissions"}, 1, 3),
		"original_values": map[string]any{"price": "10.00", "quantity": "1"},
		"tampered_values": map[string]any{"price": "0.01", "quantity": "1000"},
		"user_id":         d.Tag("user_", 100, 999),
		"session_id":      d.Tag("session_", 1000, 9999),
		"ip_address":      d.IPv4(),
		"blocked":         true,
	}
}

func webSuspiciousNavigation(d *Draw) map[string]any {
	return map[string]any{
		"pattern": d.Choice([]string{
			"rapid_page_enumeration", "directory_traversal_attempt",
			"forced_browsing", "parameter_manipulation",
		}),
		"pages_accessed":      d.Int(50, 200),
		"time_window_seconds": d.Int(10, 60),
		"suspicious_urls": []string{
			"/admin/config", "/api/internal/users",
			"/../../../etc/passwd", "/backup/database.sql",
		},
		"user_id":      d.Tag("user_", 100, 999),
		"ip_address":   d.IPv4(),
		"action_taken": "rate_limited",
	}
}
