// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package anomaly

import (
	"fmt"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

const databaseName = "star_pharmacy"

var databaseKinds = []Kind{
	{"auth_failure", telemetry.SeverityMedium, databaseAuthFailure},
	{"privilege_escalation", telemetry.SeverityHigh, databasePrivilegeEscalation},
	{"data_exfiltration", telemetry.SeverityCritical, databaseExfiltration},
	{"sql_injection", telemetry.SeverityHigh, databaseSQLInjection},
	{"connection_spike", telemetry.SeverityMedium, databaseConnectionSpike},
	{"failed_login", telemetry.SeverityLow, databaseFailedLogin},
	{"unusual_query_pattern", telemetry.SeverityMedium, databaseUnusualQuery},
	{"brute_force_attack", telemetry.SeverityHigh, databaseBruteForce},
	{"prescription_data_access", telemetry.SeverityHigh, databasePrescriptionAccess},
	{"patient_phi_exfiltration", telemetry.SeverityCritical, databasePHIExfiltration},
	{"controlled_substance_query", telemetry.SeverityMedium, databaseSubstanceQuery},
	{"dea_number_access", telemetry.SeverityHigh, databaseDEAAccess},
	{"inventory_tampering", telemetry.SeverityCritical, databaseInventoryTampering},
	{"after_hours_access", telemetry.SeverityMedium, databaseAfterHours},
}

func databaseAuthFailure(d *Draw) map[string]any {
	return map[string]any{
		"username":      d.Choice(concat(pharmacyUsers, suspiciousUsers)),
		"source_ip":     d.Choice(anyIPs),
		"reason":        d.Choice([]string{"invalid_credentials", "expired_password", "account_locked", "invalid_certificate", "missing_mfa"}),
		"database":      databaseName,
		"attempt_count": d.Int(1, 10),
	}
}

func databasePrivilegeEscalation(d *Draw) map[string]any {
	return map[string]any{
		"username":  d.Choice(pharmacyUsers),
		"source_ip": d.Choice(anyIPs),
		"attempted_action": d.Choice([]string{
			"ALTER USER SET ROLE admin", "GRANT ALL PRIVILEGES",
			"CREATE USER WITH SUPERUSER", "ALTER SYSTEM SET", "COPY TO PROGRAM",
		}),
		"current_role": "user",
		"target_role":  "admin",
		"blocked":      d.Bool(),
	}
}

func databaseExfiltration(d *Draw) map[string]any {
	return map[string]any{
		"username":          d.Choice(pharmacyUsers),
		"source_ip":         d.Choice(internalIPs),
		"destination_ip":    d.Choice(suspiciousIPs),
		"bytes_transferred": d.Int(10_000_000, 1_000_000_000),
		"records_accessed":  d.Int(1000, 100_000),
		"tables":            d.Sample([]string{"patients", "prescriptions", "controlled_substances", "dea_records", "insurance_claims"}, 1, 3),
		"duration_seconds":  d.Int(60, 3600),
	}
}

func databaseSQLInjection(d *Draw) map[string]any {
	return map[string]any{
		"source_ip":          d.Choice(suspiciousIPs),
		"injection_pattern":  d.Choice(sqlInjectionPatterns),
		"target_table":       d.Choice([]string{"users", "patients", "medications"}),
		"query_fragment":     fmt.Sprintf("SELECT * FROM users WHERE username='%s'", d.Choice(sqlInjectionPatterns)),
		"blocked":            true,
		"waf_rule_triggered": d.Tag("SQL_INJECTION_", 1000, 9999),
	}
}

func databaseConnectionSpike(d *Draw) map[string]any {
	return map[string]any{
		"baseline_connections": d.Int(20, 50),
		"current_connections":  d.Int(200, 500),
		"spike_percentage":     d.Int(300, 1000),
		"source_ips":           d.Sample(anyIPs, 3, 7),
		"duration_seconds":     d.Int(30, 300),
		"potential_ddos":       d.Bool(),
	}
}

func databaseFailedLogin(d *Draw) map[string]any {
	return map[string]any{
		"username":       d.Choice(suspiciousUsers),
		"source_ip":      d.Choice(suspiciousIPs),
		"failure_reason": d.Choice([]string{"invalid_password", "user_not_found", "account_disabled"}),
		"attempt_number": d.Int(1, 20),
		"user_agent":     "psql/14.5",
	}
}

func databaseUnusualQuery(d *Draw) map[string]any {
	return map[string]any{
		"username":  d.Choice(pharmacyUsers),
		"source_ip": d.Choice(internalIPs),
		"query_pattern": d.Choice([]string{
			"SELECT * FROM information_schema.tables",
			"SELECT * FROM pg_shadow",
			"COPY (SELECT * FROM patients) TO '/tmp/data.csv'",
			"SELECT COUNT(*) FROM patients WHERE 1=1",
			"DELETE FROM audit_logs WHERE timestamp < NOW()",
		}),
		"execution_time_ms": d.Float(5000, 30000),
		"rows_affected":     d.Int(10_000, 1_000_000),
		"flagged_reason":    d.Choice([]string{"full_table_scan", "excessive_rows", "system_table_access", "data_export_attempt"}),
	}
}

func databaseBruteForce(d *Draw) map[string]any {
	return map[string]any{
		"source_ip":           d.Choice(suspiciousIPs),
		"target_username":     d.Choice(pharmacyUsers),
		"attempts":            d.Int(50, 500),
		"time_window_seconds": d.Int(60, 300),
		"blocked":             d.Bool(),
		"attack_pattern":      d.Choice([]string{"dictionary_attack", "credential_stuffing", "password_spraying"}),
	}
}

func databasePrescriptionAccess(d *Draw) map[string]any {
	return map[string]any{
		"username":             d.Choice(pharmacyUsers),
		"source_ip":            d.Choice(internalIPs),
		"prescription_id":      d.Tag("RX", 100000, 999999),
		"patient_id":           d.Tag("PT", 10000, 99999),
		"medication":           d.Choice([]string{"Oxycodone", "Hydrocodone", "Adderall", "Xanax", "Morphine", "Fentanyl"}),
		"access_reason":        d.Choice([]string{"lookup", "modification", "deletion", "export"}),
		"authorized":           d.Bool(),
		"controlled_substance": true,
	}
}

func databasePHIExfiltration(d *Draw) map[string]any {
	return map[string]any{
		"username":                 d.Choice(pharmacyUsers),
		"source_ip":                d.Choice(internalIPs),
		"destination_ip":           d.Choice(suspiciousIPs),
		"patient_records_accessed": d.Int(100, 10_000),
		"data_types":               d.Sample([]string{"ssn", "dob", "address", "insurance", "medical_history", "prescriptions"}, 2, 4),
		"bytes_transferred":        d.Int(1_000_000, 100_000_000),
		"hipaa_violation":          true,
		"blocked":                  d.Bool(),
	}
}

func databaseSubstanceQuery(d *Draw) map[string]any {
	return map[string]any{
		"username":                   d.Choice(pharmacyUsers),
		"source_ip":                  d.Choice(internalIPs),
		"drug_schedule":              d.Choice(drugSchedules),
		"query_type":                 d.Choice([]string{"inventory_check", "dispense_history", "bulk_export", "audit_report"}),
		"records_returned":           d.Int(10, 5000),
		"requires_dea_authorization": true,
		"flagged":                    d.Chance(0.3),
	}
}

func databaseDEAAccess(d *Draw) map[string]any {
	return map[string]any{
		"username":       d.Choice(pharmacyUsers),
		"source_ip":      d.Choice(internalIPs),
		"dea_number":     d.DEANumber(),
		"pharmacist_npi": d.NPI(),
		"access_type":    d.Choice([]string{"view", "modify", "export", "verify"}),
		"authorized":     d.Bool(),
		"audit_required": true,
	}
}

func databaseInventoryTampering(d *Draw) map[string]any {
	return map[string]any{
		"username":               d.Choice(pharmacyUsers),
		"source_ip":              d.Choice(internalIPs),
		"medication":             d.Choice([]string{"Oxycodone 30mg", "Hydrocodone 10mg", "Adderall XR 20mg", "Alprazolam 2mg"}),
		"action":                 d.Choice([]string{"quantity_adjustment", "deletion", "manual_override", "backdated_entry"}),
		"quantity_change":        d.Int(-500, -10),
		"ndc_code":               fmt.Sprintf("%d-%d-%d", d.Int(10000, 99999), d.Int(100, 999), d.Int(10, 99)),
		"requires_investigation": true,
		"discrepancy_detected":   true,
	}
}

func databaseAfterHours(d *Draw) map[string]any {
	return map[string]any{
		"username":               d.Choice(pharmacyUsers),
		"source_ip":              d.Choice(internalIPs),
		"access_time":            "02:47 AM",
		"day_of_week":            d.Choice([]string{"Saturday", "Sunday", "Monday"}),
		"tables_accessed":        d.Sample([]string{"prescriptions", "controlled_substances", "patient_records", "dea_logs"}, 1, 3),
		"queries_executed":       d.Int(5, 50),
		"business_justification": d.Optional([]string{"emergency_fill", "inventory_audit", "system_maintenance"}),
		"flagged_for_review":     true,
	}
}
