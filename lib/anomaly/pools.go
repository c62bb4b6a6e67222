// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package anomaly

// Value pools shared by more than one catalog.

var internalIPs = []string{
	"10.0.1.100", "10.0.1.101", "10.0.1.102",
	"192.168.1.50", "172.16.0.10",
}

var suspiciousIPs = []string{
	"185.220.101.1", "45.142.212.61", "198.51.100.42",
	"203.0.113.5", "192.0.2.100", "91.213.8.235",
}

var anyIPs = concat(internalIPs, suspiciousIPs)

var sqlInjectionPatterns = []string{
	"' OR '1'='1",
	"'; DROP TABLE prescriptions--",
	"UNION SELECT * FROM patient_records",
	"1' AND 1=1--",
	"'; SELECT dea_number FROM pharmacists--",
	"'; SELECT * FROM controlled_substances--",
	"' OR 1=1#",
	"UNION SELECT dea_number, npi FROM pharmacists",
	"admin'--",
}

var xssPayloads = []string{
	"<script>alert('XSS')</script>",
	"<img src=x onerror=alert(1)>",
	"javascript:alert(document.cookie)",
	"<iframe src='evil.com'></iframe>",
	"<svg onload=alert(1)>",
	"'-alert(1)-'",
	"\"><script>alert(String.fromCharCode(88,83,83))</script>",
}

var controlledMedications = []string{
	"Oxycodone 30mg", "Hydrocodone 10mg", "Adderall XR 30mg",
	"Morphine Sulfate 15mg", "Fentanyl Patch 50mcg", "Alprazolam 2mg",
}

var drugSchedules = []string{"Schedule II", "Schedule III", "Schedule IV"}

var pharmacyUsers = []string{
	"pharmacist_jdoe", "tech_msmith", "pharmacy_manager", "inventory_clerk",
	"billing_service", "reporting_user", "pos_terminal_1", "pos_terminal_2",
	"rx_processing", "insurance_verify",
}

var suspiciousUsers = []string{
	"root", "sa", "postgres", "mysql", "oracle",
	"' OR '1'='1", "admin'--", "test", "guest",
}

var botUserAgents = []string{
	"Mozilla/5.0 (compatible; bot/1.0)",
	"Python-urllib/3.8",
	"curl/7.68.0",
	"Scrapy/2.5.0",
	"PostmanRuntime/7.29.0",
	"python-requests/2.28.0",
}

func concat(pools ...[]string) []string {
	var joined []string
	for _, pool := range pools {
		joined = append(joined, pool...)
	}
	return joined
}

// repeat returns pool concatenated with itself n times, so Sample can
// draw the same value more than once.
func repeat(pool []string, n int) []string {
	repeated := make([]string, 0, len(pool)*n)
	for range n {
		repeated = append(repeated, pool...)
	}
	return repeated
}
