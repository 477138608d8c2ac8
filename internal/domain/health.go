package domain

// ============================================================
// Health & Overview API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual backend.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// DayCount is the number of leads received on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview is returned by GET /api/admin/overview.
type Overview struct {
	Counts        map[string]int    `json:"counts"`
	NewLeads      int               `json:"newLeads"`
	ActiveClients int               `json:"activeClients"`
	LeadsPerDay   []DayCount        `json:"leadsPerDay"`
	Notifications NotificationStats `json:"notifications"`
}

// MessageResponse is the body of every plain success or error reply.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
