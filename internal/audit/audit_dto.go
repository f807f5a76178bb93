package audit

// Entry is what callers record. Request-scoped fields (request id, IP)
// are filled from the context by the service, not by callers.
type Entry struct {
	ActorID    string
	ActorType  string
	Action     string
	EntityType string
	EntityID   string
	Details    string
	RequestIP  string
}

type ListAuditFilter struct {
	ActorID    string `form:"actor_id"`
	Action     string `form:"action"`
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
}

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id,omitempty"`
	ActorType  string `json:"actor_type"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Details    string `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	RequestIP  string `json:"request_ip,omitempty"`
	CreatedAt  string `json:"created_at"`
}
