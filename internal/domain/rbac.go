package domain

// EnforceRequest is the RBAC question asked by middleware and answered
// by the rbac service. It lives here so middleware does not import the
// rbac package directly.
type EnforceRequest struct {
	UserID   string
	Resource string
	Action   string
}
