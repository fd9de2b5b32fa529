// Package access implements the static role capability table that gates both
// API routes and frontend pages. One table, consulted uniformly: there is no
// per-request policy storage and no dynamic rule loading.
package access

import (
	"strings"
)

// Role is a user's single role within their clinic. RolePublic is a sentinel
// meaning "no authentication required", never a role a user can hold.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
	RolePatient      Role = "PATIENT"

	RolePublic Role = "PUBLIC"
)

// staff is shorthand for the three clinic-side roles.
var staff = []Role{RoleAdmin, RoleDoctor, RoleReceptionist}

// apiPermissions maps "METHOD route-pattern" to the roles allowed to call it.
// Patterns use the registered route form (with :param segments). Anything not
// listed here is denied outright.
var apiPermissions = map[string][]Role{
	// Auth (public surface)
	"POST /api/v1/auth/register":                    {RolePublic},
	"POST /api/v1/auth/login":                       {RolePublic},
	"GET /api/v1/auth/invitations/:token":           {RolePublic},
	"POST /api/v1/auth/invitations/:token/complete": {RolePublic},
	"GET /api/v1/auth/page-access":                  {RolePublic},

	// Auth (any signed-in user)
	"POST /api/v1/auth/logout": {RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient},
	"GET /api/v1/auth/me":      {RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient},

	// Staff management
	"GET /api/v1/users":                    {RoleAdmin},
	"POST /api/v1/users":                   {RoleAdmin},
	"POST /api/v1/users/invite":            {RoleAdmin},
	"PATCH /api/v1/users/:id":              {RoleAdmin},
	"PATCH /api/v1/users/:id/role":         {RoleAdmin},
	"PATCH /api/v1/users/:id/toggle":       {RoleAdmin},
	"POST /api/v1/users/:id/password":      {RoleAdmin},
	"POST /api/v1/users/:id/resend-invite": {RoleAdmin},
	"DELETE /api/v1/users/:id":             {RoleAdmin},

	// Patients
	"GET /api/v1/patients":             {RoleAdmin, RoleDoctor, RoleReceptionist},
	"POST /api/v1/patients":            {RoleAdmin, RoleReceptionist},
	"GET /api/v1/patients/:id":         {RoleAdmin, RoleDoctor, RoleReceptionist},
	"PATCH /api/v1/patients/:id":       {RoleAdmin, RoleReceptionist},
	"DELETE /api/v1/patients/:id":      {RoleAdmin},
	"GET /api/v1/patients/:id/records": {RoleAdmin, RoleDoctor, RoleReceptionist},

	// Service catalog
	"GET /api/v1/services":        {RoleAdmin, RoleDoctor, RoleReceptionist},
	"POST /api/v1/services":       {RoleAdmin},
	"PATCH /api/v1/services/:id":  {RoleAdmin},
	"DELETE /api/v1/services/:id": {RoleAdmin},

	// Appointments
	"GET /api/v1/appointments":              {RoleAdmin, RoleDoctor, RoleReceptionist},
	"POST /api/v1/appointments":             {RoleAdmin, RoleReceptionist},
	"POST /api/v1/appointments/book":        {RolePublic},
	"GET /api/v1/appointments/booking":      {RolePublic},
	"GET /api/v1/appointments/:id":          {RoleAdmin, RoleDoctor, RoleReceptionist},
	"PATCH /api/v1/appointments/:id":        {RoleAdmin, RoleReceptionist},
	"PATCH /api/v1/appointments/:id/status": {RoleAdmin, RoleDoctor, RoleReceptionist},
	"DELETE /api/v1/appointments/:id":       {RoleAdmin},

	// Consultations
	"GET /api/v1/consultations":                    {RoleAdmin, RoleDoctor},
	"POST /api/v1/consultations":                   {RoleDoctor},
	"GET /api/v1/consultations/:id":                {RoleAdmin, RoleDoctor},
	"PATCH /api/v1/consultations/:id":              {RoleDoctor},
	"POST /api/v1/consultations/:id/prescriptions": {RoleDoctor},

	// Prescriptions
	"GET /api/v1/prescriptions/:id":     {RoleAdmin, RoleDoctor},
	"GET /api/v1/prescriptions/:id/pdf": {RoleAdmin, RoleDoctor},

	// Invoices
	"GET /api/v1/invoices":               {RoleAdmin, RoleReceptionist},
	"POST /api/v1/invoices":              {RoleAdmin, RoleReceptionist},
	"GET /api/v1/invoices/stats":         {RoleAdmin, RoleReceptionist},
	"GET /api/v1/invoices/:id":           {RoleAdmin, RoleReceptionist},
	"PATCH /api/v1/invoices/:id":         {RoleAdmin, RoleReceptionist},
	"POST /api/v1/invoices/:id/send":     {RoleAdmin, RoleReceptionist},
	"POST /api/v1/invoices/:id/payments": {RoleAdmin, RoleReceptionist},
	"PATCH /api/v1/invoices/:id/pay":     {RoleAdmin, RoleReceptionist},
	"PATCH /api/v1/invoices/:id/cancel":  {RoleAdmin, RoleReceptionist},
	"GET /api/v1/invoices/:id/pdf":       {RoleAdmin, RoleReceptionist},
	"POST /api/v1/invoices/:id/checkout": {RoleAdmin, RoleReceptionist, RolePatient},

	// Stripe webhook: signature-verified, not session-authenticated
	"POST /api/v1/webhooks/stripe": {RolePublic},

	// Clinic settings
	"GET /api/v1/clinic":   {RoleAdmin},
	"PATCH /api/v1/clinic": {RoleAdmin},

	// Dashboard
	"GET /api/v1/dashboard/stats": {RoleAdmin, RoleDoctor, RoleReceptionist},

	// Patient portal
	"GET /api/v1/portal/appointments":  {RolePatient},
	"GET /api/v1/portal/invoices":      {RolePatient},
	"GET /api/v1/portal/prescriptions": {RolePatient},

	// Audit trail
	"GET /api/v1/audit": {RoleAdmin},
}

// pagePermissions maps frontend path prefixes to allowed roles. Consulted by
// longest-prefix after an exact-match attempt, so the more specific
// /dashboard/invoices rule wins over the /dashboard catch-all.
var pagePermissions = map[string][]Role{
	"/dashboard":               staff,
	"/dashboard/patients":      staff,
	"/dashboard/appointments":  staff,
	"/dashboard/consultations": {RoleAdmin, RoleDoctor},
	"/dashboard/invoices":      {RoleAdmin, RoleReceptionist},
	"/dashboard/services":      {RoleAdmin},
	"/dashboard/users":         {RoleAdmin},
	"/dashboard/settings":      {RoleAdmin},
	"/portal":                  {RolePatient},
	"/auth/login":              {RolePublic},
	"/auth/register":           {RolePublic},
	"/auth/invitation":         {RolePublic},
	"/booking":                 {RolePublic},
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

// RequiredAPIRoles returns the roles allowed for an API route. The second
// return is false when the route is not in the table, which means deny.
func RequiredAPIRoles(method, routePattern string) ([]Role, bool) {
	// Router groups register "/api/v1/patients/" for the bare collection
	// route, the table stores it without the trailing slash.
	if len(routePattern) > 1 {
		routePattern = strings.TrimSuffix(routePattern, "/")
	}
	roles, ok := apiPermissions[method+" "+routePattern]
	return roles, ok
}

// RequiredPageRoles resolves a frontend path: exact match first, then the
// longest registered prefix. Unknown paths are denied.
func RequiredPageRoles(path string) ([]Role, bool) {
	if roles, ok := pagePermissions[path]; ok {
		return roles, true
	}

	var bestPrefix string
	var bestRoles []Role
	for prefix, roles := range pagePermissions {
		if strings.HasPrefix(path, prefix+"/") && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
			bestRoles = roles
		}
	}
	if bestPrefix == "" {
		return nil, false
	}
	return bestRoles, true
}

// IsPublic reports whether a rule allows unauthenticated access.
func IsPublic(required []Role) bool {
	for _, r := range required {
		if r == RolePublic {
			return true
		}
	}
	return false
}

// Can reports whether a role satisfies a rule.
func Can(role Role, required []Role) bool {
	if IsPublic(required) {
		return true
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Decisions
// ---------------------------------------------------------------------------

type Decision int

const (
	Allow Decision = iota
	// DenyUnauthenticated means the caller must sign in (HTTP 401).
	DenyUnauthenticated
	// DenyForbidden means the caller is signed in but lacks the role (HTTP 403).
	DenyForbidden
)

// CheckAPI evaluates the capability table for an API request.
func CheckAPI(role Role, authenticated bool, method, routePattern string) Decision {
	required, ok := RequiredAPIRoles(method, routePattern)
	if !ok {
		// Unlisted routes require sign-in and are then forbidden: default deny.
		if !authenticated {
			return DenyUnauthenticated
		}
		return DenyForbidden
	}
	if IsPublic(required) {
		return Allow
	}
	if !authenticated {
		return DenyUnauthenticated
	}
	if Can(role, required) {
		return Allow
	}
	return DenyForbidden
}

// PageAction tells the frontend what to do with a page navigation.
type PageAction string

const (
	PageAllow         PageAction = "allow"
	PageRedirectLogin PageAction = "redirect_login"
	PageRedirectHome  PageAction = "redirect_home"
)

type PageDecision struct {
	Action   PageAction `json:"action"`
	Location string     `json:"location,omitempty"`
}

// CheckPage evaluates the capability table for a frontend navigation.
// Signed-in users landing somewhere they cannot be are sent to their home
// page rather than shown an error.
func CheckPage(role Role, authenticated bool, path string) PageDecision {
	required, ok := RequiredPageRoles(path)
	if !ok {
		if !authenticated {
			return PageDecision{Action: PageRedirectLogin, Location: "/auth/login"}
		}
		return PageDecision{Action: PageRedirectHome, Location: HomeFor(role)}
	}
	if IsPublic(required) {
		// Signed-in users have no business on the auth forms; send them home
		// instead of showing the form again.
		if authenticated && strings.HasPrefix(path, "/auth/") {
			return PageDecision{Action: PageRedirectHome, Location: HomeFor(role)}
		}
		return PageDecision{Action: PageAllow}
	}
	if !authenticated {
		return PageDecision{Action: PageRedirectLogin, Location: "/auth/login"}
	}
	if Can(role, required) {
		return PageDecision{Action: PageAllow}
	}
	return PageDecision{Action: PageRedirectHome, Location: HomeFor(role)}
}

// HomeFor returns the landing page for a role.
func HomeFor(role Role) string {
	if role == RolePatient {
		return "/portal"
	}
	return "/dashboard"
}
