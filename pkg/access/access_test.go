package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAPI(t *testing.T) {
	tests := []struct {
		name          string
		role          Role
		authenticated bool
		method        string
		route         string
		want          Decision
	}{
		{
			name:          "public route allows anonymous",
			authenticated: false,
			method:        "POST",
			route:         "/api/v1/auth/login",
			want:          Allow,
		},
		{
			name:          "public booking allows anonymous",
			authenticated: false,
			method:        "POST",
			route:         "/api/v1/appointments/book",
			want:          Allow,
		},
		{
			name:          "admin can list users",
			role:          RoleAdmin,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/users",
			want:          Allow,
		},
		{
			name:          "receptionist cannot list users",
			role:          RoleReceptionist,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/users",
			want:          DenyForbidden,
		},
		{
			name:          "receptionist can read patient records",
			role:          RoleReceptionist,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/patients/:id/records",
			want:          Allow,
		},
		{
			name:          "anonymous gets 401 on protected route",
			authenticated: false,
			method:        "GET",
			route:         "/api/v1/patients",
			want:          DenyUnauthenticated,
		},
		{
			name:          "doctor can read patients",
			role:          RoleDoctor,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/patients",
			want:          Allow,
		},
		{
			name:          "doctor cannot create patients",
			role:          RoleDoctor,
			authenticated: true,
			method:        "POST",
			route:         "/api/v1/patients",
			want:          DenyForbidden,
		},
		{
			name:          "only doctors create consultations",
			role:          RoleReceptionist,
			authenticated: true,
			method:        "POST",
			route:         "/api/v1/consultations",
			want:          DenyForbidden,
		},
		{
			name:          "patient role reaches portal",
			role:          RolePatient,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/portal/invoices",
			want:          Allow,
		},
		{
			name:          "staff role cannot reach portal",
			role:          RoleAdmin,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/portal/invoices",
			want:          DenyForbidden,
		},
		{
			name:          "unlisted route is denied for anonymous",
			authenticated: false,
			method:        "GET",
			route:         "/api/v1/unknown",
			want:          DenyUnauthenticated,
		},
		{
			name:          "unlisted route is denied even for admin",
			role:          RoleAdmin,
			authenticated: true,
			method:        "DELETE",
			route:         "/api/v1/clinic",
			want:          DenyForbidden,
		},
		{
			name:          "trailing slash resolves to the collection route",
			role:          RoleAdmin,
			authenticated: true,
			method:        "GET",
			route:         "/api/v1/patients/",
			want:          Allow,
		},
		{
			name:          "webhook endpoint is open",
			authenticated: false,
			method:        "POST",
			route:         "/api/v1/webhooks/stripe",
			want:          Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAPI(tt.role, tt.authenticated, tt.method, tt.route)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckPage(t *testing.T) {
	tests := []struct {
		name          string
		role          Role
		authenticated bool
		path          string
		want          PageDecision
	}{
		{
			name:          "login page is public",
			authenticated: false,
			path:          "/auth/login",
			want:          PageDecision{Action: PageAllow},
		},
		{
			name:          "signed-in admin on login form goes home",
			role:          RoleAdmin,
			authenticated: true,
			path:          "/auth/login",
			want:          PageDecision{Action: PageRedirectHome, Location: "/dashboard"},
		},
		{
			name:          "signed-in patient on register form goes to portal",
			role:          RolePatient,
			authenticated: true,
			path:          "/auth/register",
			want:          PageDecision{Action: PageRedirectHome, Location: "/portal"},
		},
		{
			name:          "signed-in user may still browse public booking",
			role:          RoleReceptionist,
			authenticated: true,
			path:          "/booking",
			want:          PageDecision{Action: PageAllow},
		},
		{
			name:          "anonymous dashboard visit redirects to login",
			authenticated: false,
			path:          "/dashboard",
			want:          PageDecision{Action: PageRedirectLogin, Location: "/auth/login"},
		},
		{
			name:          "receptionist on dashboard",
			role:          RoleReceptionist,
			authenticated: true,
			path:          "/dashboard",
			want:          PageDecision{Action: PageAllow},
		},
		{
			name:          "receptionist denied settings goes home",
			role:          RoleReceptionist,
			authenticated: true,
			path:          "/dashboard/settings",
			want:          PageDecision{Action: PageRedirectHome, Location: "/dashboard"},
		},
		{
			name:          "patient on staff dashboard goes to portal",
			role:          RolePatient,
			authenticated: true,
			path:          "/dashboard/patients",
			want:          PageDecision{Action: PageRedirectHome, Location: "/portal"},
		},
		{
			name:          "prefix match covers nested pages",
			role:          RolePatient,
			authenticated: true,
			path:          "/portal/invoices/42",
			want:          PageDecision{Action: PageAllow},
		},
		{
			name:          "specific invoice rule beats dashboard catch-all",
			role:          RoleDoctor,
			authenticated: true,
			path:          "/dashboard/invoices/42",
			want:          PageDecision{Action: PageRedirectHome, Location: "/dashboard"},
		},
		{
			name:          "unknown path for signed-in user goes home",
			role:          RoleAdmin,
			authenticated: true,
			path:          "/nowhere",
			want:          PageDecision{Action: PageRedirectHome, Location: "/dashboard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckPage(tt.role, tt.authenticated, tt.path)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/portal", HomeFor(RolePatient))
	assert.Equal(t, "/dashboard", HomeFor(RoleAdmin))
	assert.Equal(t, "/dashboard", HomeFor(RoleDoctor))
	assert.Equal(t, "/dashboard", HomeFor(RoleReceptionist))
}

func TestRequiredAPIRolesUnknown(t *testing.T) {
	_, ok := RequiredAPIRoles("GET", "/api/v1/nope")
	assert.False(t, ok)
}
