package seed

import "jobboard/api/internal/models"

const apiPrefix = "/api/v1"

type route struct {
	name   string
	method string
	path   string
	module string
}

// catalogue lists every permission-gated route as the router registers it.
var catalogue = []route{
	{"Create user", "POST", "/users", "USERS"},
	{"List users", "GET", "/users", "USERS"},
	{"Get user", "GET", "/users/:id", "USERS"},
	{"Update user", "PATCH", "/users/:id", "USERS"},
	{"Delete user", "DELETE", "/users/:id", "USERS"},

	{"Create role", "POST", "/roles", "ROLES"},
	{"List roles", "GET", "/roles", "ROLES"},
	{"Get role", "GET", "/roles/:id", "ROLES"},
	{"Update role", "PATCH", "/roles/:id", "ROLES"},
	{"Delete role", "DELETE", "/roles/:id", "ROLES"},

	{"Create permission", "POST", "/permissions", "PERMISSIONS"},
	{"List permissions", "GET", "/permissions", "PERMISSIONS"},
	{"Get permission", "GET", "/permissions/:id", "PERMISSIONS"},
	{"Update permission", "PATCH", "/permissions/:id", "PERMISSIONS"},
	{"Delete permission", "DELETE", "/permissions/:id", "PERMISSIONS"},

	{"Create job", "POST", "/jobs", "JOBS"},
	{"Update job", "PATCH", "/jobs/:id", "JOBS"},
	{"Delete job", "DELETE", "/jobs/:id", "JOBS"},

	{"Create resume", "POST", "/resumes", "RESUMES"},
	{"List own resumes", "POST", "/resumes/by-user", "RESUMES"},
	{"List resumes", "GET", "/resumes", "RESUMES"},
	{"Get resume", "GET", "/resumes/:id", "RESUMES"},
	{"Update resume status", "PATCH", "/resumes/:id", "RESUMES"},
	{"Delete resume", "DELETE", "/resumes/:id", "RESUMES"},

	{"Create subscriber", "POST", "/subscribers", "SUBSCRIBERS"},
	{"Delete subscriber", "DELETE", "/subscribers/:id", "SUBSCRIBERS"},

	{"Upload file", "POST", "/files/upload", "FILES"},
}

// Catalogue returns the initial permissions without ids or audit fields.
func Catalogue() []models.Permission {
	permissions := make([]models.Permission, len(catalogue))
	for i, r := range catalogue {
		permissions[i] = models.Permission{
			Name:    r.name,
			APIPath: apiPrefix + r.path,
			Method:  r.method,
			Module:  r.module,
		}
	}
	return permissions
}
