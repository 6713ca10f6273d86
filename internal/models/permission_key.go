package models

import "strings"

func PermissionKey(method, apiPath string) string {
	return strings.ToUpper(strings.TrimSpace(method)) + " " + strings.TrimSpace(apiPath)
}
