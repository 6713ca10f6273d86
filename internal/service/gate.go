package service

import "jobboard/api/internal/models"

// Authorize allows the request only if granted contains the exact
// "METHOD apiPath" key of the route being called.
func Authorize(granted []string, apiPath string, method string) error {
	want := models.PermissionKey(method, apiPath)
	for _, key := range granted {
		if key == want {
			return nil
		}
	}
	return ErrPermissionDenied
}
