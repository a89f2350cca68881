package api

import "net/http"

// wellKnownManifest is the static JSON manifest for /.well-known/rwk.json.
const wellKnownManifest = `{
  "name": "RWK Einbeck",
  "description": "Rundenwettkampf management for the Einbeck shooting district",
  "version": "0.1.0",
  "api_base": "/api/v1",
  "auth": {
    "type": "bearer",
    "header": "Authorization"
  },
  "endpoints": {
    "clubs": "/api/v1/clubs",
    "leagues": "/api/v1/leagues",
    "standings": "/api/v1/leagues/{leagueID}/standings",
    "scores": "/api/v1/clubs/{clubID}/scores",
    "permissions": "/api/v1/admin/permissions"
  },
  "health": "/health"
}`

// WellKnownHandler returns the static RWK well-known manifest.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(wellKnownManifest))
}
