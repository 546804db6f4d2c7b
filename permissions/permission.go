// Package permissions holds the route to role table enforced by the RBAC middleware.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An empty role list allows nobody.
func (p Permission) Allows(role string) bool {
	return p.Skip || (role != "" && slices.Contains(p.Permissions, role))
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]int
}

func key(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up a chi route pattern. "/v1/hotels/" and "/v1/hotels" are the same route.
// ok is false for a route the table does not list.
func (r *PermissionData) FindPermissions(path, method string) (permission Permission, ok bool) {
	if r.index == nil {
		r.buildIndex()
	}

	idx, ok := r.index[key(path, method)]
	if !ok {
		return Permission{}, false
	}

	return r.Endpoints[idx], true
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]int, len(r.Endpoints))

	for i, endpoint := range r.Endpoints {
		k := key(endpoint.Path, endpoint.Method)
		if _, dup := r.index[k]; dup {
			log.Warn().Str("endpoint", k).Msg("duplicate permission entry, keeping the first")

			continue
		}

		r.index[k] = i
	}
}

func Get() *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(permissionsData, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	permissions.buildIndex()

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
