// Package workflow maps client-supplied workflow selectors to upstream
// webhook endpoints and agent role labels.
package workflow

import (
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/config"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
)

// Workflow selectors accepted from clients.
const (
	Workflow1 = "workflow1"
	Workflow2 = "workflow2"
	Workflow3 = "workflow3"
)

// Route is the resolved target for a selector.
type Route struct {
	EndpointURL string
	RoleLabel   string
}

// Router resolves workflow selectors against the configured endpoints.
// Each workflow has an independent URL override that falls back to the
// shared default URL when unset.
type Router struct {
	routes       map[string]Route
	defaultRoute Route
}

// NewRouter builds the routing table from configuration.
func NewRouter(cfg *config.Config) *Router {
	base := cfg.WebhookURL
	orBase := func(url string) string {
		if url != "" {
			return url
		}
		return base
	}

	return &Router{
		routes: map[string]Route{
			Workflow1: {EndpointURL: base, RoleLabel: domain.RoleMetaAds},
			Workflow2: {EndpointURL: orBase(cfg.WebhookURL2), RoleLabel: domain.RoleGoogleAds},
			Workflow3: {EndpointURL: orBase(cfg.WebhookURL3), RoleLabel: domain.RoleAdminAds},
		},
		defaultRoute: Route{EndpointURL: base, RoleLabel: domain.RoleAssistant},
	}
}

// Resolve returns the route for a selector. Unknown or empty selectors
// resolve to the default endpoint with the generic assistant label.
func (r *Router) Resolve(selector string) Route {
	if route, ok := r.routes[selector]; ok {
		return route
	}
	return r.defaultRoute
}

// RoleLabel returns the agent role label only, for sidebar filtering.
// Unknown selectors yield an empty label so the filter matches nothing
// special.
func (r *Router) RoleLabel(selector string) string {
	if route, ok := r.routes[selector]; ok {
		return route.RoleLabel
	}
	return ""
}
