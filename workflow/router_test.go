package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/config"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
)

func TestResolveWithAllOverrides(t *testing.T) {
	r := NewRouter(&config.Config{
		WebhookURL:  "http://base",
		WebhookURL2: "http://two",
		WebhookURL3: "http://three",
	})

	assert.Equal(t, Route{EndpointURL: "http://base", RoleLabel: domain.RoleMetaAds}, r.Resolve(Workflow1))
	assert.Equal(t, Route{EndpointURL: "http://two", RoleLabel: domain.RoleGoogleAds}, r.Resolve(Workflow2))
	assert.Equal(t, Route{EndpointURL: "http://three", RoleLabel: domain.RoleAdminAds}, r.Resolve(Workflow3))
}

func TestResolveFallsBackToBaseURL(t *testing.T) {
	r := NewRouter(&config.Config{WebhookURL: "http://base"})

	route := r.Resolve(Workflow2)
	assert.Equal(t, "http://base", route.EndpointURL)
	assert.Equal(t, domain.RoleGoogleAds, route.RoleLabel)

	route = r.Resolve(Workflow3)
	assert.Equal(t, "http://base", route.EndpointURL)
	assert.Equal(t, domain.RoleAdminAds, route.RoleLabel)
}

func TestResolveUnknownSelector(t *testing.T) {
	r := NewRouter(&config.Config{WebhookURL: "http://base"})

	for _, selector := range []string{"", "workflow9", "anything"} {
		route := r.Resolve(selector)
		assert.Equal(t, "http://base", route.EndpointURL)
		assert.Equal(t, domain.RoleAssistant, route.RoleLabel)
	}
}

func TestResolveUnconfigured(t *testing.T) {
	r := NewRouter(&config.Config{})

	route := r.Resolve(Workflow1)
	assert.Equal(t, "", route.EndpointURL)
	assert.Equal(t, domain.RoleMetaAds, route.RoleLabel)
}

func TestRoleLabel(t *testing.T) {
	r := NewRouter(&config.Config{WebhookURL: "http://base"})

	assert.Equal(t, domain.RoleMetaAds, r.RoleLabel(Workflow1))
	assert.Equal(t, domain.RoleGoogleAds, r.RoleLabel(Workflow2))
	assert.Equal(t, domain.RoleAdminAds, r.RoleLabel(Workflow3))
	assert.Equal(t, "", r.RoleLabel(""))
	assert.Equal(t, "", r.RoleLabel("workflow9"))
}
