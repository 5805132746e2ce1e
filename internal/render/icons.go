package render

import "strings"

const terrastruct = "https://icons.terrastruct.com"

// roleIcons maps service roles to icon URLs. Roles not listed get no icon.
var roleIcons = map[string]string{
	"postgres":         terrastruct + "/dev/postgresql.svg",
	"loadbalancer":     terrastruct + "/infra/019-network.svg",
	"nameservice":      terrastruct + "/infra/003-sitemap.svg",
	"storage":          terrastruct + "/essentials/117-database.svg",
	"webapi":           terrastruct + "/essentials/112-server.svg",
	"authcache":        terrastruct + "/dev/redis.svg",
	"electric-moray":   terrastruct + "/essentials/092-network.svg",
	"moray":            terrastruct + "/essentials/092-network.svg",
	"ops":              terrastruct + "/essentials/140-settings.svg",
	"jobsupervisor":    terrastruct + "/essentials/140-settings.svg",
	"marlin-dashboard": terrastruct + "/essentials/073-dashboard.svg",
	"medusa":           terrastruct + "/essentials/140-settings.svg",
	"agent":            terrastruct + "/essentials/112-server.svg",
}

// LookupIcon returns the icon URL for a host role.
func LookupIcon(role string) string {
	return roleIcons[strings.ToLower(role)]
}

// isDatabaseRole reports whether a role stores metadata and gets a
// cylinder shape.
func isDatabaseRole(role string) bool {
	switch strings.ToLower(role) {
	case "postgres", "storage":
		return true
	}
	return false
}
