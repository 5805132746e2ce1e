package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nagyistge/manta-madtom/internal/model"
)

// D2Renderer draws the inventory as a D2 diagram: datacenters contain
// servers, servers contain the hosts running on them.
type D2Renderer struct {
	Direction string // right, down, left, up
	Theme     string
}

type d2Server struct {
	uuid  string
	hosts []model.Host
}

type d2Datacenter struct {
	name    string
	servers []*d2Server
}

func (r *D2Renderer) Render(hosts []model.Host) ([]byte, error) {
	theme := GetTheme(r.Theme)
	var b strings.Builder

	direction := r.Direction
	if direction == "" {
		direction = "right"
	}
	fmt.Fprintf(&b, "direction: %s\n\n", direction)

	for _, dc := range groupHosts(hosts) {
		color := theme.ColorFor("datacenter")
		fmt.Fprintf(&b, "%s: %s {\n", sanitizeID(dc.name), quote(dc.name))
		fmt.Fprintf(&b, "  style.fill: %q\n", color.Fill)
		fmt.Fprintf(&b, "  style.stroke: %q\n", color.Stroke)
		b.WriteString("\n")

		for _, srv := range dc.servers {
			r.renderServer(&b, srv, theme, "  ")
		}
		b.WriteString("}\n\n")
	}

	return []byte(b.String()), nil
}

func (r *D2Renderer) renderServer(b *strings.Builder, srv *d2Server, theme *Theme, indent string) {
	color := theme.ColorFor("server")
	fmt.Fprintf(b, "%s%s: %s {\n", indent, sanitizeID(srv.uuid), quote("server "+shortID(srv.uuid)))
	fmt.Fprintf(b, "%s  tooltip: %q\n", indent, srv.uuid)
	fmt.Fprintf(b, "%s  style.fill: %q\n", indent, color.Fill)
	fmt.Fprintf(b, "%s  style.stroke: %q\n", indent, color.Stroke)

	if len(srv.hosts) > 8 {
		fmt.Fprintf(b, "%s  grid-columns: 4\n", indent)
	}
	for _, h := range srv.hosts {
		r.renderHost(b, h, theme, indent+"  ")
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func (r *D2Renderer) renderHost(b *strings.Builder, h model.Host, theme *Theme, indent string) {
	id := sanitizeID(h.UUID)
	if h.IsAgent() {
		id = "agent"
	}

	label := h.HostType
	if ip := h.Address(); ip != "" {
		label = fmt.Sprintf("%s\\n%s", h.HostType, ip)
	}
	fmt.Fprintf(b, "%s%s: %s {\n", indent, id, quote(label))

	for _, prop := range hostProperties(h, theme) {
		fmt.Fprintf(b, "%s  %s\n", indent, prop)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func hostProperties(h model.Host, theme *Theme) []string {
	var props []string

	element := "service"
	switch {
	case h.IP == nil:
		element = "unresolved"
	case h.IsAgent():
		element = "agent"
	case isDatabaseRole(h.HostType):
		element = "database"
		props = append(props, "shape: cylinder")
	}

	color := theme.ColorFor(element)
	props = append(props,
		fmt.Sprintf("style.fill: %q", color.Fill),
		fmt.Sprintf("style.stroke: %q", color.Stroke),
	)
	if h.IP == nil {
		props = append(props, "style.stroke-dash: 3")
	}
	if !h.IsAgent() {
		props = append(props, fmt.Sprintf("tooltip: %q", h.UUID))
	}
	if icon := LookupIcon(h.HostType); icon != "" {
		props = append(props, fmt.Sprintf("icon: %s", icon))
	}
	return props
}

// groupHosts nests hosts by datacenter then server, both in first-seen
// order.
func groupHosts(hosts []model.Host) []*d2Datacenter {
	var dcs []*d2Datacenter
	dcIndex := make(map[string]*d2Datacenter)
	srvIndex := make(map[string]*d2Server)

	for _, h := range hosts {
		name := h.Datacenter
		if name == "" {
			name = "unknown"
		}
		dc, ok := dcIndex[name]
		if !ok {
			dc = &d2Datacenter{name: name}
			dcIndex[name] = dc
			dcs = append(dcs, dc)
		}

		key := name + "/" + h.Server
		srv, ok := srvIndex[key]
		if !ok {
			srv = &d2Server{uuid: h.Server}
			srvIndex[key] = srv
			dc.servers = append(dc.servers, srv)
		}
		srv.hosts = append(srv.hosts, h)
	}
	return dcs
}

var nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// sanitizeID converts a string into a valid D2 identifier.
func sanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = nonAlphaNum.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// quote wraps a string in double quotes for D2 labels.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// shortID returns the first group of a uuid.
func shortID(uuid string) string {
	if i := strings.IndexByte(uuid, '-'); i > 0 {
		return uuid[:i]
	}
	return uuid
}
