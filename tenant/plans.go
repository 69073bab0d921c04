package tenant

// Plan is a static subscription plan definition. The backend sends only the
// plan id with a workspace record; price and feature defaults come from here.
type Plan struct {
	ID         string
	Name       string
	PriceCents int
	MaxUsers   int
	Features   []string
}

var planTable = map[string]Plan{
	"starter": {
		ID:         "starter",
		Name:       "Starter",
		PriceCents: 0,
		MaxUsers:   10,
		Features:   []string{"tasks", "directory"},
	},
	"growth": {
		ID:         "growth",
		Name:       "Growth",
		PriceCents: 4900,
		MaxUsers:   50,
		Features:   []string{"tasks", "directory", "analytics", "departments"},
	},
	"enterprise": {
		ID:         "enterprise",
		Name:       "Enterprise",
		PriceCents: 19900,
		MaxUsers:   500,
		Features:   []string{"tasks", "directory", "analytics", "departments", "sso", "audit-log"},
	},
}

// PlanByID returns the static plan definition for a plan id. Unknown ids get
// the starter plan so downstream rendering always has something to show.
func PlanByID(id string) Plan {
	if p, ok := planTable[id]; ok {
		return p
	}
	return planTable["starter"]
}
