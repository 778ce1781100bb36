package registry

// Bot is one selectable knowledge domain, keyed by the digit callers press
// or senders type.
type Bot struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Spoken      string `json:"spoken"` // long form used in voice menus
}

// Registry is the static domain table, loaded once at startup. It is never
// mutated by a session.
type Registry struct {
	bots  []Bot
	byKey map[string]Bot
}

func New(bots []Bot) *Registry {
	r := &Registry{bots: bots, byKey: make(map[string]Bot, len(bots))}
	for _, b := range bots {
		r.byKey[b.Key] = b
	}
	return r
}

// Default carries the four legal domains the assistant fronts.
func Default() *Registry {
	return New([]Bot{
		{Key: "1", Name: "IPC Bot", Description: "Specialized in Indian Penal Code (IPC) sections, criminal offenses, and punishments.", Spoken: "Indian Penal Code"},
		{Key: "2", Name: "RTI Bot", Description: "Expert on Right to Information (RTI) Act, filing procedures, and information access rights.", Spoken: "Right to Information"},
		{Key: "3", Name: "Labor Law Bot", Description: "Focused on Indian labor regulations, worker's rights, and workplace laws.", Spoken: "Labor Law"},
		{Key: "4", Name: "Constitution Bot", Description: "Knowledgeable about Indian Constitution, fundamental rights, and governance structure.", Spoken: "Constitution"},
	})
}

func (r *Registry) Lookup(key string) (Bot, bool) {
	b, ok := r.byKey[key]
	return b, ok
}

func (r *Registry) All() []Bot {
	out := make([]Bot, len(r.bots))
	copy(out, r.bots)
	return out
}
