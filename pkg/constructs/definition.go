package constructs

// Definition is a [ConstructType] backed by a function, for construct types that need no state of their own.
type Definition struct {
	Name         string
	ConfigSchema map[string]any
	New          func(p Provider, id string, configuration map[string]any) (Construct, error)
}

func (d Definition) Type() string {
	return d.Name
}

func (d Definition) Schema() map[string]any {
	if d.ConfigSchema == nil {
		return map[string]any{"type": "object"}
	}
	return d.ConfigSchema
}

func (d Definition) Create(p Provider, id string, configuration map[string]any) (Construct, error) {
	return d.New(p, id, configuration)
}
