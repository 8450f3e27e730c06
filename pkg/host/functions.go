package host

import "github.com/klothoplatform/cdkbridge/pkg/collectionutil"

// SetFunctionNames normalizes every function definition: a function without a `name` gets the default
// physical name and a function without `events` gets an empty event list. The pass is idempotent and
// must be re-run whenever a function is added after the configuration was loaded.
func (c *Configuration) SetFunctionNames() {
	naming := c.Naming()
	for name, fn := range c.Functions {
		if fn == nil {
			fn = map[string]any{}
			c.Functions[name] = fn
		}
		if _, ok := fn["events"]; !ok || fn["events"] == nil {
			fn["events"] = []any{}
		}
		if physical, _ := fn["name"].(string); physical == "" {
			fn["name"] = naming.DefaultFunctionName(name)
		}
	}
}

// AddFunction inserts or replaces a copy of the function definition, creating the functions section if
// needed, and re-normalizes all function names. The caller's definition is left unchanged.
func (c *Configuration) AddFunction(name string, definition map[string]any) {
	if c.Functions == nil {
		c.Functions = make(map[string]map[string]any)
	}
	c.Functions[name] = collectionutil.DeepCopy(definition).(map[string]any)
	c.SetFunctionNames()
}
