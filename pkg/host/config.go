package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klothoplatform/cdkbridge/pkg/closenicely"
	"github.com/klothoplatform/cdkbridge/pkg/collectionutil"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type (
	// Configuration is the user-authored deployment configuration (a `serverless.yml` equivalent). Only the
	// sections read or written by the bridge are typed; everything else is kept in the `Extra` maps so
	// that writing the configuration back does not lose any keys.
	Configuration struct {
		Service    string                    `mapstructure:"service"`
		Provider   ProviderConfig            `mapstructure:"provider"`
		Constructs map[string]map[string]any `mapstructure:"constructs"`
		// Functions is nil until bootstrapped by the first added function.
		Functions map[string]map[string]any `mapstructure:"functions"`
		Resources map[string]any            `mapstructure:"resources"`

		Extra map[string]any `mapstructure:",remain"`

		// Format is what format the file was originally in so that when we output
		// it keeps the same format.
		Format string `mapstructure:"-"`
	}

	ProviderConfig struct {
		Name    string     `mapstructure:"name"`
		Region  string     `mapstructure:"region"`
		Stage   string     `mapstructure:"stage"`
		Profile string     `mapstructure:"profile"`
		Vpc     *VpcConfig `mapstructure:"vpc"`

		Extra map[string]any `mapstructure:",remain"`
	}

	// VpcConfig is the network placement inherited by every function of the service.
	VpcConfig struct {
		SecurityGroupIds []any `mapstructure:"securityGroupIds"`
		SubnetIds        []any `mapstructure:"subnetIds"`
	}

	// Options override values of the configuration file, typically from command-line flags.
	Options struct {
		Stage   string
		Region  string
		Profile string
	}
)

const (
	DefaultStage  = "dev"
	DefaultRegion = "us-east-1"
)

func ReadConfiguration(fpath string, opts Options) (*Configuration, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer closenicely.OrDebug(f, fpath)

	var format string
	switch filepath.Ext(fpath) {
	case ".json":
		format = "json"
	case ".yaml", ".yml":
		format = "yaml"
	case ".toml":
		format = "toml"
	default:
		return nil, fmt.Errorf("unsupported configuration file extension for %s", fpath)
	}

	cfg, err := DecodeConfiguration(f, format)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration %s: %w", fpath, err)
	}
	cfg.ApplyOptions(opts)
	return cfg, nil
}

// DecodeConfiguration reads a configuration in the given format ("yaml", "json" or "toml").
func DecodeConfiguration(r io.Reader, format string) (*Configuration, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case "json":
		err = json.NewDecoder(r).Decode(&raw)
	case "yaml":
		err = yaml.NewDecoder(r).Decode(&raw)
		if err == io.EOF {
			err = nil
		}
	case "toml":
		err = toml.NewDecoder(r).Decode(&raw)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := FromMap(raw)
	if err != nil {
		return nil, err
	}
	cfg.Format = format
	return cfg, nil
}

// FromMap decodes a generic configuration tree.
func FromMap(raw map[string]any) (*Configuration, error) {
	cfg := &Configuration{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOptions overrides the provider settings with any non-empty option and fills in the defaults.
func (c *Configuration) ApplyOptions(opts Options) {
	if opts.Stage != "" {
		c.Provider.Stage = opts.Stage
	}
	if opts.Region != "" {
		c.Provider.Region = opts.Region
	}
	if opts.Profile != "" {
		c.Provider.Profile = opts.Profile
	}
	if c.Provider.Stage == "" {
		c.Provider.Stage = DefaultStage
	}
	if c.Provider.Region == "" {
		c.Provider.Region = DefaultRegion
	}
}

// Naming returns the naming conventions for this service and stage.
func (c *Configuration) Naming() *Naming {
	return NewNaming(c.Service, c.Provider.Stage)
}

// ConstructConfiguration returns a copy of the configuration of the construct `id`, or an empty
// configuration if the construct section has no entry for it.
func (c *Configuration) ConstructConfiguration(id string) map[string]any {
	if cfg, ok := c.Constructs[id]; ok && cfg != nil {
		return collectionutil.DeepCopy(cfg).(map[string]any)
	}
	return map[string]any{}
}

// ToMap renders the configuration back into a generic tree.
func (c *Configuration) ToMap() map[string]any {
	out := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.Service != "" {
		out["service"] = c.Service
	}

	provider := make(map[string]any, len(c.Provider.Extra)+5)
	for k, v := range c.Provider.Extra {
		provider[k] = v
	}
	setIfNotEmpty(provider, "name", c.Provider.Name)
	setIfNotEmpty(provider, "region", c.Provider.Region)
	setIfNotEmpty(provider, "stage", c.Provider.Stage)
	setIfNotEmpty(provider, "profile", c.Provider.Profile)
	if vpc := c.Provider.Vpc; vpc != nil {
		provider["vpc"] = map[string]any{
			"securityGroupIds": vpc.SecurityGroupIds,
			"subnetIds":        vpc.SubnetIds,
		}
	}
	out["provider"] = provider

	if c.Constructs != nil {
		constructs := make(map[string]any, len(c.Constructs))
		for id, cfg := range c.Constructs {
			constructs[id] = cfg
		}
		out["constructs"] = constructs
	}
	if c.Functions != nil {
		functions := make(map[string]any, len(c.Functions))
		for name, cfg := range c.Functions {
			functions[name] = cfg
		}
		out["functions"] = functions
	}
	if c.Resources != nil {
		out["resources"] = c.Resources
	}
	return out
}

// Encode writes the configuration in its original format, defaulting to yaml.
func (c *Configuration) Encode(w io.Writer) error {
	tree := c.ToMap()
	switch c.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)

	case "toml":
		return toml.NewEncoder(w).Encode(tree)

	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	}
}

func (c *Configuration) String() string {
	buf := new(bytes.Buffer)
	if err := c.Encode(buf); err != nil {
		return fmt.Sprintf("<invalid configuration: %v>", err)
	}
	return buf.String()
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
