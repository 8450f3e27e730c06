package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klothoplatform/cdkbridge/pkg/collectionutil"
	"github.com/klothoplatform/cdkbridge/pkg/constructs"
	"github.com/klothoplatform/cdkbridge/pkg/logging"
	"github.com/klothoplatform/cdkbridge/pkg/multierr"
	"go.uber.org/zap"
)

// ConstructTypesURL documents the available construct types.
const ConstructTypesURL = "https://github.com/klothoplatform/cdkbridge#constructs"

var (
	ErrUnknownConstructType = errors.New("unknown construct type")
	ErrMissingConstructType = errors.New("missing construct type")
)

type UnknownConstructTypeError struct {
	ID   string
	Type string
	// Available are the registered type names.
	Available []string
}

func (e *UnknownConstructTypeError) Error() string {
	msg := fmt.Sprintf("The construct '%s' has an unknown type '%s'\nFind all construct types available here: %s",
		e.ID, e.Type, ConstructTypesURL)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf("\nRegistered construct types: %s", strings.Join(e.Available, ", "))
	}
	return msg
}

func (e *UnknownConstructTypeError) Is(target error) bool {
	return target == ErrUnknownConstructType
}

// Create instantiates the construct `id` of type `constructType` with its configuration from the
// `constructs` section. A construct with no configuration gets an empty one; validating it is up to the
// construct type.
func (p *AwsProvider) Create(constructType, id string) (constructs.Construct, error) {
	ct, ok := p.registry.Lookup(constructType)
	if !ok {
		return nil, &UnknownConstructTypeError{ID: id, Type: constructType, Available: p.registry.Types()}
	}
	log := p.log.With(logging.ConstructField(id, constructType))
	log.Debug("creating construct")

	return ct.Create(p, id, p.config.ConstructConfiguration(id))
}

// CreateAll creates every construct of the `constructs` section, in id order, using the `type` of each
// entry. All creation errors are returned together; the constructs that could be created are still
// returned.
func (p *AwsProvider) CreateAll() (map[string]constructs.Construct, error) {
	created := make(map[string]constructs.Construct, len(p.config.Constructs))
	var errs multierr.Error
	for _, id := range collectionutil.SortedKeys(p.config.Constructs) {
		constructType, _ := p.config.Constructs[id]["type"].(string)
		if constructType == "" {
			errs.Append(fmt.Errorf("%w: construct '%s' has no 'type'", ErrMissingConstructType, id))
			continue
		}
		c, err := p.Create(constructType, id)
		if err != nil {
			errs.Append(fmt.Errorf("could not create construct '%s': %w", id, err))
			continue
		}
		created[id] = c
	}
	p.log.Debug("created constructs", zap.Int("count", len(created)), zap.Int("errors", len(errs)))
	return created, errs.ErrOrNil()
}
