package constructs

import (
	"context"

	"github.com/klothoplatform/cdkbridge/pkg/host"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
)

type (
	// ConstructType is a kind of construct that can be declared in the `constructs` section of the host
	// configuration under its type name.
	ConstructType interface {
		// Type is the unique name used in the `type` field of a construct's configuration.
		Type() string
		// Schema is the JSON schema of the construct's configuration. It is published to the host and not
		// enforced here.
		Schema() map[string]any
		Create(p Provider, id string, configuration map[string]any) (Construct, error)
	}

	Construct interface {
		// Outputs are the values shown to the user after deployment, by name.
		Outputs() map[string]OutputFunc
		// References are the values other constructs or the host configuration can link to, usually
		// as CloudFormation intrinsics.
		References() map[string]any
	}

	// OutputFunc resolves an output. The boolean is false when the value cannot be determined, for example
	// when the output does not exist in the deployed stack.
	OutputFunc func(ctx context.Context) (string, bool, error)

	// Provider is the context constructs are created in. All constructs of a provider add their resources
	// to the same stack.
	Provider interface {
		Stack() *synth.Stack
		StackName() string
		Region() string
		Naming() *host.Naming

		AddFunction(name string, definition map[string]any)
		EnableVpc() (VpcReferences, error)
		GetCloudFormationReference(value any) any
		GetStackOutput(ctx context.Context, output *synth.Output) (string, bool, error)
		Request(ctx context.Context, service, method string, params map[string]any) (map[string]any, error)
	}

	// VpcReferences are the tokens of the shared network constructs can place their resources in.
	VpcReferences interface {
		SecurityGroupId() string
		PrivateSubnetIds() []string
	}
)
