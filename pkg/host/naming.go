package host

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Naming derives logical and physical names from the service and stage. All methods are pure.
type Naming struct {
	Service string
	Stage   string
}

var nonAlphaNumeric = regexp.MustCompile(`[^0-9A-Za-z]`)

func NewNaming(service, stage string) *Naming {
	return &Naming{Service: service, Stage: stage}
}

// StackName is the name of the deployment stack: `<service>-<stage>`.
func (n *Naming) StackName() string {
	return fmt.Sprintf("%s-%s", n.Service, n.Stage)
}

// DefaultFunctionName is the physical name given to a function that does not declare one.
func (n *Naming) DefaultFunctionName(functionName string) string {
	return fmt.Sprintf("%s-%s-%s", n.Service, n.Stage, functionName)
}

// NormalizeName upper-cases the first letter of the name.
func (n *Naming) NormalizeName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func (n *Naming) NormalizeNameToAlphaNumericOnly(name string) string {
	return n.NormalizeName(nonAlphaNumeric.ReplaceAllString(name, ""))
}

// GetNormalizedFunctionName makes a function name safe for use in logical ids. Dashes and underscores
// are spelled out so that `my-fn` and `my_fn` do not collide.
func (n *Naming) GetNormalizedFunctionName(functionName string) string {
	name := strings.ReplaceAll(functionName, "-", "Dash")
	name = strings.ReplaceAll(name, "_", "Underscore")
	return n.NormalizeName(name)
}

func (n *Naming) GetLambdaLogicalId(functionName string) string {
	return n.GetNormalizedFunctionName(functionName) + "LambdaFunction"
}

// GetLambdaSqsEventLogicalId is the logical id of the event source mapping between a function and a queue.
func (n *Naming) GetLambdaSqsEventLogicalId(functionName, queueName string) string {
	return fmt.Sprintf("%sEventSourceMappingSQS%s",
		n.GetNormalizedFunctionName(functionName),
		n.NormalizeNameToAlphaNumericOnly(queueName),
	)
}
