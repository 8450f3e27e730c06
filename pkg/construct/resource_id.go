package construct

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
)

type ResourceId struct {
	// Namespace is the construct path that owns the resource (eg `avatars` or `avatars/Dlq`).
	// It is empty for resources added directly to the stack.
	Namespace string `yaml:"namespace" json:"namespace"`
	Name      string `yaml:"name" json:"name"`
}

func (id ResourceId) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "/" + id.Name
}

// Path returns the construct path segments of the id, ending with the name.
func (id ResourceId) Path() []string {
	if id.Namespace == "" {
		return []string{id.Name}
	}
	return append(strings.Split(id.Namespace, "/"), id.Name)
}

var nonAlphaNumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// LogicalId is the CloudFormation logical id of the resource: every path segment camel-cased
// and concatenated, with anything outside [a-zA-Z0-9] removed.
func (id ResourceId) LogicalId() string {
	var b strings.Builder
	for _, segment := range id.Path() {
		b.WriteString(nonAlphaNumeric.ReplaceAllString(strcase.ToCamel(segment), ""))
	}
	return b.String()
}

// Child returns the id for a resource named `name` nested under this id.
func (id ResourceId) Child(name string) ResourceId {
	return ResourceId{Namespace: id.String(), Name: name}
}

var resourceSegmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

// Validate checks every segment of the id against the characters allowed in a construct path.
func (id ResourceId) Validate() error {
	var err error
	if id.Namespace != "" {
		for _, segment := range strings.Split(id.Namespace, "/") {
			if !resourceSegmentPattern.MatchString(segment) {
				err = errors.Join(err, fmt.Errorf("invalid namespace segment '%s' (must match %s)", segment, resourceSegmentPattern))
			}
		}
	}
	if !resourceSegmentPattern.MatchString(id.Name) {
		err = errors.Join(err, fmt.Errorf("invalid name '%s' (must match %s)", id.Name, resourceSegmentPattern))
	}
	if err != nil {
		return fmt.Errorf("invalid resource id '%s': %w", id.String(), err)
	}
	return nil
}
