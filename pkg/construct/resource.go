package construct

type (
	Resource struct {
		ID ResourceId
		// Type is the CloudFormation resource type, eg `AWS::S3::Bucket`.
		Type       string
		Properties Properties

		DeletionPolicy      string
		UpdateReplacePolicy string
	}

	Properties map[string]any
)

// SetProperty sets a top-level property, initialising the map if needed.
func (r *Resource) SetProperty(key string, value any) {
	if r.Properties == nil {
		r.Properties = Properties{}
	}
	r.Properties[key] = value
}
