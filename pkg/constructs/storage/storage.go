package storage

import (
	"context"

	"github.com/klothoplatform/cdkbridge/pkg/construct"
	"github.com/klothoplatform/cdkbridge/pkg/constructs"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
	"github.com/pkg/errors"
)

const TypeName = "storage"

type (
	Config struct {
		// Encryption is `s3` for S3-managed keys or `kms` for the account's default KMS key.
		Encryption string `mapstructure:"encryption" validate:"omitempty,oneof=s3 kms"`
		Versioning bool   `mapstructure:"versioning"`
		// ExpireNoncurrentAfterDays removes old object versions. Only used with versioning.
		ExpireNoncurrentAfterDays int `mapstructure:"expireNoncurrentAfterDays" validate:"gte=0,lte=3650"`
	}

	// Storage is an encrypted, private S3 bucket that only accepts TLS requests.
	Storage struct {
		provider constructs.Provider
		id       string
		config   Config

		bucket     construct.ResourceId
		bucketName *synth.Output
	}
)

var Type = constructs.Definition{
	Name: TypeName,
	ConfigSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":                      map[string]any{"const": TypeName},
			"encryption":                map[string]any{"enum": []any{"s3", "kms"}},
			"versioning":                map[string]any{"type": "boolean"},
			"expireNoncurrentAfterDays": map[string]any{"type": "integer", "minimum": 0, "maximum": 3650},
		},
		"additionalProperties": false,
	},
	New: func(p constructs.Provider, id string, configuration map[string]any) (constructs.Construct, error) {
		return New(p, id, configuration)
	},
}

func New(p constructs.Provider, id string, configuration map[string]any) (*Storage, error) {
	s := &Storage{
		provider: p,
		id:       id,
		config:   Config{Encryption: "s3"},
		bucket:   construct.ResourceId{Namespace: id, Name: "Bucket"},
	}
	if err := constructs.DecodeConfiguration(id, configuration, &s.config); err != nil {
		return nil, err
	}
	if err := s.addResources(); err != nil {
		return nil, errors.Wrapf(err, "could not create storage '%s'", id)
	}
	return s, nil
}

func (s *Storage) addResources() error {
	stack := s.provider.Stack()

	algorithm := "AES256"
	if s.config.Encryption == "kms" {
		algorithm = "aws:kms"
	}
	bucket := &construct.Resource{
		ID:   s.bucket,
		Type: "AWS::S3::Bucket",
		Properties: construct.Properties{
			"BucketEncryption": map[string]any{
				"ServerSideEncryptionConfiguration": []any{
					map[string]any{
						"ServerSideEncryptionByDefault": map[string]any{"SSEAlgorithm": algorithm},
					},
				},
			},
			"PublicAccessBlockConfiguration": map[string]any{
				"BlockPublicAcls":       true,
				"BlockPublicPolicy":     true,
				"IgnorePublicAcls":      true,
				"RestrictPublicBuckets": true,
			},
		},
		DeletionPolicy:      "Retain",
		UpdateReplacePolicy: "Retain",
	}
	if s.config.Versioning {
		bucket.SetProperty("VersioningConfiguration", map[string]any{"Status": "Enabled"})
		if days := s.config.ExpireNoncurrentAfterDays; days > 0 {
			bucket.SetProperty("LifecycleConfiguration", map[string]any{
				"Rules": []any{
					map[string]any{
						"Status":                      "Enabled",
						"NoncurrentVersionExpiration": map[string]any{"NoncurrentDays": days},
					},
				},
			})
		}
	}

	b := construct.NewGraphBatch(stack.Graph())
	b.AddResources(bucket, &construct.Resource{
		ID:   s.bucket.Child("Policy"),
		Type: "AWS::S3::BucketPolicy",
		Properties: construct.Properties{
			"Bucket": stack.Ref(s.bucket),
			"PolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []any{
					map[string]any{
						"Effect":    "Deny",
						"Principal": map[string]any{"AWS": "*"},
						"Action":    "s3:*",
						"Resource": []any{
							stack.GetAtt(s.bucket, "Arn"),
							stack.GetAtt(s.bucket, "Arn") + "/*",
						},
						"Condition": map[string]any{"Bool": map[string]any{"aws:SecureTransport": "false"}},
					},
				},
			},
		},
	})
	if b.Err != nil {
		return b.Err
	}

	s.bucketName = &synth.Output{
		ID:          construct.ResourceId{Namespace: s.id, Name: "BucketName"},
		Value:       stack.Ref(s.bucket),
		Description: "Name of the bucket",
	}
	return stack.AddOutput(s.bucketName)
}

func (s *Storage) Outputs() map[string]constructs.OutputFunc {
	return map[string]constructs.OutputFunc{
		"bucketName": func(ctx context.Context) (string, bool, error) {
			return s.provider.GetStackOutput(ctx, s.bucketName)
		},
	}
}

func (s *Storage) References() map[string]any {
	stack := s.provider.Stack()
	return map[string]any{
		"bucketName": s.provider.GetCloudFormationReference(stack.Ref(s.bucket)),
		"bucketArn":  s.provider.GetCloudFormationReference(stack.GetAtt(s.bucket, "Arn")),
	}
}
