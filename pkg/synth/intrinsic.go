package synth

import (
	"github.com/klothoplatform/cdkbridge/pkg/construct"
)

type (
	// Intrinsic is a CloudFormation intrinsic function whose value is only known at deploy time.
	Intrinsic interface {
		// Resolve renders the intrinsic as it appears in the template, resolving any nested tokens
		// against the stack.
		Resolve(s *Stack) any
	}

	Ref struct {
		Target construct.ResourceId
	}

	GetAtt struct {
		Target    construct.ResourceId
		Attribute string
	}

	// PseudoParameter is one of the AWS-provided parameters, eg `AWS::Region`.
	PseudoParameter string

	Join struct {
		Delimiter string
		Values    []any
	}

	Select struct {
		Index int
		List  any
	}

	GetAZs struct {
		// Region is empty for the stack's region.
		Region string
	}
)

const (
	PseudoAccountId PseudoParameter = "AWS::AccountId"
	PseudoPartition PseudoParameter = "AWS::Partition"
	PseudoRegion    PseudoParameter = "AWS::Region"
	PseudoStackName PseudoParameter = "AWS::StackName"
	PseudoURLSuffix PseudoParameter = "AWS::URLSuffix"
)

func (r Ref) Resolve(*Stack) any {
	return map[string]any{"Ref": r.Target.LogicalId()}
}

func (g GetAtt) Resolve(*Stack) any {
	return map[string]any{"Fn::GetAtt": []any{g.Target.LogicalId(), g.Attribute}}
}

func (p PseudoParameter) Resolve(*Stack) any {
	return map[string]any{"Ref": string(p)}
}

func (j Join) Resolve(s *Stack) any {
	values := make([]any, len(j.Values))
	for i, v := range j.Values {
		values[i] = s.Resolve(v)
	}
	return map[string]any{"Fn::Join": []any{j.Delimiter, values}}
}

func (sel Select) Resolve(s *Stack) any {
	return map[string]any{"Fn::Select": []any{sel.Index, s.Resolve(sel.List)}}
}

func (g GetAZs) Resolve(*Stack) any {
	return map[string]any{"Fn::GetAZs": g.Region}
}
