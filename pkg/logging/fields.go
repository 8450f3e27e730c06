package logging

import (
	"github.com/klothoplatform/cdkbridge/pkg/construct"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type constructField struct {
	id            string
	constructType string
}

func (f constructField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", f.id)
	if f.constructType != "" {
		enc.AddString("type", f.constructType)
	}
	return nil
}

func ConstructField(id, constructType string) zap.Field {
	return zap.Object("construct", constructField{id: id, constructType: constructType})
}

type resourceField struct {
	r *construct.Resource
}

func (f resourceField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", f.r.ID.String())
	enc.AddString("logical_id", f.r.ID.LogicalId())
	enc.AddString("type", f.r.Type)
	return nil
}

func ResourceField(r *construct.Resource) zap.Field {
	return zap.Object("resource", resourceField{r: r})
}

// DescribeFields is intended for unit testing expected log lines. It returns the fields' values by key,
// with object fields rendered as maps. Expected keys that are missing are reported as "!!(MISSING)!!".
func DescribeFields(fields []zapcore.Field, expected ...string) map[string]any {
	all := make(map[string]any, len(fields)+len(expected))
	for _, key := range expected {
		all[key] = "!!(MISSING)!!"
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	for k, v := range enc.Fields {
		all[k] = v
	}
	return all
}
