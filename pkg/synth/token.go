package synth

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"sync"

	"github.com/klothoplatform/cdkbridge/pkg/construct"
	"go.uber.org/atomic"
)

// tokenTable maps string-encoded tokens to the intrinsic they stand for. Tokens let an intrinsic travel
// through places that only accept strings (host configuration, resource names) and be turned back into
// the intrinsic when the template is rendered.
type tokenTable struct {
	next   atomic.Int64
	tokens sync.Map // map[int64]Intrinsic
}

var tokenPattern = regexp.MustCompile(`\$\{Token\[TOKEN\.(\d+)\]\}`)

func (t *tokenTable) encode(i Intrinsic) string {
	n := t.next.Inc()
	t.tokens.Store(n, i)
	return fmt.Sprintf("${Token[TOKEN.%d]}", n)
}

func (t *tokenTable) lookup(n int64) (Intrinsic, bool) {
	v, ok := t.tokens.Load(n)
	if !ok {
		return nil, false
	}
	return v.(Intrinsic), true
}

// IsToken reports whether the string contains at least one encoded token.
func IsToken(s string) bool {
	return tokenPattern.MatchString(s)
}

// Token encodes the intrinsic as an opaque string that [Stack.Resolve] turns back into the intrinsic.
func (s *Stack) Token(i Intrinsic) string {
	return s.app.tokens.encode(i)
}

// Ref returns a token for the resource's `Ref` value.
func (s *Stack) Ref(id construct.ResourceId) string {
	return s.Token(Ref{Target: id})
}

// GetAtt returns a token for one of the resource's attributes.
func (s *Stack) GetAtt(id construct.ResourceId, attribute string) string {
	return s.Token(GetAtt{Target: id, Attribute: attribute})
}

// Resolve renders a value as it appears in the template. Intrinsics are rendered, strings that are
// exactly one token become that token's intrinsic, strings with tokens embedded among literal text
// become an `Fn::Join`, and maps and slices are resolved recursively into generic
// `map[string]any` and `[]any` values.
func (s *Stack) Resolve(v any) any {
	switch v := v.(type) {
	case nil:
		return nil

	case Intrinsic:
		return v.Resolve(s)

	case string:
		return s.resolveString(v)

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = s.Resolve(val)
		}
		return out

	case construct.Properties:
		return s.Resolve(map[string]any(v))

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = s.Resolve(val)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = s.Resolve(rv.Index(i).Interface())
		}
		return out

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = s.Resolve(iter.Value().Interface())
		}
		return out
	}
	return v
}

func (s *Stack) resolveString(str string) any {
	matches := tokenPattern.FindAllStringSubmatchIndex(str, -1)
	if len(matches) == 0 {
		return str
	}

	var parts []any
	last := 0
	for _, m := range matches {
		n, err := strconv.ParseInt(str[m[2]:m[3]], 10, 64)
		if err != nil {
			continue
		}
		intrinsic, ok := s.app.tokens.lookup(n)
		if !ok {
			// Leave unknown tokens as literal text, they were not produced by this app.
			continue
		}
		if m[0] > last {
			parts = append(parts, str[last:m[0]])
		}
		parts = append(parts, intrinsic.Resolve(s))
		last = m[1]
	}
	if len(parts) == 0 {
		return str
	}
	if last < len(str) {
		parts = append(parts, str[last:])
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return map[string]any{"Fn::Join": []any{"", parts}}
}
