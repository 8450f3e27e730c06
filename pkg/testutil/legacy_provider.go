package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/klothoplatform/cdkbridge/pkg/host"
)

type (
	// LegacyProvider is an in-memory lower-level provider for tests of constructs. Requests are answered
	// from Responses, keyed by `service.method` (case-insensitive); unknown requests fail.
	LegacyProvider struct {
		RegionName string
		Names      *host.Naming
		Responses  map[string]Response

		mu       sync.Mutex
		Requests []Request
	}

	Response struct {
		Body map[string]any
		Err  error
	}

	Request struct {
		Service string
		Method  string
		Params  map[string]any
	}
)

func (l *LegacyProvider) Region() string {
	if l.RegionName == "" {
		return host.DefaultRegion
	}
	return l.RegionName
}

func (l *LegacyProvider) Naming() *host.Naming {
	return l.Names
}

func (l *LegacyProvider) Request(ctx context.Context, service, method string, params map[string]any) (map[string]any, error) {
	l.mu.Lock()
	l.Requests = append(l.Requests, Request{Service: service, Method: method, Params: params})
	l.mu.Unlock()

	for key, resp := range l.Responses {
		if strings.EqualFold(key, service+"."+method) {
			return resp.Body, resp.Err
		}
	}
	return nil, fmt.Errorf("unexpected request %s.%s", service, method)
}
