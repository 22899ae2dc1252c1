// Package provider constructs the Anthropic client the benchmark talks to.
package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewAnthropicClient returns a client configured from the environment
// (ANTHROPIC_API_KEY; the SDK also honors ANTHROPIC_BASE_URL). Extra options
// are passed through, which is how tests inject a fake transport.
func NewAnthropicClient(opts ...option.RequestOption) *anthropic.Client {
	c := anthropic.NewClient(opts...)
	return &c
}
