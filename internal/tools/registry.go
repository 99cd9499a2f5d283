// Package tools defines the tool server's tools: argument schemas, decoding,
// dispatch to the validator, degradation manager and confidence scorer, and
// the response envelope with execution metadata.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/confidence"
	"github.com/sells-group/pm-toolserver/internal/cost"
	"github.com/sells-group/pm-toolserver/internal/degrade"
	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/report"
	"github.com/sells-group/pm-toolserver/internal/steering"
)

// Handler executes a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (*Response, error)

// Tool is a named, described tool with its argument schema.
type Tool struct {
	Name        string
	Description string
	Options     []mcp.ToolOption
	Handler     Handler
}

// Definition returns the MCP tool definition.
func (t Tool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(t.Description)}, t.Options...)
	return mcp.NewTool(t.Name, opts...)
}

// Response is the envelope returned by every tool call. Content carries
// Markdown output; Data carries the structured payload for the json format.
type Response struct {
	Tool         string   `json:"tool"`
	RequestID    string   `json:"request_id"`
	Format       string   `json:"format"`
	Content      string   `json:"content,omitempty"`
	Data         any      `json:"data,omitempty"`
	Citations    []string `json:"citations,omitempty"`
	SteeringPath string   `json:"steering_path,omitempty"`
	Metadata     Metadata `json:"metadata"`
}

// Metadata records when and how expensively a call executed.
type Metadata struct {
	StartedAt  time.Time  `json:"started_at"`
	DurationMS int64      `json:"duration_ms"`
	Quota      cost.Quota `json:"quota"`
}

// UnknownToolError is returned by Call for an unregistered tool name.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tools: unknown tool %q", e.Name)
}

// Settings holds the degradation thresholds applied by the assess tools.
type Settings struct {
	MinCompetitors         int
	FreshnessThresholdDays int
	RequiredMarketFields   []string
}

// Deps are the collaborators a Registry dispatches to. Nil fields get
// defaults.
type Deps struct {
	Validator  *quality.Validator
	Scorer     *confidence.Scorer
	Degrade    *degrade.Manager
	Steering   *steering.Writer
	Cost       *cost.Calculator
	QuotaModel string
	Settings   Settings
	Now        func() time.Time
}

// Registry holds the tools in registration order.
type Registry struct {
	tools    map[string]Tool
	order    []string
	assessor *Assessor
	steering *steering.Writer
	cost     *cost.Calculator
	model    string
	now      func() time.Time
}

// NewRegistry creates a Registry with every tool registered.
func NewRegistry(d Deps) *Registry {
	if d.Validator == nil {
		d.Validator = quality.New()
	}
	if d.Scorer == nil {
		d.Scorer = confidence.New()
	}
	if d.Degrade == nil {
		d.Degrade = degrade.New()
	}
	if d.Steering == nil {
		d.Steering = steering.NewWriter("", false)
	}
	if d.Cost == nil {
		d.Cost = cost.NewCalculator(cost.DefaultRates())
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	r := &Registry{
		tools:    make(map[string]Tool),
		assessor: NewAssessor(d.Validator, d.Scorer, d.Degrade, d.Settings),
		steering: d.Steering,
		cost:     d.Cost,
		model:    d.QuotaModel,
		now:      d.Now,
	}
	r.register(r.validateCompetitiveTool(d.Validator))
	r.register(r.validateMarketSizingTool(d.Validator))
	r.register(r.assessCompetitiveTool())
	r.register(r.assessMarketSizingTool())
	r.register(r.dataSufficiencyTool(d.Degrade, d.Settings))
	return r
}

func (r *Registry) register(t Tool) {
	if _, dup := r.tools[t.Name]; !dup {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Lookup returns the tool with the given name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Assessor returns the assessor shared by the assess tools.
func (r *Registry) Assessor() *Assessor { return r.assessor }

// EstimateBatch prices running the named tool once per input as one batch,
// with the tool description as the shared prompt prefix.
func (r *Registry) EstimateBatch(name string, inputs, outputs []string) cost.Quota {
	return r.cost.EstimateBatch(r.model, r.tools[name].Description, inputs, outputs)
}

// Call runs a tool and fills in the envelope metadata. Validation errors
// from the handler are returned unwrapped so callers can inspect them.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*Response, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	started := r.now()
	resp, err := t.Handler(ctx, args)
	elapsed := r.now().Sub(started)
	if err != nil {
		zap.L().Info("tool: call rejected",
			zap.String("tool", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	resp.Tool = name
	resp.RequestID = uuid.NewString()
	resp.Metadata = Metadata{
		StartedAt:  started.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Quota:      r.cost.Estimate(r.model, string(args), outputText(resp)),
	}

	zap.L().Info("tool: call",
		zap.String("tool", name),
		zap.String("request_id", resp.RequestID),
		zap.String("format", resp.Format),
		zap.Duration("elapsed", elapsed),
		zap.Int("output_tokens", resp.Metadata.Quota.OutputTokens),
	)
	return resp, nil
}

func outputText(resp *Response) string {
	if resp.Data == nil {
		return resp.Content
	}
	s, err := report.JSON(resp.Data)
	if err != nil {
		return resp.Content
	}
	return s
}
