// Package fixture generates synthetic traces for tests and demos.
//
// Generated traces exercise the awkward shapes the builders must handle:
// parser containers that get filtered, tool-result leaves whose explicit
// parent is a filtered container, turn markers with unreliable end times,
// and generic failure markers.
package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/traceview-go/pkg/types"
)

// Options controls trace generation. The zero value produces a small
// three-turn trace.
type Options struct {
	// Seed makes generation reproducible. Zero means seed 1.
	Seed int64
	// Turns is the number of interaction turns. Defaults to 3.
	Turns int
	// ToolsPerTurn is the number of tool invocations per turn. Defaults
	// to 2.
	ToolsPerTurn int
	// Failures inserts this many generic failure markers spread across
	// turns.
	Failures int
}

var toolNames = []string{"web_search", "calculator", "fetch_url", "code_exec"}

// Generate produces a trace and its flat observation collection.
func Generate(opts Options) (*types.Trace, []*types.Observation) {
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	if opts.Turns <= 0 {
		opts.Turns = 3
	}
	if opts.ToolsPerTurn <= 0 {
		opts.ToolsPerTurn = 2
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &generator{rng: rng, clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	trace := &types.Trace{
		ID:        g.id(),
		Name:      fmt.Sprintf("agent-run-%d", opts.Seed),
		Timestamp: types.Time{Time: g.clock},
	}

	g.emit(&types.Observation{
		Name: "trace_start",
		Node: strptr("trace_start"),
		Type: types.ObservationTypeEvent,
		Step: intptr(0),
	})

	callIndex := 0
	failuresLeft := opts.Failures
	for turn := 1; turn <= opts.Turns; turn++ {
		step := turn
		turnID := g.emit(&types.Observation{
			Name: fmt.Sprintf("turn_%d", turn),
			Node: strptr(fmt.Sprintf("turn_%d", turn)),
			Type: types.ObservationTypeSpan,
			Step: intptr(step),
			// turn end times are deliberately unreliable upstream;
			// leave them unset
		})

		kernelCost := 0.002 + g.rng.Float64()*0.01
		inTok, outTok := 200+g.rng.Intn(800), 50+g.rng.Intn(400)
		g.emitChild(turnID, &types.Observation{
			Name:        "kernel",
			Node:        strptr("kernel"),
			Type:        types.ObservationTypeGeneration,
			Step:        intptr(step),
			Model:       "gpt-4o",
			TotalCost:   &kernelCost,
			InputUsage:  &inTok,
			OutputUsage: &outTok,
		})

		container := g.emitChild(turnID, &types.Observation{
			Name: fmt.Sprintf("parser.turn_%03d.tool_calls", turn),
			Type: types.ObservationTypeSpan,
		})

		for i := 0; i < opts.ToolsPerTurn; i++ {
			callIndex++
			tool := toolNames[g.rng.Intn(len(toolNames))]

			g.emitChild(turnID, &types.Observation{
				Name: fmt.Sprintf("parser.turn_%03d.pre_%s.%d", turn, tool, callIndex),
				Type: types.ObservationTypeEvent,
			})
			toolCost := g.rng.Float64() * 0.001
			g.emit(&types.Observation{
				// no explicit parent: claimed by the pre-tool marker
				Name:      fmt.Sprintf("%s.%d", tool, callIndex),
				Node:      strptr(fmt.Sprintf("%s.%d", tool, callIndex)),
				Type:      types.ObservationTypeTool,
				Step:      intptr(step),
				TotalCost: &toolCost,
			})
			// the leaf's explicit parent is the container, which the
			// builders filter out; re-parenting has to recover it
			g.emitChild(container, &types.Observation{
				Name: fmt.Sprintf("session.parser.turn_%03d.tool_result.%s.%d", turn, tool, callIndex),
				Node: strptr(fmt.Sprintf("session.parser.turn_%03d.tool_result.%s.%d", turn, tool, callIndex)),
				Step: intptr(step),
				Type: types.ObservationTypeEvent,
			})
		}

		if failuresLeft > 0 {
			failuresLeft--
			g.emitChild(turnID, &types.Observation{
				Name:  "failure",
				Node:  strptr("failure"),
				Type:  types.ObservationTypeEvent,
				Step:  intptr(step),
				Level: types.ObservationLevelError,
			})
		}
	}

	for _, o := range g.out {
		o.TraceID = trace.ID
	}
	return trace, g.out
}

type generator struct {
	rng   *rand.Rand
	clock time.Time
	out   []*types.Observation
}

func (g *generator) id() string {
	return uuid.Must(uuid.NewRandomFromReader(g.rng)).String()
}

// emit assigns an id and a strictly advancing start time, appends the
// observation, and returns its id.
func (g *generator) emit(o *types.Observation) string {
	o.ID = g.id()
	g.clock = g.clock.Add(time.Duration(50+g.rng.Intn(200)) * time.Millisecond)
	o.StartTime = types.Time{Time: g.clock}
	if o.EndTime.IsZero() && o.Type != types.ObservationTypeSpan {
		o.EndTime = types.Time{Time: g.clock.Add(time.Duration(10+g.rng.Intn(500)) * time.Millisecond)}
	}
	if o.Level == "" {
		o.Level = types.ObservationLevelDefault
	}
	g.out = append(g.out, o)
	return o.ID
}

func (g *generator) emitChild(parentID string, o *types.Observation) string {
	o.ParentObservationID = parentID
	return g.emit(o)
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }
