package gateway

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"areactl/internal/catalog"
)

// Workflow is a persisted workflow record.
//
// Parameter lists hold "name=value" pairs in the order the backend returned them.
type Workflow struct {
	ID                 int      `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Active             bool     `json:"active" yaml:"active"`
	ActionName         string   `json:"action_name" yaml:"action_name"`
	ActionParameters   []string `json:"action_parameters" yaml:"action_parameters"`
	ModifierName       string   `json:"modifier_name,omitempty" yaml:"modifier_name,omitempty"`
	ModifierParameters []string `json:"modifier_parameters,omitempty" yaml:"modifier_parameters,omitempty"`
	ReactionName       string   `json:"reaction_name" yaml:"reaction_name"`
	ReactionParameters []string `json:"reaction_parameters" yaml:"reaction_parameters"`
}

// SaveRequest is the body of a create or update call.
//
// Parameters are "name=value" pairs. On the wire they are sent as a JSON
// object, which is how the backend stores them.
type SaveRequest struct {
	Name               string
	Active             bool
	ActionName         string
	ActionParameters   []string
	ModifierName       string
	ModifierParameters []string
	ReactionName       string
	ReactionParameters []string
}

// CheckResult is the outcome of a syntax check.
type CheckResult struct {
	SyntaxValid bool   `json:"syntax_valid"`
	Error       string `json:"error,omitempty"`
}

// LogEntry is one execution log line of a workflow.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
}

type saveBody struct {
	Name               string     `json:"Name,omitempty"`
	Active             bool       `json:"Active"`
	ActionName         string     `json:"ActionName"`
	ActionParameters   pairObject `json:"ActionParameters"`
	ModifierName       string     `json:"ModifierName"`
	ModifierParameters pairObject `json:"ModifierParameters"`
	ReactionName       string     `json:"ReactionName"`
	ReactionParameters pairObject `json:"ReactionParameters"`
}

type checkBody struct {
	ActionName         string     `json:"ActionName"`
	ActionParameters   pairObject `json:"ActionParameters"`
	ModifierName       string     `json:"ModifierName"`
	ModifierParameters pairObject `json:"ModifierParameters"`
	ReactionName       string     `json:"ReactionName"`
	ReactionParameters pairObject `json:"ReactionParameters"`
}

func (r SaveRequest) body() saveBody {
	return saveBody{
		Name:               r.Name,
		Active:             r.Active,
		ActionName:         r.ActionName,
		ActionParameters:   r.ActionParameters,
		ModifierName:       r.ModifierName,
		ModifierParameters: r.ModifierParameters,
		ReactionName:       r.ReactionName,
		ReactionParameters: r.ReactionParameters,
	}
}

func (r SaveRequest) checkBody() checkBody {
	return checkBody{
		ActionName:         r.ActionName,
		ActionParameters:   r.ActionParameters,
		ModifierName:       r.ModifierName,
		ModifierParameters: r.ModifierParameters,
		ReactionName:       r.ReactionName,
		ReactionParameters: r.ReactionParameters,
	}
}

// pairObject encodes "name=value" pairs as a JSON object, keeping pair order.
// When a name repeats, the last pair wins.
type pairObject []string

func (p pairObject) MarshalJSON() ([]byte, error) {
	last := make(map[string]int, len(p))
	for i, pair := range p {
		name, _, _ := strings.Cut(pair, "=")
		last[name] = i
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range p {
		name, value, _ := strings.Cut(pair, "=")
		if last[name] != i {
			continue
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parsePairs reads stored parameters, accepting either a list of
// "name=value" strings or an object of name to value. Blank values are dropped.
func parsePairs(r gjson.Result) []string {
	var pairs []string
	switch {
	case r.IsArray():
		for _, item := range r.Array() {
			if s := item.String(); s != "" {
				pairs = append(pairs, s)
			}
		}
	case r.IsObject():
		r.ForEach(func(key, value gjson.Result) bool {
			if v := value.String(); strings.TrimSpace(v) != "" {
				pairs = append(pairs, key.String()+"="+v)
			}
			return true
		})
	}
	return pairs
}

// parseWorkflow decodes one workflow record.
func parseWorkflow(r gjson.Result) Workflow {
	id := r.Get("ID")
	if !id.Exists() {
		id = r.Get("WorkflowID")
	}
	return Workflow{
		ID:                 int(id.Int()),
		Name:               r.Get("Name").String(),
		Active:             r.Get("Active").Bool(),
		ActionName:         r.Get("ActionName").String(),
		ActionParameters:   parsePairs(r.Get("ActionParameters")),
		ModifierName:       r.Get("ModifierName").String(),
		ModifierParameters: parsePairs(r.Get("ModifierParameters")),
		ReactionName:       r.Get("ReactionName").String(),
		ReactionParameters: parsePairs(r.Get("ReactionParameters")),
	}
}

// parseEntry decodes a catalog detail response.
func parseEntry(kind catalog.Kind, r gjson.Result) catalog.Entry {
	e := catalog.Entry{
		Kind:        kind,
		Name:        r.Get("Name").String(),
		DisplayName: r.Get("PrettyName").String(),
		Description: r.Get("Description").String(),
	}
	for _, p := range r.Get("Parameters").Array() {
		e.Parameters = append(e.Parameters, catalog.ParameterDef{
			Name:        p.Get("Name").String(),
			DisplayName: p.Get("PrettyName").String(),
			Type:        p.Get("Type").String(),
		})
	}
	for _, o := range r.Get("Outputs").Array() {
		e.Outputs = append(e.Outputs, catalog.OutputDef{
			Name:        o.Get("Name").String(),
			DisplayName: o.Get("PrettyName").String(),
		})
	}
	return e
}
