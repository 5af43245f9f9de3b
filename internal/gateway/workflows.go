package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// ErrInvalidSyntax is returned by [Client.Validate] when the backend rejects a workflow.
var ErrInvalidSyntax = errors.New("workflow syntax is invalid")

func workflowPath(id int) string {
	return "workflow/" + strconv.Itoa(id)
}

// ListWorkflows returns every workflow owned by the session. A null body is an empty list.
func (c *Client) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	body, err := c.do(ctx, http.MethodGet, "workflow/", nil)
	if err != nil {
		return nil, err
	}

	var out []Workflow
	for _, r := range gjson.ParseBytes(body).Array() {
		out = append(out, parseWorkflow(r))
	}
	return out, nil
}

// GetWorkflow fetches one workflow.
func (c *Client) GetWorkflow(ctx context.Context, id int) (Workflow, error) {
	body, err := c.do(ctx, http.MethodGet, workflowPath(id), nil)
	if err != nil {
		return Workflow{}, err
	}
	wf := parseWorkflow(gjson.ParseBytes(body))
	if wf.ID == 0 {
		wf.ID = id
	}
	return wf, nil
}

// CreateWorkflow creates a workflow and returns the stored record.
func (c *Client) CreateWorkflow(ctx context.Context, req SaveRequest) (Workflow, error) {
	body, err := c.do(ctx, http.MethodPost, "workflow/", req.body())
	if err != nil {
		return Workflow{}, err
	}
	return parseWorkflow(gjson.ParseBytes(body)), nil
}

// UpdateWorkflow replaces the editable fields of an existing workflow.
func (c *Client) UpdateWorkflow(ctx context.Context, id int, req SaveRequest) (Workflow, error) {
	body, err := c.do(ctx, http.MethodPatch, workflowPath(id), req.body())
	if err != nil {
		return Workflow{}, err
	}
	wf := parseWorkflow(gjson.ParseBytes(body))
	if wf.ID == 0 {
		wf.ID = id
	}
	return wf, nil
}

// DeleteWorkflow removes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, workflowPath(id), nil)
	return err
}

// CheckWorkflow asks the backend whether the action, modifier and reaction
// combination is valid. Name and Active are not part of the check.
func (c *Client) CheckWorkflow(ctx context.Context, req SaveRequest) (CheckResult, error) {
	body, err := c.do(ctx, http.MethodPost, "workflow/check", req.checkBody())
	if err != nil {
		return CheckResult{}, err
	}
	doc := gjson.ParseBytes(body)
	return CheckResult{
		SyntaxValid: doc.Get("SyntaxValid").Bool(),
		Error:       doc.Get("Error").String(),
	}, nil
}

// Validate runs [Client.CheckWorkflow] and turns a rejection into an error
// wrapping [ErrInvalidSyntax] with the backend's message.
func (c *Client) Validate(ctx context.Context, req SaveRequest) error {
	res, err := c.CheckWorkflow(ctx, req)
	if err != nil {
		return err
	}
	if !res.SyntaxValid {
		if res.Error == "" {
			return ErrInvalidSyntax
		}
		return fmt.Errorf("%w: %s", ErrInvalidSyntax, res.Error)
	}
	return nil
}

// Logs returns the execution log of a workflow, newest first as the backend sorts it.
func (c *Client) Logs(ctx context.Context, id int) ([]LogEntry, error) {
	body, err := c.do(ctx, http.MethodGet, "logs/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var out []LogEntry
	for _, r := range gjson.ParseBytes(body).Get("Logs").Array() {
		entry := LogEntry{
			Type:    r.Get("Type").String(),
			Message: r.Get("Message").String(),
		}
		if ts := r.Get("Timestamp").String(); ts != "" {
			entry.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		}
		out = append(out, entry)
	}
	return out, nil
}
