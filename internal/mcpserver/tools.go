package mcpserver

import (
	"bytes"
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/efinstitute/sitegate/internal/checks"
	"github.com/efinstitute/sitegate/internal/gate"
	"github.com/efinstitute/sitegate/internal/terminal"
)

type listChecksInput struct{}

type checkInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
}

type listChecksOutput struct {
	Checks []checkInfo `json:"checks"`
}

func (s *Server) handleListChecks(ctx context.Context, req *mcp.CallToolRequest, input listChecksInput) (*mcp.CallToolResult, listChecksOutput, error) {
	var out listChecksOutput
	for _, info := range s.registry.List() {
		out.Checks = append(out.Checks, checkInfo{Name: info.Name, Aliases: info.Aliases, Description: info.Description})
	}
	return nil, out, nil
}

// runCheckInput is the input for the run_check tool.
type runCheckInput struct {
	Name     string `json:"name" jsonschema:"Check name or alias e.g. links, a11y, copy-style, sitemap"`
	External bool   `json:"external,omitempty" jsonschema:"With the links check, also probe external http(s) links"`
}

type runCheckOutput struct {
	Passed bool   `json:"passed"`
	Report string `json:"report"`
}

func (s *Server) handleRunCheck(ctx context.Context, req *mcp.CallToolRequest, input runCheckInput) (*mcp.CallToolResult, runCheckOutput, error) {
	name := strings.TrimSpace(input.Name)
	out := runCheckOutput{Passed: true}
	var sections []string
	for _, n := range checks.Plan(name, input.External || s.cfg.External.Enabled) {
		checker, err := s.registry.Lookup(n, s.cfg)
		if err != nil {
			return nil, runCheckOutput{}, err
		}
		report, err := checker.Run(ctx, s.site)
		if err != nil {
			return nil, runCheckOutput{}, err
		}
		sections = append(sections, report.String())
		if !report.Passed() {
			out.Passed = false
		}
	}
	out.Report = strings.Join(sections, "\n")
	return nil, out, nil
}

type runGateInput struct{}

type runGateOutput struct {
	RunID      string `json:"run_id"`
	Passed     bool   `json:"passed"`
	ExitCode   int    `json:"exit_code"`
	FailedStep string `json:"failed_step,omitempty"`
	Transcript string `json:"transcript"`
}

func (s *Server) handleRunGate(ctx context.Context, req *mcp.CallToolRequest, input runGateInput) (*mcp.CallToolResult, runGateOutput, error) {
	var buf bytes.Buffer
	ui := terminal.Plain(&buf)
	ui.Err = &buf

	runner, err := gate.New(gate.Options{
		Site:      s.site,
		Config:    s.cfg,
		Registry:  s.registry,
		UI:        ui,
		Logger:    s.logger,
		History:   s.history,
		InProcess: true,
		Trigger:   "mcp",
	})
	if err != nil {
		return nil, runGateOutput{}, err
	}
	run, err := runner.Run(ctx)
	if err != nil {
		return nil, runGateOutput{}, err
	}
	return nil, runGateOutput{
		RunID:      run.ID,
		Passed:     run.Passed,
		ExitCode:   run.ExitCode,
		FailedStep: run.FailedStep,
		Transcript: buf.String(),
	}, nil
}
