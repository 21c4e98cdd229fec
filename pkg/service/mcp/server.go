// Package mcp exposes the assistant's query operations as MCP tools so
// other agents can call them over stdio.
package mcp

import (
	"context"
	"encoding/base64"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/service/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type medicationInfoParams struct {
	Name string `json:"name" jsonschema:"Name of the medication to look up"`
}

type checkInteractionsParams struct {
	Medications []string `json:"medications" jsonschema:"Two or more medication names to check for interactions"`
}

type analyzeDocumentParams struct {
	ImageBase64 string `json:"image_base64" jsonschema:"Base64-encoded document image (PNG, JPEG, or WebP)"`
	MimeType    string `json:"mime_type" jsonschema:"MIME type of the image, e.g. image/png"`
}

type Server struct {
	queries *query.Service
	server  *mcp.Server
}

func NewServer(queries *query.Service) *Server {
	s := &Server{queries: queries}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "medassist",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "medication_info",
		Description: "Look up uses, side effects, and dosage guidelines for a medication",
	}, s.medicationInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_interactions",
		Description: "Check for potential interactions among two or more medications",
	}, s.checkInteractions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Analyze a medical document image (prescription, label, report)",
	}, s.analyzeDocument)

	return s
}

// Run serves MCP requests over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "mcp server failed")
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text + "\n\n" + model.Disclaimer},
		},
	}
}

func (s *Server) medicationInfo(ctx context.Context, req *mcp.CallToolRequest, params *medicationInfoParams) (*mcp.CallToolResult, any, error) {
	info, err := s.queries.MedicationInfo(ctx, params.Name)
	if err != nil {
		return nil, nil, err
	}

	text := "Uses: " + info.Uses +
		"\n\nSide Effects: " + info.SideEffects +
		"\n\nDosage Guidelines: " + info.DosageGuidelines
	return textResult(text), nil, nil
}

func (s *Server) checkInteractions(ctx context.Context, req *mcp.CallToolRequest, params *checkInteractionsParams) (*mcp.CallToolResult, any, error) {
	report, err := s.queries.CheckInteractions(ctx, params.Medications)
	if err != nil {
		return nil, nil, err
	}
	return textResult(report.Report), nil, nil
}

func (s *Server) analyzeDocument(ctx context.Context, req *mcp.CallToolRequest, params *analyzeDocumentParams) (*mcp.CallToolResult, any, error) {
	image, err := base64.StdEncoding.DecodeString(params.ImageBase64)
	if err != nil {
		return nil, nil, model.NewValidationError("image_base64 is not valid base64")
	}

	analysis, err := s.queries.AnalyzeDocument(ctx, image, params.MimeType)
	if err != nil {
		return nil, nil, err
	}
	return textResult(analysis.Analysis), nil, nil
}
