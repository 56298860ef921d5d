package server

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/toyz/addasync/internal/config"
	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/logging"
	"github.com/toyz/addasync/internal/rewriter"
)

// ExpandRequest asks for every annotated declaration in a source file to be expanded
type ExpandRequest struct {
	Filename string `json:"filename"`
	Source   string `json:"source" validate:"required"`
}

// ExpansionJSON describes one generated declaration
type ExpansionJSON struct {
	Name   string `json:"name"`
	Shape  string `json:"shape"`
	Throws bool   `json:"throws"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// DiagnosticJSON describes one declaration that could not be expanded
type DiagnosticJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// ExpandResponse is the result of POST /v1/expand
type ExpandResponse struct {
	ID          string           `json:"id"`
	Source      string           `json:"source"`
	Changed     bool             `json:"changed"`
	Expansions  []ExpansionJSON  `json:"expansions"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// DeclarationRequest carries a single annotated declaration
type DeclarationRequest struct {
	Declaration string `json:"declaration" validate:"required"`
}

// DeclarationResponse is the result of POST /v1/declarations
type DeclarationResponse struct {
	ID        string `json:"id"`
	Generated string `json:"generated"`
	Shape     string `json:"shape"`
	Throws    bool   `json:"throws"`
}

// API exposes the rewriter over HTTP
type API struct {
	rewriter *rewriter.Rewriter
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAPI creates the HTTP API for cfg
func NewAPI(cfg *config.Config, logger *zap.Logger) *API {
	return &API{
		rewriter: rewriter.NewFromConfig(cfg),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.OrNop(logger),
	}
}

// Register installs the middleware chain and routes on ws
func (a *API) Register(ws WebServer) {
	ws.Use(RequestID())
	ws.Use(Logger(a.logger))

	ws.RegisterRoute(http.MethodGet, "/healthz", a.health)
	ws.RegisterRoute(http.MethodPost, "/v1/expand", a.expand)
	ws.RegisterRoute(http.MethodPost, "/v1/declarations", a.declaration)
}

func (a *API) health(c RequestContext) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": config.Version})
}

func (a *API) expand(c RequestContext) error {
	var req ExpandRequest
	if err := a.bind(c, &req); err != nil {
		return err
	}
	if req.Filename == "" {
		req.Filename = "<input>"
	}

	result, err := a.rewriter.Rewrite(req.Filename, req.Source)
	if err != nil {
		return a.unprocessable(err)
	}

	resp := ExpandResponse{
		ID:          RequestIDFrom(c),
		Source:      result.Source,
		Changed:     result.Changed,
		Expansions:  make([]ExpansionJSON, 0, len(result.Expansions)),
		Diagnostics: make([]DiagnosticJSON, 0, len(result.Diagnostics)),
	}
	for _, exp := range result.Expansions {
		resp.Expansions = append(resp.Expansions, ExpansionJSON{
			Name:   exp.Name,
			Shape:  exp.Shape,
			Throws: exp.Throws,
			Line:   exp.Location.Line,
			Column: exp.Location.Column,
		})
	}
	for _, diag := range result.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, DiagnosticJSON{
			Code:    diag.Code.String(),
			Message: diag.Message,
			Line:    diag.Location.Line,
			Column:  diag.Location.Column,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *API) declaration(c RequestContext) error {
	var req DeclarationRequest
	if err := a.bind(c, &req); err != nil {
		return err
	}

	generated, err := a.rewriter.ExpandDeclaration(req.Declaration)
	if err != nil {
		return a.unprocessable(err)
	}

	return c.JSON(http.StatusOK, DeclarationResponse{
		ID:        RequestIDFrom(c),
		Generated: generated.Source(),
		Shape:     generated.Shape.String(),
		Throws:    generated.Shape.Throws(),
	})
}

func (a *API) bind(c RequestContext, v interface{}) error {
	if err := c.Bind(v); err != nil {
		he := NewHTTPError(http.StatusBadRequest, "bad_request", "invalid JSON body")
		he.Internal = err
		return he
	}
	if err := a.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return NewHTTPError(http.StatusBadRequest, "bad_request", fieldErrs[0].Field()+" is required")
		}
		return NewHTTPError(http.StatusBadRequest, "bad_request", err.Error())
	}
	return nil
}

// unprocessable maps expansion and syntax errors to 422 with their exact message
func (a *API) unprocessable(err error) error {
	var rich errors.AddAsyncError
	if !stderrors.As(err, &rich) {
		return err
	}

	message := err.Error()
	var expErr *errors.ExpansionError
	var synErr *errors.SyntaxError
	switch {
	case stderrors.As(err, &expErr):
		message = expErr.Message
	case stderrors.As(err, &synErr):
		message = synErr.Message
	}
	return NewHTTPError(http.StatusUnprocessableEntity, rich.ErrorCode().String(), message)
}
