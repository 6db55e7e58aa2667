package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"decidemate/internal/app"
	"decidemate/internal/domain"
	"decidemate/internal/events"
	"decidemate/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	App      *app.App
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"decision not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the journal API.
func New(cfg Config) (http.Handler, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.App.Repo))
	hcfg := huma.DefaultConfig("DecideMate API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerDecisions(group, cfg.App)
	registerStats(group, cfg.App)
	registerBackup(group, cfg.App)
	registerPremium(group, cfg.App)
	registerLog(group, cfg.App)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, repo.ErrValidation):
		return newAPIError(http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusPaymentRequired:
		return "payment_required"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var once sync.Once
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			spec, _ = json.Marshal(api.OpenAPI())
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>DecideMate API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

type DecisionPath struct {
	ID string `path:"id"`
}

type decisionBody struct {
	Body domain.Decision
}

type decisionListBody struct {
	Body []domain.Decision
}

func registerDecisions(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-decisions",
		Method:      http.MethodGet,
		Path:        "/decisions",
		Summary:     "List decisions",
		Description: "Archived decisions appear only under filter=archived.",
	}, func(ctx context.Context, input *struct {
		Filter string `query:"filter" enum:"all,pending,reviewed,archived" default:"all"`
	}) (*decisionListBody, error) {
		filter := domain.Filter(input.Filter)
		if input.Filter == "" {
			filter = domain.FilterAll
		}
		items, err := a.Repo.GetFiltered(ctx, filter)
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionListBody{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-decision",
		Method:        http.MethodPost,
		Path:          "/decisions",
		Summary:       "Create decision",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusPaymentRequired,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateDecisionRequest
	}) (*decisionBody, error) {
		ok, err := a.Premium.CanCreateDecision(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if !ok {
			return nil, newAPIError(http.StatusPaymentRequired, "payment_required",
				fmt.Sprintf("free tier limit of %d active decisions reached", a.Premium.Limit), nil)
		}
		d, err := a.Repo.WithActor(actorIDFromContext(ctx)).Create(ctx, input.Body.toInput())
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionBody{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-due-decisions",
		Method:      http.MethodGet,
		Path:        "/decisions/due",
		Summary:     "List decisions due for review",
	}, func(ctx context.Context, _ *struct{}) (*decisionListBody, error) {
		items, err := a.Repo.GetDueForReview(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionListBody{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-decision",
		Method:      http.MethodGet,
		Path:        "/decisions/{id}",
		Summary:     "Get decision",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *DecisionPath) (*decisionBody, error) {
		d, err := a.Repo.GetByID(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionBody{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-decision",
		Method:      http.MethodPatch,
		Path:        "/decisions/{id}",
		Summary:     "Update decision",
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		DecisionPath
		Body UpdateDecisionRequest
	}) (*decisionBody, error) {
		d, err := a.Repo.WithActor(actorIDFromContext(ctx)).Update(ctx, input.ID, input.Body.toInput())
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionBody{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-decision",
		Method:        http.MethodDelete,
		Path:          "/decisions/{id}",
		Summary:       "Delete decision",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *DecisionPath) (*struct{}, error) {
		removed, err := a.Repo.WithActor(actorIDFromContext(ctx)).Delete(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		if !removed {
			return nil, newAPIError(http.StatusNotFound, "not_found", "decision not found", nil)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-outcome",
		Method:      http.MethodPost,
		Path:        "/decisions/{id}/outcome",
		Summary:     "Record realized outcome",
		Description: "Submitting again replaces the prior outcome (re-review).",
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		DecisionPath
		Body OutcomeRequest
	}) (*decisionBody, error) {
		d, err := a.Repo.WithActor(actorIDFromContext(ctx)).AddOutcome(ctx, input.ID, domain.OutcomeInput{
			Description:    input.Body.Description,
			Rating:         input.Body.Rating,
			LessonsLearned: input.Body.LessonsLearned,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionBody{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-decision",
		Method:      http.MethodPost,
		Path:        "/decisions/{id}/archive",
		Summary:     "Archive decision",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *DecisionPath) (*decisionBody, error) {
		d, err := a.Repo.WithActor(actorIDFromContext(ctx)).Archive(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionBody{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "unarchive-decision",
		Method:      http.MethodPost,
		Path:        "/decisions/{id}/unarchive",
		Summary:     "Unarchive decision",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *DecisionPath) (*decisionBody, error) {
		d, err := a.Repo.WithActor(actorIDFromContext(ctx)).Unarchive(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionBody{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-decisions",
		Method:      http.MethodDelete,
		Path:        "/decisions",
		Summary:     "Clear all decisions",
		Description: "Irreversible. Requires confirm=true.",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Confirm bool `query:"confirm"`
	}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		if !input.Confirm {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "pass confirm=true to clear the journal", nil)
		}
		if err := a.Repo.WithActor(actorIDFromContext(ctx)).ClearAll(ctx); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "cleared"}}, nil
	})
}

func registerStats(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "overall-stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Overall statistics",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body any `json:"body"`
	}, error) {
		stats, err := a.Analytics.OverallStats(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body any `json:"body"`
		}{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "category-stats",
		Method:      http.MethodGet,
		Path:        "/stats/categories",
		Summary:     "Per-category statistics",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body any `json:"body"`
	}, error) {
		stats, err := a.Analytics.CategoryStats(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body any `json:"body"`
		}{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "day-stats",
		Method:      http.MethodGet,
		Path:        "/stats/days",
		Summary:     "Decision frequency by day of week",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body any `json:"body"`
	}, error) {
		stats, err := a.Analytics.FrequencyByDay(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body any `json:"body"`
		}{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "stats-highlights",
		Method:      http.MethodGet,
		Path:        "/stats/highlights",
		Summary:     "Most active day, best and worst categories",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body HighlightsResponse
	}, error) {
		day, err := a.Analytics.MostActiveDay(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		best, err := a.Analytics.BestCategory(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		worst, err := a.Analytics.WorstCategory(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body HighlightsResponse
		}{Body: HighlightsResponse{MostActiveDay: day, BestCategory: best, WorstCategory: worst}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "insights",
		Method:      http.MethodGet,
		Path:        "/insights",
		Summary:     "Heuristic insights",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body InsightsResponse
	}, error) {
		lines, err := a.Analytics.Insights(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body InsightsResponse
		}{Body: InsightsResponse{Insights: lines}}, nil
	})
}

func registerBackup(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "export-decisions",
		Method:      http.MethodGet,
		Path:        "/export",
		Summary:     "Export the journal as JSON",
	}, func(ctx context.Context, _ *struct{}) (*decisionListBody, error) {
		items, err := a.Repo.GetAll(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &decisionListBody{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "import-decisions",
		Method:      http.MethodPost,
		Path:        "/import",
		Summary:     "Import a previously exported journal",
		Description: "Merges by id; existing records win. Malformed input imports nothing.",
		Errors:      []int{http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		RawBody []byte
	}) (*struct {
		Body ImportResponse
	}, error) {
		added, err := a.Repo.WithActor(actorIDFromContext(ctx)).ImportJSON(ctx, input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ImportResponse
		}{Body: ImportResponse{Added: added}}, nil
	})
}

func registerPremium(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "premium-status",
		Method:      http.MethodGet,
		Path:        "/premium",
		Summary:     "Premium status and creation allowance",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body PremiumResponse
	}, error) {
		isPremium, err := a.Premium.IsPremium(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		canCreate, err := a.Premium.CanCreateDecision(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PremiumResponse
		}{Body: PremiumResponse{
			Premium:       isPremium,
			FreeTierLimit: a.Premium.Limit,
			CanCreate:     canCreate,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-premium",
		Method:      http.MethodPut,
		Path:        "/premium",
		Summary:     "Set premium status",
	}, func(ctx context.Context, input *struct {
		Body SetPremiumRequest
	}) (*struct {
		Body PremiumResponse
	}, error) {
		if err := a.Premium.SetPremium(ctx, input.Body.Premium); err != nil {
			return nil, handleError(err)
		}
		canCreate, err := a.Premium.CanCreateDecision(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PremiumResponse
		}{Body: PremiumResponse{
			Premium:       input.Body.Premium,
			FreeTierLimit: a.Premium.Limit,
			CanCreate:     canCreate,
		}}, nil
	})
}

func registerLog(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "tail-log",
		Method:      http.MethodGet,
		Path:        "/log",
		Summary:     "Tail the audit log",
	}, func(ctx context.Context, input *struct {
		N          int    `query:"n" default:"20"`
		Type       string `query:"type"`
		DecisionID string `query:"decision_id"`
	}) (*struct {
		Body []events.Entry
	}, error) {
		entries, err := a.Events.Latest(ctx, input.N, input.Type, input.DecisionID)
		if err != nil {
			return nil, handleError(err)
		}
		if entries == nil {
			entries = []events.Entry{}
		}
		return &struct {
			Body []events.Entry
		}{Body: entries}, nil
	})
}
