package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"decidemate/internal/app"
	"decidemate/internal/config"
	"decidemate/internal/domain"
	"decidemate/internal/kv"
	"decidemate/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "dm",
	Short: "DecideMate CLI",
	Long: `DecideMate is a personal decision journal.
Record a decision with how confident you are and what you expect to happen,
come back when the review date arrives to log what actually happened, and
let the stats show whether your confidence matches reality.
- Decisions: title, category, confidence 1-10, expected outcome, review date.
- Reviews: rate the realized outcome 1-10 and note lessons learned.
- Stats: calibration (confidence minus outcome), per-category averages,
  review completion, busiest decision day, and heuristic insights.
- Archive hides a decision from views and stats without deleting it.
- Free tier caps the journal at 30 active decisions ('dm premium').`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		_ = godotenv.Load(filepath.Join(workspace, ".env"))
		if _, err := kv.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DECIDEMATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier for the audit log")
	rootCmd.PersistentFlags().Bool("force", false, "force operation")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("force", rootCmd.PersistentFlags().Lookup("force"))
}

func registerCommands() {
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(archiveCmd())
	rootCmd.AddCommand(unarchiveCmd())
	rootCmd.AddCommand(dueCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(premiumCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(apikeyCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(serveCmd())
}

func addCmd() *cobra.Command {
	var title, description, category, expected, reviewDate string
	var confidence int
	var reviewIn time.Duration
	var tags []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				ok, err := a.Premium.CanCreateDecision(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("free tier limit of %d active decisions reached; archive or delete some, or enable premium", a.Premium.Limit)
				}
				when, err := resolveReviewDate(reviewDate, reviewIn)
				if err != nil {
					return err
				}
				d, err := a.Repo.Create(ctx, domain.CreateInput{
					Title:           title,
					Description:     description,
					Category:        domain.Category(category),
					ConfidenceLevel: confidence,
					ExpectedOutcome: expected,
					ReviewDate:      when,
					Tags:            tags,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "decision title")
	cmd.Flags().StringVar(&description, "description", "", "what is being decided")
	cmd.Flags().StringVar(&category, "category", "other", "category (financial, career, relationships, health, business, personal, other)")
	cmd.Flags().IntVar(&confidence, "confidence", 5, "confidence level 1-10")
	cmd.Flags().StringVar(&expected, "expected", "", "expected outcome")
	cmd.Flags().StringVar(&reviewDate, "review-date", "", "review date (2006-01-02 or RFC3339)")
	cmd.Flags().DurationVar(&reviewIn, "review-in", 30*24*time.Hour, "review after this duration (ignored when --review-date set)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func listCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Repo.GetFiltered(ctx, domain.Filter(filter))
				if err != nil {
					return err
				}
				return printDecisions(items)
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, pending, reviewed, or archived")
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				d, err := a.Repo.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
	return cmd
}

func updateCmd() *cobra.Command {
	var title, description, category, expected, reviewDate string
	var confidence int
	var tags []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update decision fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				var in domain.UpdateInput
				if cmd.Flags().Changed("title") {
					in.Title = &title
				}
				if cmd.Flags().Changed("description") {
					in.Description = &description
				}
				if cmd.Flags().Changed("category") {
					c := domain.Category(category)
					in.Category = &c
				}
				if cmd.Flags().Changed("confidence") {
					in.ConfidenceLevel = &confidence
				}
				if cmd.Flags().Changed("expected") {
					in.ExpectedOutcome = &expected
				}
				if cmd.Flags().Changed("review-date") {
					when, err := parseTime(reviewDate)
					if err != nil {
						return err
					}
					in.ReviewDate = &when
				}
				if cmd.Flags().Changed("tags") {
					in.Tags = tags
				}
				d, err := a.Repo.Update(ctx, args[0], in)
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "decision title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().IntVar(&confidence, "confidence", 0, "confidence level 1-10")
	cmd.Flags().StringVar(&expected, "expected", "", "expected outcome")
	cmd.Flags().StringVar(&reviewDate, "review-date", "", "review date (2006-01-02 or RFC3339)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags (replaces existing)")
	return cmd
}

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a decision permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				removed, err := a.Repo.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("decision %s not found", args[0])
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
	return cmd
}

func reviewCmd() *cobra.Command {
	var description, lessons string
	var rating int
	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Record the realized outcome",
		Long:  "Records how the decision actually turned out. Reviewing again replaces the earlier outcome.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				d, err := a.Repo.AddOutcome(ctx, args[0], domain.OutcomeInput{
					Description:    description,
					Rating:         rating,
					LessonsLearned: lessons,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "realized outcome rating 1-10")
	cmd.Flags().StringVar(&description, "description", "", "what actually happened")
	cmd.Flags().StringVar(&lessons, "lessons", "", "lessons learned")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a decision (hidden from views and stats)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				d, err := a.Repo.Archive(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
}

func unarchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive <id>",
		Short: "Restore an archived decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				d, err := a.Repo.Unarchive(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
}

func dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List decisions due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Repo.GetDueForReview(ctx)
				if err != nil {
					return err
				}
				return printDecisions(items)
			})
		},
	}
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Overall statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				stats, err := a.Analytics.OverallStats(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(stats)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "Per-category statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				stats, err := a.Analytics.CategoryStats(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Category", "Count", "Avg Confidence", "Avg Outcome", "Success Rate"})
				for _, s := range stats {
					tw.AppendRow(table.Row{s.Category, s.Count,
						fmt.Sprintf("%.1f", s.AverageConfidence),
						fmt.Sprintf("%.1f", s.AverageOutcome),
						fmt.Sprintf("%.0f%%", s.SuccessRate)})
				}
				tw.Render()
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "days",
		Short: "Decision frequency by day of week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				stats, err := a.Analytics.FrequencyByDay(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Day", "Count"})
				for _, s := range stats {
					tw.AppendRow(table.Row{s.Day, s.Count})
				}
				tw.Render()
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "highlights",
		Short: "Most active day, best and worst categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				day, err := a.Analytics.MostActiveDay(ctx)
				if err != nil {
					return err
				}
				best, err := a.Analytics.BestCategory(ctx)
				if err != nil {
					return err
				}
				worst, err := a.Analytics.WorstCategory(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]string{
					"mostActiveDay": day,
					"bestCategory":  best,
					"worstCategory": worst,
				})
			})
		},
	})
	return cmd
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Heuristic insights about your decision making",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				lines, err := a.Analytics.Insights(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(lines)
				}
				for _, line := range lines {
					fmt.Println("-", line)
				}
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as pretty-printed JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				data, err := a.Repo.ExportJSON(ctx)
				if err != nil {
					return err
				}
				if out == "" {
					fmt.Println(string(data))
					return nil
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				fmt.Println("exported to", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (stdout when empty)")
	return cmd
}

func importCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a previously exported journal",
		Long:  "Merges by id; records already in the journal win. Malformed input imports nothing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				added, err := a.Repo.ImportJSON(ctx, data)
				if err != nil {
					return err
				}
				fmt.Printf("imported %d decisions\n", added)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func premiumCmd() *cobra.Command {
	prm := &cobra.Command{Use: "premium", Short: "Premium status and free-tier gate"}
	prm.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show premium status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				isPremium, err := a.Premium.IsPremium(ctx)
				if err != nil {
					return err
				}
				count, err := a.Repo.GetCount(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{
					"premium":       isPremium,
					"freeTierLimit": a.Premium.Limit,
					"activeCount":   count,
				})
			})
		},
	})
	prm.AddCommand(&cobra.Command{
		Use:   "set <true|false>",
		Short: "Set premium status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("expected true or false: %w", err)
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Premium.SetPremium(ctx, value); err != nil {
					return err
				}
				fmt.Println("premium:", value)
				return nil
			})
		},
	})
	prm.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check whether a new decision can be created",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				ok, err := a.Premium.CanCreateDecision(ctx)
				if err != nil {
					return err
				}
				fmt.Println("canCreate:", ok)
				return nil
			})
		},
	})
	return prm
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every decision (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !viper.GetBool("force") {
				return fmt.Errorf("refusing to clear the journal without --force")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Repo.ClearAll(ctx); err != nil {
					return err
				}
				fmt.Println("journal cleared")
				return nil
			})
		},
	}
}

func apikeyCmd() *cobra.Command {
	key := &cobra.Command{Use: "apikey", Short: "Manage server API keys"}
	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an API key (shown once)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				k, raw, err := a.Repo.CreateAPIKey(ctx, name)
				if err != nil {
					return err
				}
				fmt.Println("id: ", k.ID)
				fmt.Println("key:", raw)
				fmt.Println("store the key now; only its hash is kept")
				return nil
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "key name")
	key.AddCommand(create)
	key.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				keys, err := a.Repo.ListAPIKeys(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(keys)
			})
		},
	})
	key.AddCommand(&cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				removed, err := a.Repo.RevokeAPIKey(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("api key %s not found", args[0])
				}
				fmt.Println("revoked", args[0])
				return nil
			})
		},
	})
	return key
}

func logCmd() *cobra.Command {
	lg := &cobra.Command{Use: "log", Short: "Audit log"}
	var n int
	var evtType, decisionID string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Tail audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				entries, err := a.Events.Latest(ctx, n, evtType, decisionID)
				if err != nil {
					return err
				}
				return printJSONOrTable(entries)
			})
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of entries")
	tail.Flags().StringVar(&evtType, "type", "", "event type filter")
	tail.Flags().StringVar(&decisionID, "decision-id", "", "decision id filter")
	lg.AddCommand(tail)
	return lg
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage configuration"}
	cfg.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default decidemate.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !viper.GetBool("force") {
				return fmt.Errorf("%s exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(c)
		},
	})
	return cfg
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	var requireAuth bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			a, err := app.Open(workspace, viper.GetString("actor-id"))
			if err != nil {
				return err
			}
			defer a.Close()
			if addr == "" {
				addr = a.Config.Server.Addr
			}
			if basePath == "" {
				basePath = a.Config.Server.BasePath
			}
			authCfg := server.AuthConfig{
				JWTSecret:   os.Getenv("DECIDEMATE_JWT_SECRET"),
				RequireAuth: requireAuth,
			}
			if authCfg.RequireAuth && authCfg.JWTSecret == "" {
				// API keys still work; warn that bearer auth is off.
				fmt.Println("warning: DECIDEMATE_JWT_SECRET unset; only API keys will authenticate")
			}
			handler, err := server.New(server.Config{App: a, BasePath: basePath, Auth: authCfg})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving DecideMate API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (default from config)")
	cmd.Flags().BoolVar(&requireAuth, "require-auth", false, "reject unauthenticated requests")
	return cmd
}

// --- helpers ---

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.Open(viper.GetString("workspace"), viper.GetString("actor-id"))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func resolveReviewDate(explicit string, in time.Duration) (time.Time, error) {
	if explicit != "" {
		return parseTime(explicit)
	}
	return time.Now().Add(in), nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as 2006-01-02 or RFC3339", s)
	}
	return t, nil
}

func printDecisions(items []domain.Decision) error {
	if viper.GetBool("json") {
		return printJSON(items)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Title", "Category", "Confidence", "Status", "Review Date"})
	for _, d := range items {
		status := "pending"
		if d.Reviewed() {
			status = fmt.Sprintf("reviewed (%d/10)", d.Outcome.Rating)
		}
		if d.IsArchived {
			status = "archived"
		}
		tw.AppendRow(table.Row{shortID(d.ID), d.Title, d.Category, d.ConfidenceLevel, status, d.ReviewDate.Format("2006-01-02")})
	}
	tw.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
